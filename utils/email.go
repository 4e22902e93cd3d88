package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/keighl/postmark"

	"zapshift-backend/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes the Postmark client. Returns nil when no API
// token is configured, in which case sends are skipped.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("Warning: POSTMARK_API_TOKEN not set. Email notifications will be disabled.")
		return nil
	}
	return &EmailService{client: postmark.NewClient(apiToken, "")}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es == nil {
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendRiderDecisionEmail notifies an applicant of the decision on their
// courier application
func (es *EmailService) SendRiderDecisionEmail(app models.RiderApplication) error {
	var subject, htmlContent string
	if app.Status == models.RiderActive {
		subject = "Your Rider Application Has Been Approved"
		htmlContent = fmt.Sprintf(
			"<strong>Dear %s,</strong><br><br>Congratulations! Your courier application for %s has been approved. You can now pick up assignable parcels.",
			app.Name, app.City,
		)
	} else {
		subject = "Update on Your Rider Application"
		htmlContent = fmt.Sprintf(
			"<strong>Dear %s,</strong><br><br>Your courier application status has been updated to <strong>%s</strong>.",
			app.Name, app.Status,
		)
	}
	return es.SendEmail(app.ApplicantEmail, subject, htmlContent)
}
