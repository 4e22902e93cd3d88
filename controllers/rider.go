package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"zapshift-backend/models"
	"zapshift-backend/store"
	"zapshift-backend/utils"
)

// RiderController handles courier application requests
type RiderController struct {
	Riders       store.RiderStore
	EmailService *utils.EmailService
	validate     *validator.Validate
}

// NewRiderController creates a new RiderController
func NewRiderController(riders store.RiderStore, emailService *utils.EmailService) *RiderController {
	return &RiderController{
		Riders:       riders,
		EmailService: emailService,
		validate:     validator.New(),
	}
}

// Apply submits a courier application. Status is forced to "pending"
// whatever the caller sends.
func (rc *RiderController) Apply(w http.ResponseWriter, r *http.Request) {
	var app models.RiderApplication
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := rc.validate.Struct(app); err != nil {
		respondMessage(w, http.StatusBadRequest, "Missing required fields: "+err.Error())
		return
	}

	id, err := rc.Riders.Apply(r.Context(), &app)
	if err != nil {
		respondStoreError(w, err, "Rider not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Rider application submitted successfully.",
		"insertedId": id,
	})
}

// ListByStatus lists applications with the given status; status is required
func (rc *RiderController) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		respondMessage(w, http.StatusBadRequest, "Status query parameter is required.")
		return
	}

	riders, err := rc.Riders.FindByStatus(r.Context(), status)
	if err != nil {
		respondStoreError(w, err, "Rider not found")
		return
	}
	respondJSON(w, http.StatusOK, riders)
}

// ListAll lists applications, optionally filtered by status
func (rc *RiderController) ListAll(w http.ResponseWriter, r *http.Request) {
	riders, err := rc.Riders.FindAll(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondStoreError(w, err, "Rider not found")
		return
	}
	respondJSON(w, http.StatusOK, riders)
}

// ListByCity lists active couriers in a city
func (rc *RiderController) ListByCity(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		respondMessage(w, http.StatusBadRequest, "City query parameter is required.")
		return
	}

	riders, err := rc.Riders.FindActiveByCity(r.Context(), city)
	if err != nil {
		respondStoreError(w, err, "Rider not found")
		return
	}
	respondJSON(w, http.StatusOK, riders)
}

// SetStatus updates an application's status. Approval ("active") also
// promotes the linked user's role to rider, and the applicant is notified
// by email.
func (rc *RiderController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		respondMessage(w, http.StatusBadRequest, "status is required")
		return
	}

	app, err := rc.Riders.SetStatus(r.Context(), mux.Vars(r)["id"], body.Status)
	if err != nil {
		respondStoreError(w, err, "Rider not found")
		return
	}

	go func(app models.RiderApplication) {
		if err := rc.EmailService.SendRiderDecisionEmail(app); err != nil {
			log.Printf("Failed to send email to %s: %v", app.ApplicantEmail, err)
		}
	}(*app)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Rider status and user role updated successfully",
	})
}
