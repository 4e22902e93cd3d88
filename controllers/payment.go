package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"

	"zapshift-backend/models"
	"zapshift-backend/store"
)

// PaymentController handles the payment journal and gateway passthrough
type PaymentController struct {
	Payments store.PaymentStore
	validate *validator.Validate
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(payments store.PaymentStore) *PaymentController {
	return &PaymentController{
		Payments: payments,
		validate: validator.New(),
	}
}

// CreateIntent delegates amount and currency to Stripe and returns the
// client secret for the web client to complete the payment
func (pc *PaymentController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AmountInCents int64 `json:"amountInCents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AmountInCents <= 0 {
		respondMessage(w, http.StatusBadRequest, "amountInCents is required")
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(body.AmountInCents),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"clientSecret": intent.ClientSecret})
}

// Record appends a completed transaction to the payment journal
func (pc *PaymentController) Record(w http.ResponseWriter, r *http.Request) {
	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := pc.validate.Struct(payment); err != nil {
		respondMessage(w, http.StatusBadRequest, "Missing required fields: "+err.Error())
		return
	}

	id, err := pc.Payments.Record(r.Context(), &payment)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to process payment.",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Payment recorded successfully.",
		"insertedId": id,
	})
}

// List returns the caller's payment history
func (pc *PaymentController) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondMessage(w, http.StatusBadRequest, "Email query parameter is required")
		return
	}

	payments, err := pc.Payments.FindByEmail(r.Context(), email)
	if err != nil {
		respondStoreError(w, err, "Payment not found")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}
