package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"zapshift-backend/models"
	"zapshift-backend/store"
)

// TrackingController handles the per-parcel status event log
type TrackingController struct {
	Tracking store.TrackingStore
	validate *validator.Validate
}

// NewTrackingController creates a new TrackingController
func NewTrackingController(tracking store.TrackingStore) *TrackingController {
	return &TrackingController{
		Tracking: tracking,
		validate: validator.New(),
	}
}

// Append records a status event for a parcel
func (tc *TrackingController) Append(w http.ResponseWriter, r *http.Request) {
	var entry models.TrackingEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := tc.validate.Struct(entry); err != nil {
		respondMessage(w, http.StatusBadRequest, "Missing required fields: "+err.Error())
		return
	}

	id, err := tc.Tracking.Append(r.Context(), &entry)
	if err != nil {
		respondStoreError(w, err, "Tracking entry not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Tracking entry recorded successfully.",
		"insertedId": id,
	})
}

// List returns tracking history, optionally for one tracking id
func (tc *TrackingController) List(w http.ResponseWriter, r *http.Request) {
	entries, err := tc.Tracking.Find(r.Context(), r.URL.Query().Get("trackingId"))
	if err != nil {
		respondStoreError(w, err, "Tracking entry not found")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
