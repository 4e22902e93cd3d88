package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"zapshift-backend/models"
	"zapshift-backend/store"
)

// ParcelController handles parcel ledger requests
type ParcelController struct {
	Parcels store.ParcelStore
}

// NewParcelController creates a new ParcelController
func NewParcelController(parcels store.ParcelStore) *ParcelController {
	return &ParcelController{Parcels: parcels}
}

// Create inserts a parcel with default unpaid / not_collected statuses
func (pc *ParcelController) Create(w http.ResponseWriter, r *http.Request) {
	var parcel models.Parcel
	if err := json.NewDecoder(r.Body).Decode(&parcel); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := pc.Parcels.Create(r.Context(), &parcel)
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"insertedId": id,
	})
}

// GetMyParcels lists parcels owned by the given email
func (pc *ParcelController) GetMyParcels(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondMessage(w, http.StatusBadRequest, "Email query parameter is required.")
		return
	}

	parcels, err := pc.Parcels.FindByOwner(r.Context(), email)
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}
	respondJSON(w, http.StatusOK, parcels)
}

// GetByID fetches one parcel
func (pc *ParcelController) GetByID(w http.ResponseWriter, r *http.Request) {
	parcel, err := pc.Parcels.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}
	respondJSON(w, http.StatusOK, parcel)
}

// GetAll lists every parcel
func (pc *ParcelController) GetAll(w http.ResponseWriter, r *http.Request) {
	parcels, err := pc.Parcels.FindAll(r.Context())
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}
	respondJSON(w, http.StatusOK, parcels)
}

// GetAssignable lists paid parcels that no courier has collected yet
func (pc *ParcelController) GetAssignable(w http.ResponseWriter, r *http.Request) {
	parcels, err := pc.Parcels.FindAssignable(r.Context())
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}
	respondJSON(w, http.StatusOK, parcels)
}

// StatusCounts aggregates parcel counts per delivery status plus the
// paid-but-uncollected backlog
func (pc *ParcelController) StatusCounts(w http.ResponseWriter, r *http.Request) {
	summary, err := pc.Parcels.StatusCounts(r.Context())
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Update merges allow-listed fields into a parcel
func (pc *ParcelController) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := pc.Parcels.UpdateFields(r.Context(), mux.Vars(r)["id"], fields); err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Parcel updated successfully",
	})
}

// UpdateCashout sets the courier payout tracking status
func (pc *ParcelController) UpdateCashout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CashoutStatus string `json:"cashout_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CashoutStatus == "" {
		respondMessage(w, http.StatusBadRequest, "cashout_status is required")
		return
	}

	if err := pc.Parcels.SetCashoutStatus(r.Context(), mux.Vars(r)["id"], body.CashoutStatus); err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cashout status updated successfully",
	})
}

// MarkPaid sets payment_status to paid. Idempotent.
func (pc *ParcelController) MarkPaid(w http.ResponseWriter, r *http.Request) {
	if err := pc.Parcels.MarkPaid(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment status updated successfully",
	})
}

// UpdateDeliveryStatus advances the parcel through its delivery lifecycle
func (pc *ParcelController) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DeliveryStatus string `json:"delivery_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DeliveryStatus == "" {
		respondMessage(w, http.StatusBadRequest, "delivery_status is required")
		return
	}

	parcel, err := pc.Parcels.SetDeliveryStatus(r.Context(), mux.Vars(r)["id"], body.DeliveryStatus)
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Delivery status updated successfully",
		"parcel":  parcel,
	})
}

// AssignRider sets the courier and forces delivery_status=assigned in one write
func (pc *ParcelController) AssignRider(w http.ResponseWriter, r *http.Request) {
	var rider models.AssignedRider
	if err := json.NewDecoder(r.Body).Decode(&rider); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rider.RiderID == "" || rider.Email == "" {
		respondMessage(w, http.StatusBadRequest, "riderId and email are required")
		return
	}

	if err := pc.Parcels.AssignRider(r.Context(), mux.Vars(r)["id"], rider); err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Rider assigned successfully",
	})
}

// RiderAssigned lists the courier's active parcels (assigned or in transit)
func (pc *ParcelController) RiderAssigned(w http.ResponseWriter, r *http.Request) {
	pc.listByRider(w, r, []string{models.DeliveryAssigned, models.DeliveryInTransit})
}

// RiderCompleted lists the courier's delivered parcels
func (pc *ParcelController) RiderCompleted(w http.ResponseWriter, r *http.Request) {
	pc.listByRider(w, r, []string{models.DeliveryDelivered})
}

// RiderEarnings lists the courier's delivered parcels along with the cost total
func (pc *ParcelController) RiderEarnings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondMessage(w, http.StatusBadRequest, "Email query parameter is required.")
		return
	}

	parcels, err := pc.Parcels.FindByRiderAndStatus(r.Context(), email,
		[]string{models.DeliveryDelivered})
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}

	var total float64
	for _, p := range parcels {
		total += p.Cost
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"parcels":       parcels,
		"totalEarnings": total,
	})
}

func (pc *ParcelController) listByRider(w http.ResponseWriter, r *http.Request, statuses []string) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondMessage(w, http.StatusBadRequest, "Email query parameter is required.")
		return
	}

	parcels, err := pc.Parcels.FindByRiderAndStatus(r.Context(), email, statuses)
	if err != nil {
		respondStoreError(w, err, "Parcel not found")
		return
	}
	respondJSON(w, http.StatusOK, parcels)
}
