package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"zapshift-backend/store"
)

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"message": message})
}

// respondStoreError maps store failures onto the HTTP error taxonomy:
// malformed input 400, missing record 404, anything else 500.
func respondStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrInvalidID), errors.Is(err, store.ErrValidation):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondMessage(w, http.StatusNotFound, notFoundMsg)
	default:
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
