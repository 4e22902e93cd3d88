package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"zapshift-backend/models"
	"zapshift-backend/store"
)

// UserController handles account directory requests
type UserController struct {
	Users store.UserStore
}

// NewUserController creates a new UserController
func NewUserController(users store.UserStore) *UserController {
	return &UserController{Users: users}
}

// Upsert saves a user on first sign-in. An existing email returns the
// stored record unchanged with success=false.
func (uc *UserController) Upsert(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if user.Email == "" {
		respondMessage(w, http.StatusBadRequest, "Email is required.")
		return
	}

	stored, created, err := uc.Users.UpsertOnSignIn(r.Context(), user)
	if err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	if !created {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "User already exists.",
			"user":    stored,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "User saved successfully.",
		"insertedId": stored.ID,
	})
}

// Get fetches a user by email
func (uc *UserController) Get(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := uc.Users.FindByEmail(r.Context(), email)
	if err != nil {
		respondStoreError(w, err, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// GetRole resolves a user's role, defaulting to "user"
func (uc *UserController) GetRole(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondMessage(w, http.StatusBadRequest, "Email query param required")
		return
	}

	role, err := uc.Users.Role(r.Context(), email)
	if err != nil {
		respondStoreError(w, err, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"role": role})
}

// PromoteToAdmin sets a user's role to admin
func (uc *UserController) PromoteToAdmin(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	if err := uc.Users.PromoteToAdmin(r.Context(), email); err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User has been promoted to admin successfully",
	})
}
