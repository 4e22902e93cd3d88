package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"zapshift-backend/models"
	"zapshift-backend/store"
	"zapshift-backend/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Guard outcomes. Verification must always run before either guard.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ClaimsFrom extracts the verified identity attached by Auth, if any
func ClaimsFrom(ctx context.Context) *utils.Claims {
	claims, _ := ctx.Value(UserContextKey).(*utils.Claims)
	return claims
}

// CheckEmailMatch is the identity-match guard: the email named in the
// request must equal the verified identity's email.
func CheckEmailMatch(claims *utils.Claims, requestEmail string) error {
	if claims == nil || claims.Email == "" {
		return ErrUnauthorized
	}
	if requestEmail != claims.Email {
		return ErrForbidden
	}
	return nil
}

// CheckAdmin is the admin guard, evaluated against the stored role rather
// than token claims.
func CheckAdmin(claims *utils.Claims, storedRole string) error {
	if claims == nil || claims.Email == "" {
		return ErrUnauthorized
	}
	if storedRole != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// Auth verifies the bearer credential with the injected verifier and
// attaches the resulting claims to the request context
func Auth(verifier utils.TokenVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided.")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondMessage(w, http.StatusUnauthorized, "Unauthorized: Invalid Authorization header.")
				return
			}

			claims, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				respondMessage(w, http.StatusUnauthorized, "Unauthorized: Invalid token.")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireEmailMatch rejects requests whose email (query parameter, falling
// back to the JSON body) does not match the verified identity
func RequireEmailMatch() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestEmail := r.URL.Query().Get("email")
			if requestEmail == "" && r.Body != nil {
				body, err := io.ReadAll(r.Body)
				if err == nil {
					var payload struct {
						Email string `json:"email"`
					}
					_ = json.Unmarshal(body, &payload)
					requestEmail = payload.Email
					// Put the body back for the handler
					r.Body = io.NopCloser(bytes.NewReader(body))
				}
			}

			if err := CheckEmailMatch(ClaimsFrom(r.Context()), requestEmail); err != nil {
				writeGuardError(w, err, "Forbidden: Email mismatch.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin resolves the verified identity's stored role through the
// account directory and rejects non-admins
func RequireAdmin(users store.UserStore) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil || claims.Email == "" {
				respondMessage(w, http.StatusUnauthorized, "Unauthorized: No email found")
				return
			}

			role, err := users.Role(r.Context(), claims.Email)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				respondMessage(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if err := CheckAdmin(claims, role); err != nil {
				writeGuardError(w, err, "Forbidden: Admins only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeGuardError(w http.ResponseWriter, err error, forbiddenMsg string) {
	if errors.Is(err, ErrUnauthorized) {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized: No email found")
		return
	}
	respondMessage(w, http.StatusForbidden, forbiddenMsg)
}

func respondMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
