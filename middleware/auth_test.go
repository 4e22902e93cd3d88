package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapshift-backend/models"
	"zapshift-backend/store"
	"zapshift-backend/utils"
)

type fakeVerifier struct {
	claims *utils.Claims
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*utils.Claims, error) {
	if token == "good" {
		return f.claims, nil
	}
	return nil, errors.New("invalid token")
}

type fakeUserDirectory struct {
	roles map[string]string
}

func (f *fakeUserDirectory) UpsertOnSignIn(ctx context.Context, user models.User) (*models.User, bool, error) {
	return &user, true, nil
}

func (f *fakeUserDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	role, ok := f.roles[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &models.User{Email: email, Role: role}, nil
}

func (f *fakeUserDirectory) Role(ctx context.Context, email string) (string, error) {
	user, err := f.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.Role == "" {
		return models.RoleUser, nil
	}
	return user.Role, nil
}

func (f *fakeUserDirectory) PromoteToAdmin(ctx context.Context, email string) error {
	f.roles[email] = models.RoleAdmin
	return nil
}

func (f *fakeUserDirectory) PromoteToRider(ctx context.Context, email string) error {
	f.roles[email] = models.RoleRider
	return nil
}

func TestCheckEmailMatch(t *testing.T) {
	claims := &utils.Claims{Email: "a@x.com"}

	assert.NoError(t, CheckEmailMatch(claims, "a@x.com"))
	assert.ErrorIs(t, CheckEmailMatch(claims, "b@x.com"), ErrForbidden)
	assert.ErrorIs(t, CheckEmailMatch(claims, ""), ErrForbidden)
	assert.ErrorIs(t, CheckEmailMatch(nil, "a@x.com"), ErrUnauthorized)
	assert.ErrorIs(t, CheckEmailMatch(&utils.Claims{}, "a@x.com"), ErrUnauthorized)
}

func TestCheckAdmin(t *testing.T) {
	claims := &utils.Claims{Email: "a@x.com"}

	assert.NoError(t, CheckAdmin(claims, models.RoleAdmin))
	assert.ErrorIs(t, CheckAdmin(claims, models.RoleUser), ErrForbidden)
	assert.ErrorIs(t, CheckAdmin(claims, models.RoleRider), ErrForbidden)
	assert.ErrorIs(t, CheckAdmin(claims, ""), ErrForbidden)
	assert.ErrorIs(t, CheckAdmin(nil, models.RoleAdmin), ErrUnauthorized)
}

func echoClaimsHandler(t *testing.T, want string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFrom(r.Context())
		require.NotNil(t, claims)
		assert.Equal(t, want, claims.Email)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_AttachesClaims(t *testing.T) {
	verifier := &fakeVerifier{claims: &utils.Claims{Email: "a@x.com"}}
	handler := Auth(verifier)(echoClaimsHandler(t, "a@x.com"))

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Rejections(t *testing.T) {
	verifier := &fakeVerifier{claims: &utils.Claims{Email: "a@x.com"}}
	handler := Auth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"malformed", "Bearer"},
		{"bad token", "Bearer bad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/payments", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func withClaims(req *http.Request, claims *utils.Claims) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), UserContextKey, claims))
}

func TestRequireEmailMatch_Query(t *testing.T) {
	handler := RequireEmailMatch()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := withClaims(httptest.NewRequest(http.MethodGet, "/payments?email=a@x.com", nil),
		&utils.Claims{Email: "a@x.com"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = withClaims(httptest.NewRequest(http.MethodGet, "/payments?email=b@x.com", nil),
		&utils.Claims{Email: "a@x.com"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireEmailMatch_BodyFallbackPreservesBody(t *testing.T) {
	var seenBody string
	handler := RequireEmailMatch()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seenBody = string(data)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"email":"a@x.com","amount":50}`
	req := withClaims(httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body)),
		&utils.Claims{Email: "a@x.com"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, seenBody)
}

func TestRequireEmailMatch_NoClaims(t *testing.T) {
	handler := RequireEmailMatch()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/payments?email=a@x.com", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	users := &fakeUserDirectory{roles: map[string]string{
		"admin@x.com": models.RoleAdmin,
		"user@x.com":  models.RoleUser,
	}}
	handler := RequireAdmin(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		claims *utils.Claims
		want   int
	}{
		{"admin", &utils.Claims{Email: "admin@x.com"}, http.StatusOK},
		{"plain user", &utils.Claims{Email: "user@x.com"}, http.StatusForbidden},
		{"unknown user", &utils.Claims{Email: "ghost@x.com"}, http.StatusForbidden},
		{"no claims", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/riders?status=pending", nil)
			if tc.claims != nil {
				req = withClaims(req, tc.claims)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
