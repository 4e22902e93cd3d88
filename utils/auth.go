package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/option"
)

// Claims is the verified identity attached to an authenticated request
type Claims struct {
	UID   string `json:"uid,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// TokenVerifier turns a bearer credential into a verified identity. It is
// injected into the auth middleware so tests can substitute a fake provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// FirebaseVerifier verifies Firebase ID tokens via the Admin SDK
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

// NewFirebaseVerifier initializes the Firebase app from a service account
// credentials file and returns a verifier over its auth client
func NewFirebaseVerifier(ctx context.Context, credentialsPath string) (*FirebaseVerifier, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	claims := &Claims{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims, nil
}

// HSVerifier verifies HS256 tokens signed with a shared secret. Used for
// local development and tests when Firebase credentials are not configured.
type HSVerifier struct {
	key []byte
}

func NewHSVerifier(secret string) *HSVerifier {
	return &HSVerifier{key: []byte(secret)}
}

func (v *HSVerifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	claims := &Claims{}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.Name = name
	}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.UID = sub
	}
	return claims, nil
}
