package security

import (
	"context"
	"fmt"

	"swapcircle-backend/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// FirebaseVerifier accepts Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		logger.Debug("Firebase ID token rejected", "error", err)
		return nil, ErrInvalidToken
	}
	id := &Identity{UserID: token.UID}
	if name, ok := token.Claims["name"].(string); ok {
		id.DisplayName = name
	}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}
