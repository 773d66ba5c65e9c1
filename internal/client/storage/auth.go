package storage

import (
	"context"
	"time"
)

//go:generate moq -out auth_mock.go . AuthStorage

// AuthStorage keeps the operator session of this device.
type AuthStorage interface {
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth returns ErrAuthNotFound if nobody is logged in.
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the session (logout). Idempotent.
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated reports whether a non-expired session exists.
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData is the stored session.
type AuthData struct {
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	UserID      string    `json:"user_id"`
	AccessToken string    `json:"access_token"`
}

// Expired reports whether the token is past its expiry at now.
func (a *AuthData) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}
