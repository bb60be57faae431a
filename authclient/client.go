// Package authclient talks to the external authentication backend that
// mints and rotates tokens. The gateway is never the source of truth
// for token lifetimes; every expiry in a TokenPair comes from the
// backend's response.
package authclient

import (
	"context"
	"time"
)

// TokenPair is the result of a successful refresh: a new access token
// and the rotated refresh token, each with its backend-supplied expiry.
// RefreshTokenExpiresAt may be zero when the backend does not restate
// it; callers then keep the expiry they already hold.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpirationDate"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpirationDate"`
}

// Client is the refresh operation of the authentication backend.
// Refresh tokens are single-use: a successful call invalidates the
// token that was sent.
type Client interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
