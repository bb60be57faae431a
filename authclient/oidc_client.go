package authclient

import (
	"context"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// OIDCClient implements Client against any standards OAuth2/OIDC
// provider, using issuer discovery for the token endpoint and the
// refresh-token grant for rotation.
type OIDCClient struct {
	conf    *oauth2.Config
	timeout time.Duration
}

// NewOIDCClient discovers the provider at issuer and prepares the
// refresh-grant configuration.
func NewOIDCClient(ctx context.Context, issuer, clientID, clientSecret string, timeout time.Duration) (*OIDCClient, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "[authclient NewOIDCClient] provider discovery")
	}

	return &OIDCClient{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
		},
		timeout: timeout,
	}, nil
}

// Refresh performs a refresh-token grant. Providers that rotate send a
// new refresh token; those that do not get the current one carried
// forward. Refresh-token expiry is taken from the response's
// refresh_token_expires_in field when the provider states it, otherwise
// left zero for the caller to preserve its existing expiry.
func (c *OIDCClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	src := c.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, errors.Wrap(err, "[OIDCClient Refresh] refresh grant")
	}

	pair := &TokenPair{
		AccessToken:          tok.AccessToken,
		AccessTokenExpiresAt: tok.Expiry,
		RefreshToken:         tok.RefreshToken,
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	if ttl, ok := tok.Extra("refresh_token_expires_in").(float64); ok && ttl > 0 {
		pair.RefreshTokenExpiresAt = time.Now().Add(time.Duration(ttl) * time.Second)
	}

	return pair, nil
}

var _ Client = (*OIDCClient)(nil)
