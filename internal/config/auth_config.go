package config

import "time"

// AuthServiceConfig describes how to reach the external authentication
// backend that mints and rotates tokens. Two backend flavours are
// supported: the native Collasco auth API (AUTH_SERVICE_URL) and any
// standards OIDC provider (AUTH_ISSUER). When both are set the issuer
// wins.
type AuthServiceConfig interface {
	GetAuthServiceURL() string
	GetAuthIssuer() string
	GetAuthClientID() string
	GetAuthClientSecret() string
	GetAuthTimeout() time.Duration
}

type AuthService struct{}

var _ AuthServiceConfig = AuthService{}

func (AuthService) GetAuthServiceURL() string {
	return GetEnv("AUTH_SERVICE_URL", "http://localhost:9096")
}

func (AuthService) GetAuthIssuer() string {
	return GetEnv("AUTH_ISSUER", "")
}

func (AuthService) GetAuthClientID() string {
	return GetEnv("AUTH_CLIENT_ID", "")
}

func (AuthService) GetAuthClientSecret() string {
	return GetEnv("AUTH_CLIENT_SECRET", "")
}

func (AuthService) GetAuthTimeout() time.Duration {
	return 10 * time.Second
}
