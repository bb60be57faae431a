package auth

import (
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the subset of access-token claims the gateway surfaces
// for display and logging. The token is opaque to this service; when it
// happens to be a JWT the claims are read without verification, since
// verification is the resource servers' job, not the cookie jar's.
type tokenClaims struct {
	Subject string
	Email   string
}

func peekTokenClaims(rawToken string) tokenClaims {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return tokenClaims{}
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return tokenClaims{}
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	return tokenClaims{Subject: sub, Email: email}
}
