// Package session owns the browser cookie pair that carries the
// authenticated session: a short-lived access session and the
// longer-lived refresh info used to mint its replacement.
package session

import "time"

// Cookie names. store-data is an application cache cookie written by the
// front end; the gateway only ever clears it on logout.
const (
	AccessCookieName  = "session"
	RefreshCookieName = "refresh-info"
	StoreCookieName   = "store-data"
)

// AccessSession is the payload of the access-session cookie. ExpiresAt
// always comes from the authentication service's response; the gateway
// never computes token lifetimes itself.
type AccessSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RefreshInfo is the payload of the refresh-info cookie. The refresh
// token is single-use: every successful refresh replaces it.
type RefreshInfo struct {
	Email                 string    `json:"email"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// Usable reports whether the record can still be exchanged for a new
// access token. A RefreshInfo without a token is equivalent to no
// session at all.
func (ri *RefreshInfo) Usable() bool {
	return ri != nil && ri.RefreshToken != ""
}
