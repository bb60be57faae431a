package session

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tunubeya/collasco-front-sub002/credential"
)

// Store reads and writes the session cookie pair. The cookie jar itself
// lives in the browser; Store only shapes what goes onto each response
// and what is trusted from each request.
type Store struct {
	codec      *credential.Codec
	production bool
}

// NewStore creates a cookie-backed session store. production controls
// the Secure flag on every cookie written.
func NewStore(codec *credential.Codec, production bool) (*Store, error) {
	if codec == nil {
		return nil, errors.New("[session NewStore] codec is required")
	}
	return &Store{codec: codec, production: production}, nil
}

// ReadAccessSession decodes the access-session cookie. Absent or invalid
// cookies both yield nil; a corrupt cookie is additionally logged since
// it usually means a key rotation or tampering.
func (st *Store) ReadAccessSession(r *http.Request) *AccessSession {
	var s AccessSession
	switch st.decodeCookie(r, AccessCookieName, &s) {
	case credential.DecodeOK:
		return &s
	case credential.DecodeInvalid:
		log.Debug().Str("cookie", AccessCookieName).Msg("discarding undecodable session cookie")
	}
	return nil
}

// ReadRefreshInfo decodes the refresh-info cookie. Returns nil if the
// cookie is absent or fails integrity verification.
func (st *Store) ReadRefreshInfo(r *http.Request) *RefreshInfo {
	var ri RefreshInfo
	switch st.decodeCookie(r, RefreshCookieName, &ri) {
	case credential.DecodeOK:
		return &ri
	case credential.DecodeInvalid:
		log.Debug().Str("cookie", RefreshCookieName).Msg("discarding undecodable refresh cookie")
	}
	return nil
}

func (st *Store) decodeCookie(r *http.Request, name string, v any) credential.DecodeStatus {
	cookie, err := r.Cookie(name)
	if err != nil {
		return credential.DecodeAbsent
	}
	return st.codec.Decode(cookie.Value, v)
}

// WriteAccessSession encodes s and sets the access-session cookie with
// the record's own expiry.
func (st *Store) WriteAccessSession(w http.ResponseWriter, s *AccessSession) error {
	value, err := st.codec.Encode(s)
	if err != nil {
		return errors.Wrap(err, "[Store WriteAccessSession]")
	}
	st.setCookie(w, AccessCookieName, value, s.ExpiresAt, "")
	return nil
}

// WriteRefreshInfo encodes info and sets the refresh-info cookie with
// the refresh token's own expiry.
func (st *Store) WriteRefreshInfo(w http.ResponseWriter, info *RefreshInfo) error {
	value, err := st.codec.Encode(info)
	if err != nil {
		return errors.Wrap(err, "[Store WriteRefreshInfo]")
	}
	st.setCookie(w, RefreshCookieName, value, info.RefreshTokenExpiresAt, "")
	return nil
}

// WritePair sets the access-session and refresh-info cookies together.
// Both payloads are encoded before either cookie is set, so a refresh
// can never leave the jar half-updated.
func (st *Store) WritePair(w http.ResponseWriter, s *AccessSession, info *RefreshInfo) error {
	accessValue, err := st.codec.Encode(s)
	if err != nil {
		return errors.Wrap(err, "[Store WritePair] access session")
	}
	refreshValue, err := st.codec.Encode(info)
	if err != nil {
		return errors.Wrap(err, "[Store WritePair] refresh info")
	}

	st.setCookie(w, AccessCookieName, accessValue, s.ExpiresAt, "")
	st.setCookie(w, RefreshCookieName, refreshValue, info.RefreshTokenExpiresAt, "")
	return nil
}

// ClearAll expires every session-related cookie in one call so a logout
// can never leave a cookie behind. domain may be empty for a host-only
// clear (non-production).
func (st *Store) ClearAll(w http.ResponseWriter, domain string) {
	epoch := time.Unix(0, 0)
	for _, name := range []string{AccessCookieName, StoreCookieName, RefreshCookieName} {
		st.setCookie(w, name, "", epoch, domain)
	}
}

func (st *Store) setCookie(w http.ResponseWriter, name, value string, expires time.Time, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   st.production,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}
