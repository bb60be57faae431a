// Package auth coordinates the session lifecycle: exchanging a rotating
// refresh token for a new cookie pair, and invalidating every session
// cookie on logout.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tunubeya/collasco-front-sub002/authclient"
	errs "github.com/tunubeya/collasco-front-sub002/internal/errors"
	"github.com/tunubeya/collasco-front-sub002/session"
)

const defaultPostLogoutRoute = "/login"

// RefreshResult is the response body of a successful refresh.
type RefreshResult struct {
	NewAccessToken string    `json:"newAccessToken"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// SessionStatus describes the current session from the cookies alone,
// for the app shell's benefit.
type SessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	Email         string     `json:"email,omitempty"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// SessionService owns the refresh and logout operations. It keeps no
// state of its own; the client's cookie jar is the only session state,
// and the auth backend's single-use enforcement resolves concurrent
// refresh races.
type SessionService struct {
	store      *session.Store
	client     authclient.Client
	production bool
	nowTime    func() time.Time
}

// SessionServiceOption defines a function type to modify the SessionService instance.
type SessionServiceOption func(*SessionService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) SessionServiceOption {
	return func(ss *SessionService) {
		ss.nowTime = nowFunc
	}
}

// NewSessionService initializes a SessionService with required dependencies.
func NewSessionService(store *session.Store, client authclient.Client, production bool, options ...SessionServiceOption) (*SessionService, error) {
	if store == nil {
		return nil, errors.New("[NewSessionService] session store is required")
	}
	if client == nil {
		return nil, errors.New("[NewSessionService] auth client is required")
	}

	ss := &SessionService{
		store:      store,
		client:     client,
		production: production,
		nowTime:    time.Now,
	}

	for _, opt := range options {
		opt(ss)
	}

	return ss, nil
}

// RefreshNow exchanges the refresh token in the jar for a new token
// pair and rewrites both cookies. Not idempotent: each success rotates
// the refresh token and invalidates the one that was sent. All failures
// leave the jar untouched.
func (ss *SessionService) RefreshNow(ctx context.Context, w http.ResponseWriter, r *http.Request) (*RefreshResult, error) {
	info := ss.store.ReadRefreshInfo(r)
	if !info.Usable() {
		return nil, errs.ErrUnauthenticated
	}

	pair, err := ss.client.Refresh(ctx, info.RefreshToken)
	if err != nil {
		// Timeouts, revoked tokens, and backend errors all collapse to
		// the same outward failure; the cause stays in the logs.
		log.Warn().Err(err).Str("email", info.Email).Msg("token refresh rejected")
		return nil, errs.Wrapf(errs.ErrRefreshFailed, "%s", err.Error())
	}

	newInfo := &session.RefreshInfo{
		Email:                 info.Email,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
	}
	if newInfo.RefreshTokenExpiresAt.IsZero() {
		// Backend did not restate the refresh expiry; keep the one we hold.
		newInfo.RefreshTokenExpiresAt = info.RefreshTokenExpiresAt
	}

	newSession := &session.AccessSession{
		Token:     pair.AccessToken,
		ExpiresAt: pair.AccessTokenExpiresAt,
	}

	if err := ss.store.WritePair(w, newSession, newInfo); err != nil {
		log.Error().Err(err).Msg("failed to encode refreshed session")
		return nil, errs.Wrapf(errs.ErrRefreshFailed, "write session")
	}

	return &RefreshResult{
		NewAccessToken: pair.AccessToken,
		ExpiresAt:      pair.AccessTokenExpiresAt,
	}, nil
}

// InvalidateSession expires all session cookies and returns the route
// to redirect to. In production the cookies are cleared on the root
// domain derived from the Host header so every subdomain is covered.
// Clearing an already-empty jar is a no-op success.
func (ss *SessionService) InvalidateSession(w http.ResponseWriter, r *http.Request, next string) string {
	var domain string
	if ss.production {
		domain = session.RootDomain(r.Host)
	}
	ss.store.ClearAll(w, domain)

	if !isLocalRedirect(next) {
		next = defaultPostLogoutRoute
	}
	return next
}

// CurrentSession reports the session state visible in the request's
// cookies. An expired or missing access session is simply
// unauthenticated, never an error.
func (ss *SessionService) CurrentSession(r *http.Request) *SessionStatus {
	s := ss.store.ReadAccessSession(r)
	if s == nil || !s.ExpiresAt.After(ss.nowTime()) {
		return &SessionStatus{}
	}

	status := &SessionStatus{
		Authenticated: true,
		ExpiresAt:     &s.ExpiresAt,
	}
	if info := ss.store.ReadRefreshInfo(r); info != nil {
		status.Email = info.Email
	}

	claims := peekTokenClaims(s.Token)
	status.Subject = claims.Subject
	if status.Email == "" {
		status.Email = claims.Email
	}

	return status
}

// isLocalRedirect accepts only same-site paths, so the next parameter
// cannot be abused as an open redirect.
func isLocalRedirect(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//")
}
