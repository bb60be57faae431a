package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/tunubeya/collasco-front-sub002/auth"
	"github.com/tunubeya/collasco-front-sub002/authclient"
	"github.com/tunubeya/collasco-front-sub002/authclient/clientfakes"
	"github.com/tunubeya/collasco-front-sub002/credential"
	errs "github.com/tunubeya/collasco-front-sub002/internal/errors"
	"github.com/tunubeya/collasco-front-sub002/session"
)

const (
	testEmail        = "john.doe@example.com"
	testRefreshToken = "R1"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

// testFixture holds all test dependencies
type testFixture struct {
	store      *session.Store
	authClient *clientfakes.FakeAuthClient
	service    *auth.SessionService
}

func setupTestFixture(t *testing.T, production bool) *testFixture {
	t.Helper()

	codec, err := credential.NewCodec("service-test-secret-0123456789abcdef")
	require.NoError(t, err)

	store, err := session.NewStore(codec, production)
	require.NoError(t, err)

	client := clientfakes.NewFakeAuthClient()

	service, err := auth.NewSessionService(store, client, production,
		auth.WithNowTime(func() time.Time { return testNow }))
	require.NoError(t, err)

	return &testFixture{store: store, authClient: client, service: service}
}

// requestWithSession builds a request carrying the given records in its
// cookie jar, the way a browser would echo them back.
func (f *testFixture) requestWithSession(t *testing.T, s *session.AccessSession, info *session.RefreshInfo) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	if s != nil {
		require.NoError(t, f.store.WriteAccessSession(rec, s))
	}
	if info != nil {
		require.NoError(t, f.store.WriteRefreshInfo(rec, info))
	}

	r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}

func validRefreshInfo() *session.RefreshInfo {
	return &session.RefreshInfo{
		Email:                 testEmail,
		RefreshToken:          testRefreshToken,
		RefreshTokenExpiresAt: testNow.Add(7 * 24 * time.Hour),
	}
}

func rotatedPair() *authclient.TokenPair {
	return &authclient.TokenPair{
		AccessToken:           "A2",
		AccessTokenExpiresAt:  testNow.Add(15 * time.Minute),
		RefreshToken:          "R2",
		RefreshTokenExpiresAt: testNow.Add(14 * 24 * time.Hour),
	}
}

func TestRefreshNow_Success(t *testing.T) {
	f := setupTestFixture(t, false)
	f.authClient.RegisterToken(testRefreshToken, rotatedPair())

	rec := httptest.NewRecorder()
	result, err := f.service.RefreshNow(context.Background(), rec, f.requestWithSession(t, nil, validRefreshInfo()))
	require.NoError(t, err)
	require.Equal(t, "A2", result.NewAccessToken)
	require.True(t, result.ExpiresAt.Equal(testNow.Add(15*time.Minute)))

	// Both cookies rewritten together.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	followUp := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		followUp.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	s := f.store.ReadAccessSession(followUp)
	require.NotNil(t, s)
	require.Equal(t, "A2", s.Token)
	require.True(t, s.ExpiresAt.Equal(testNow.Add(15*time.Minute)))

	info := f.store.ReadRefreshInfo(followUp)
	require.NotNil(t, info)
	require.Equal(t, testEmail, info.Email, "email preserved across rotation")
	require.Equal(t, "R2", info.RefreshToken, "rotated token stored")
	require.True(t, info.RefreshTokenExpiresAt.Equal(testNow.Add(14*24*time.Hour)))

	// Cookie expiries come from the backend's response.
	for _, c := range cookies {
		switch c.Name {
		case session.AccessCookieName:
			require.True(t, c.Expires.Equal(testNow.Add(15*time.Minute)))
		case session.RefreshCookieName:
			require.True(t, c.Expires.Equal(testNow.Add(14*24*time.Hour)))
		}
	}
}

func TestRefreshNow_MissingRefreshInfo(t *testing.T) {
	f := setupTestFixture(t, false)

	rec := httptest.NewRecorder()
	_, err := f.service.RefreshNow(context.Background(), rec, httptest.NewRequest(http.MethodPost, "/auth/refresh", nil))
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	require.Empty(t, rec.Result().Cookies(), "no cookies written on failure")
	require.Zero(t, f.authClient.Calls(), "backend not called without a credential")
}

func TestRefreshNow_EmptyRefreshToken(t *testing.T) {
	f := setupTestFixture(t, false)

	info := validRefreshInfo()
	info.RefreshToken = ""

	rec := httptest.NewRecorder()
	_, err := f.service.RefreshNow(context.Background(), rec, f.requestWithSession(t, nil, info))
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	require.Empty(t, rec.Result().Cookies())
}

func TestRefreshNow_BackendRejects(t *testing.T) {
	f := setupTestFixture(t, false)
	// Token was never registered: the backend treats it as revoked.

	rec := httptest.NewRecorder()
	_, err := f.service.RefreshNow(context.Background(), rec, f.requestWithSession(t, nil, validRefreshInfo()))
	require.ErrorIs(t, err, errs.ErrRefreshFailed)
	require.Empty(t, rec.Result().Cookies(), "jar untouched on backend rejection")
}

func TestRefreshNow_BackendUnreachable(t *testing.T) {
	f := setupTestFixture(t, false)
	f.authClient.FailWith(errors.New("dial tcp: connection refused"))

	rec := httptest.NewRecorder()
	_, err := f.service.RefreshNow(context.Background(), rec, f.requestWithSession(t, nil, validRefreshInfo()))
	require.ErrorIs(t, err, errs.ErrRefreshFailed)
	require.Empty(t, rec.Result().Cookies())
}

func TestRefreshNow_StaleTokenLosesRace(t *testing.T) {
	f := setupTestFixture(t, false)
	f.authClient.RegisterToken(testRefreshToken, rotatedPair())

	r := f.requestWithSession(t, nil, validRefreshInfo())

	_, err := f.service.RefreshNow(context.Background(), httptest.NewRecorder(), r)
	require.NoError(t, err)

	// A second caller racing with the same stale token must fail.
	rec := httptest.NewRecorder()
	_, err = f.service.RefreshNow(context.Background(), rec, r)
	require.ErrorIs(t, err, errs.ErrRefreshFailed)
	require.Empty(t, rec.Result().Cookies())
}

func TestRefreshNow_PreservesRefreshExpiryWhenBackendOmitsIt(t *testing.T) {
	f := setupTestFixture(t, false)

	pair := rotatedPair()
	pair.RefreshTokenExpiresAt = time.Time{}
	f.authClient.RegisterToken(testRefreshToken, pair)

	info := validRefreshInfo()
	rec := httptest.NewRecorder()
	_, err := f.service.RefreshNow(context.Background(), rec, f.requestWithSession(t, nil, info))
	require.NoError(t, err)

	followUp := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		followUp.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	got := f.store.ReadRefreshInfo(followUp)
	require.NotNil(t, got)
	require.True(t, got.RefreshTokenExpiresAt.Equal(info.RefreshTokenExpiresAt))
}

func TestInvalidateSession_Production(t *testing.T) {
	f := setupTestFixture(t, true)

	r := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	r.Host = "app.example.com"

	rec := httptest.NewRecorder()
	next := f.service.InvalidateSession(rec, r, "/custom")
	require.Equal(t, "/custom", next)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 3)
	for _, c := range cookies {
		require.Equal(t, "example.com", c.Domain)
		require.Empty(t, c.Value)
		require.True(t, c.Expires.Before(time.Now()))
	}
}

func TestInvalidateSession_NonProductionHostOnly(t *testing.T) {
	f := setupTestFixture(t, false)

	rec := httptest.NewRecorder()
	next := f.service.InvalidateSession(rec, httptest.NewRequest(http.MethodGet, "/auth/logout", nil), "")
	require.Equal(t, "/login", next)

	for _, c := range rec.Result().Cookies() {
		require.Empty(t, c.Domain)
	}
}

func TestInvalidateSession_RejectsExternalRedirect(t *testing.T) {
	f := setupTestFixture(t, false)

	rec := httptest.NewRecorder()
	require.Equal(t, "/login", f.service.InvalidateSession(rec, httptest.NewRequest(http.MethodGet, "/auth/logout", nil), "https://evil.example"))

	rec = httptest.NewRecorder()
	require.Equal(t, "/login", f.service.InvalidateSession(rec, httptest.NewRequest(http.MethodGet, "/auth/logout", nil), "//evil.example"))
}

func TestInvalidateSession_Idempotent(t *testing.T) {
	f := setupTestFixture(t, true)

	r := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	r.Host = "app.example.com"

	first := httptest.NewRecorder()
	f.service.InvalidateSession(first, r, "")
	second := httptest.NewRecorder()
	f.service.InvalidateSession(second, r, "")

	require.Equal(t, first.Header().Values("Set-Cookie"), second.Header().Values("Set-Cookie"))
}

func TestCurrentSession(t *testing.T) {
	f := setupTestFixture(t, false)

	t.Run("no cookies", func(t *testing.T) {
		status := f.service.CurrentSession(httptest.NewRequest(http.MethodGet, "/auth/session", nil))
		require.False(t, status.Authenticated)
		require.Empty(t, status.Email)
	})

	t.Run("live session with JWT access token", func(t *testing.T) {
		rawToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
			"sub":   "user-1",
			"email": testEmail,
			"exp":   testNow.Add(15 * time.Minute).Unix(),
		}).SignedString([]byte("unit-test-key"))
		require.NoError(t, err)

		r := f.requestWithSession(t,
			&session.AccessSession{Token: rawToken, ExpiresAt: testNow.Add(15 * time.Minute)},
			validRefreshInfo())

		status := f.service.CurrentSession(r)
		require.True(t, status.Authenticated)
		require.Equal(t, testEmail, status.Email)
		require.Equal(t, "user-1", status.Subject)
		require.NotNil(t, status.ExpiresAt)
		require.True(t, status.ExpiresAt.Equal(testNow.Add(15*time.Minute)))
	})

	t.Run("expired access session", func(t *testing.T) {
		r := f.requestWithSession(t,
			&session.AccessSession{Token: "opaque", ExpiresAt: testNow.Add(-time.Minute)},
			validRefreshInfo())

		status := f.service.CurrentSession(r)
		require.False(t, status.Authenticated)
	})

	t.Run("opaque non-JWT token still authenticates", func(t *testing.T) {
		r := f.requestWithSession(t,
			&session.AccessSession{Token: "not-a-jwt", ExpiresAt: testNow.Add(time.Minute)},
			validRefreshInfo())

		status := f.service.CurrentSession(r)
		require.True(t, status.Authenticated)
		require.Equal(t, testEmail, status.Email)
		require.Empty(t, status.Subject)
	})
}
