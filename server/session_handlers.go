package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	errs "github.com/tunubeya/collasco-front-sub002/internal/errors"
)

// RefreshHandler exchanges the refresh-info cookie for a fresh token
// pair. Responds 200 with the new access token and both cookies re-set,
// or 401 with the jar untouched. No request body is required.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.sessions.RefreshNow(r.Context(), w, r)
		if err != nil {
			switch {
			case errs.Is(err, errs.ErrUnauthenticated):
				writeJSONError(w, http.StatusUnauthorized, "not authenticated")
			case errs.Is(err, errs.ErrRefreshFailed):
				// Detail stays in the logs; the caller only learns the
				// session is no longer valid.
				writeJSONError(w, http.StatusUnauthorized, "session refresh failed")
			default:
				log.Ctx(r.Context()).Error().Err(err).Msg("unexpected refresh error")
				writeJSONError(w, http.StatusUnauthorized, "session refresh failed")
			}
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// LogoutHandler clears every session cookie and redirects to the next
// query parameter (default: login). Clearing never fails outward.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := s.sessions.InvalidateSession(w, r, r.URL.Query().Get("next"))
		http.Redirect(w, r, next, http.StatusSeeOther)
	}
}

// SessionHandler reports the session state the cookies describe, for
// the app shell to decide between login and authenticated layouts.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.sessions.CurrentSession(r))
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
