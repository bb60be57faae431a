package server

import (
	"context"
	"net/http"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyEmail stores the authenticated user's email
	ContextKeyEmail ContextKey = "email"
	// ContextKeySubject stores the access token's subject claim
	ContextKeySubject ContextKey = "subject"
)

// RequireSession guards routes that need a live access session. API
// callers get a 401; the front end owns redirecting to login.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			status := s.sessions.CurrentSession(r)
			if !status.Authenticated {
				writeJSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyEmail, status.Email)
			ctx = context.WithValue(ctx, ContextKeySubject, status.Subject)
			next(w, r.WithContext(ctx))
		}
	}
}
