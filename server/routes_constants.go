package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Session Lifecycle
	RouteLogin       = "/login"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthLogout  = "/auth/logout"
	RouteAuthSession = "/auth/session"

	// Health
	RouteHealth = "/healthz"
)
