package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/tunubeya/collasco-front-sub002/auth"
	"github.com/tunubeya/collasco-front-sub002/authclient"
	"github.com/tunubeya/collasco-front-sub002/credential"
	"github.com/tunubeya/collasco-front-sub002/internal/config"
	"github.com/tunubeya/collasco-front-sub002/session"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	sessions *auth.SessionService
}

func New(cfg config.Config, authClient authclient.Client) (*Server, error) {
	codec, err := credential.NewCodec(cfg.GetSessionSecret())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create cookie codec: %w", err)
	}

	store, err := session.NewStore(codec, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session store: %w", err)
	}

	sessionService, err := auth.NewSessionService(store, authClient, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session service: %w", err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: sessionService,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
