package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/tunubeya/collasco-front-sub002/authclient"
	"github.com/tunubeya/collasco-front-sub002/internal/config"
	"github.com/tunubeya/collasco-front-sub002/server"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	authClient, err := newAuthClient(c)
	if err != nil {
		return fmt.Errorf("auth client: %w", err)
	}

	handler, err := server.New(c, authClient)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// newAuthClient picks the backend flavour: an OIDC issuer when
// configured, otherwise the native auth API.
func newAuthClient(c config.Config) (authclient.Client, error) {
	if issuer := c.GetAuthIssuer(); issuer != "" {
		ctx, cancel := context.WithTimeout(context.Background(), c.GetAuthTimeout())
		defer cancel()
		return authclient.NewOIDCClient(ctx, issuer, c.GetAuthClientID(), c.GetAuthClientSecret(), c.GetAuthTimeout())
	}
	return authclient.NewAPIClient(c.GetAuthServiceURL(), c.GetAuthTimeout())
}

func configureLogging(c config.Config) {
	if c.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
