// Package server manages the HTTP server lifecycle: startup, signal-driven
// graceful shutdown, and timeout configuration.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jbccc/znote/internal/config"
	"github.com/jbccc/znote/internal/logger"
)

// Server runs the HTTP transport until a termination signal arrives.
type Server interface {
	RunServer()
	Shutdown()
}

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

// NewServer wires the given handler into an HTTP server configured from
// cfg.
func NewServer(handler http.Handler, cfg config.Server, log *logger.Logger) (Server, error) {
	log.Info().Str("addr", cfg.HTTPAddress).Msg("creating new server...")

	return &server{
		httpServer: newHTTPServer(handler, cfg, log),
		logger:     log,
	}, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

func (s *server) run() error {
	if s.httpServer == nil {
		return errors.New("no servers to run")
	}

	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()
		s.logger.Info().Msg("termination signal received, draining connections")

		s.httpServer.Shutdown()

		close(idleConnectionsClosed)
	}()

	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server shut down gracefully")

	return nil
}
