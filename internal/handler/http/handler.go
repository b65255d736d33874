package http

import (
	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/service"
)

// Handler is the root HTTP handler wiring together all route groups and
// middleware chains of the sync API.
//
// It holds the service layer and a structured logger so every sub-handler
// and middleware can reach business logic and emit context-enriched log
// entries. Handler is constructed once at startup via [NewHandler]; its
// routes are registered by [Handler.Init]. It is not safe to copy after
// construction.
type Handler struct {
	// services provides the auth and sync business logic. Sub-handlers
	// delegate all domain work through this container.
	services *service.Services

	// logger is the structured logger used by the handler and middleware.
	logger *logger.Logger

	// maxBodyBytes caps accepted request body sizes.
	maxBodyBytes int64
}

// NewHandler constructs a [Handler] with the provided service container,
// logger, and request body cap.
func NewHandler(services *service.Services, logger *logger.Logger, maxBodyBytes int64) *Handler {
	logger.Debug().Msg("http handler created")
	return &Handler{
		services:     services,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}
