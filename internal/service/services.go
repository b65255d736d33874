package service

import (
	"github.com/jbccc/znote/internal/adapter"
	"github.com/jbccc/znote/internal/config"
	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/store"
)

// Services aggregates the server-side business logic consumed by the HTTP
// transport layer.
type Services struct {
	AuthService AuthService
	SyncService SyncService
}

// NewServices wires the server services to their repositories and the
// external OAuth verifier.
func NewServices(repos *store.Repositories, cfg config.App, log *logger.Logger) (*Services, error) {
	verifier := adapter.NewGoogleVerifier(cfg.GoogleClientID, 0)

	return &Services{
		AuthService: NewAuthService(repos.UserRepository, verifier, cfg, log),
		SyncService: NewSyncService(repos, log),
	}, nil
}
