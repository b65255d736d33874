package store

import (
	"context"
	"fmt"

	"github.com/jbccc/znote/internal/config"
	"github.com/jbccc/znote/internal/logger"
)

// NewRepositories connects to the server database, applies migrations, and
// wires every repository to the shared connection.
func NewRepositories(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Repositories, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Repositories{
		DB:                 db,
		UserRepository:     NewUserRepository(db, log),
		BlockRepository:    NewBlockRepository(db, log),
		TaskRepository:     NewTaskRepository(db, log),
		SettingsRepository: NewSettingsRepository(db, log),
		ConflictRepository: NewConflictRepository(db, log),
	}, nil
}
