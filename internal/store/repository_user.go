package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
type userRepository struct {
	*DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	return &userRepository{
		DB:     db,
		logger: logger,
	}
}

// UpsertByProvider creates or refreshes the account for a verified identity.
// The provider ID is the stable key; profile fields follow the verifier.
func (u *userRepository) UpsertByProvider(ctx context.Context, identity models.Identity) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	err := u.DB.QueryRowContext(ctx, upsertUserByProvider,
		identity.ProviderID,
		identity.Email,
		identity.Name,
		identity.Image,
	).Scan(
		&user.UserID,
		&user.ProviderID,
		&user.Email,
		&user.Name,
		&user.Image,
		&user.CreatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "userRepository.UpsertByProvider").
			Str("provider_id", identity.ProviderID).
			Msg("failed to upsert user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

// GetByID retrieves a user by internal ID.
func (u *userRepository) GetByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	err := u.DB.QueryRowContext(ctx, findUserByID, userID).Scan(
		&user.UserID,
		&user.ProviderID,
		&user.Email,
		&user.Name,
		&user.Image,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "userRepository.GetByID").
			Int64("user_id", userID).
			Msg("failed to query user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}
