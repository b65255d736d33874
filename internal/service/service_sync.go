package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/store"
	"github.com/jbccc/znote/internal/validators"
	"github.com/jbccc/znote/models"
)

// Record kinds used in conflict reports and persisted conflict rows.
const (
	recordTypeBlock = "block"
	recordTypeTask  = "tomorrowTask"
)

// syncService is the authoritative side of the replication protocol.
//
// Every push batch runs inside a single transaction so partial uploads
// never leave the store in a torn state. The version/clientId check is the
// only cross-client coordination primitive: a record whose stored version
// is at least the incoming one and whose last writer is a different
// installation is a write-write conflict and triggers the keep-both rule.
type syncService struct {
	repos  *store.Repositories
	logger *logger.Logger
}

// NewSyncService constructs a [SyncService] over the given repositories.
func NewSyncService(repos *store.Repositories, logger *logger.Logger) SyncService {
	return &syncService{
		repos:  repos,
		logger: logger,
	}
}

func (s *syncService) Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushResponse, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidatePushRequest(req); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("push payload failed validation")
		return models.PushResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	tx, err := s.repos.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("%w: %w", store.ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	resp := models.PushResponse{
		Applied: models.Applied{
			Blocks:        make([]string, 0, len(req.Blocks)),
			TomorrowTasks: make([]string, 0, len(req.TomorrowTasks)),
		},
		Conflicts: make([]models.ConflictReport, 0),
	}

	for _, block := range req.Blocks {
		if err = s.applyBlock(ctx, tx, userID, req.ClientID, block, &resp); err != nil {
			return models.PushResponse{}, err
		}
	}

	for _, task := range req.TomorrowTasks {
		if err = s.applyTask(ctx, tx, userID, req.ClientID, task, &resp); err != nil {
			return models.PushResponse{}, err
		}
	}

	if req.Settings != nil {
		settings := *req.Settings
		settings.UserID = userID
		if settings.UpdatedAt.IsZero() {
			settings.UpdatedAt = time.Now().UTC()
		}
		if err = s.repos.SettingsRepository.Upsert(ctx, tx, settings); err != nil {
			return models.PushResponse{}, err
		}
		resp.Applied.Settings = true
	}

	if err = tx.Commit(); err != nil {
		return models.PushResponse{}, fmt.Errorf("%w: %w", store.ErrCommitingTransaction, err)
	}

	resp.Success = true
	return resp, nil
}

// applyBlock runs one incoming block through the accept/conflict decision
// inside the batch transaction.
func (s *syncService) applyBlock(ctx context.Context, tx store.Querier, userID int64, batchClientID string, incoming models.Block, resp *models.PushResponse) error {
	log := logger.FromContext(ctx)

	incoming.UserID = userID
	if incoming.ClientID == "" {
		incoming.ClientID = batchClientID
	}

	existing, err := s.repos.BlockRepository.Get(ctx, tx, incoming.ID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		incoming.Version++
		insertErr := s.repos.BlockRepository.Insert(ctx, tx, incoming)
		if errors.Is(insertErr, store.ErrDuplicateRecord) {
			// Lost an insert race with a concurrent push. Re-read and run
			// the record through the conflict rule against the winner.
			incoming.Version--
			existing, err = s.repos.BlockRepository.Get(ctx, tx, incoming.ID)
			if err != nil {
				return err
			}
			break
		}
		if insertErr != nil {
			return insertErr
		}
		resp.Applied.Blocks = append(resp.Applied.Blocks, incoming.ID)
		return nil
	case err != nil:
		return err
	}

	// Records are partitioned by user; an id held by another user is a
	// different record entirely and must never leak into this response.
	if existing.UserID != userID {
		log.Debug().Str("id", incoming.ID).Int64("user_id", userID).Msg("skipping foreign record in push")
		return nil
	}

	if s.isConflict(existing.Version, existing.ClientID, incoming.Version, incoming.ClientID) ||
		(existing.Deleted() && !incoming.Deleted()) {
		report := models.ConflictReport{
			Type:          recordTypeBlock,
			ID:            incoming.ID,
			LocalVersion:  incoming.Version,
			ServerVersion: existing.Version,
		}

		duplicate := models.Block{
			ID:              fmt.Sprintf("%s-conflict-%d", incoming.ID, time.Now().UnixMilli()),
			UserID:          userID,
			Text:            "[Conflict] " + incoming.Text,
			CreatedAt:       incoming.CreatedAt,
			CalendarEventID: incoming.CalendarEventID,
			Position:        incoming.Position + 1,
			Version:         1,
			ClientID:        incoming.ClientID,
		}
		if err = s.repos.BlockRepository.Insert(ctx, tx, duplicate); err != nil {
			return err
		}

		if err = s.recordConflict(ctx, tx, userID, duplicate.ID, report); err != nil {
			return err
		}

		resp.Conflicts = append(resp.Conflicts, report)
		return nil
	}

	incoming.CreatedAt = existing.CreatedAt
	incoming.Version++
	if err = s.repos.BlockRepository.Update(ctx, tx, incoming); err != nil {
		return err
	}

	resp.Applied.Blocks = append(resp.Applied.Blocks, incoming.ID)
	return nil
}

// applyTask mirrors applyBlock for tomorrow tasks.
func (s *syncService) applyTask(ctx context.Context, tx store.Querier, userID int64, batchClientID string, incoming models.TomorrowTask, resp *models.PushResponse) error {
	log := logger.FromContext(ctx)

	incoming.UserID = userID
	if incoming.ClientID == "" {
		incoming.ClientID = batchClientID
	}

	existing, err := s.repos.TaskRepository.Get(ctx, tx, incoming.ID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		incoming.Version++
		insertErr := s.repos.TaskRepository.Insert(ctx, tx, incoming)
		if errors.Is(insertErr, store.ErrDuplicateRecord) {
			incoming.Version--
			existing, err = s.repos.TaskRepository.Get(ctx, tx, incoming.ID)
			if err != nil {
				return err
			}
			break
		}
		if insertErr != nil {
			return insertErr
		}
		resp.Applied.TomorrowTasks = append(resp.Applied.TomorrowTasks, incoming.ID)
		return nil
	case err != nil:
		return err
	}

	if existing.UserID != userID {
		log.Debug().Str("id", incoming.ID).Int64("user_id", userID).Msg("skipping foreign record in push")
		return nil
	}

	if s.isConflict(existing.Version, existing.ClientID, incoming.Version, incoming.ClientID) ||
		(existing.Deleted() && !incoming.Deleted()) {
		report := models.ConflictReport{
			Type:          recordTypeTask,
			ID:            incoming.ID,
			LocalVersion:  incoming.Version,
			ServerVersion: existing.Version,
		}

		duplicate := models.TomorrowTask{
			ID:       fmt.Sprintf("%s-conflict-%d", incoming.ID, time.Now().UnixMilli()),
			UserID:   userID,
			Text:     "[Conflict] " + incoming.Text,
			Time:     incoming.Time,
			Position: incoming.Position + 1,
			Version:  1,
			ClientID: incoming.ClientID,
		}
		if err = s.repos.TaskRepository.Insert(ctx, tx, duplicate); err != nil {
			return err
		}

		if err = s.recordConflict(ctx, tx, userID, duplicate.ID, report); err != nil {
			return err
		}

		resp.Conflicts = append(resp.Conflicts, report)
		return nil
	}

	incoming.CreatedAt = existing.CreatedAt
	incoming.Version++
	if err = s.repos.TaskRepository.Update(ctx, tx, incoming); err != nil {
		return err
	}

	resp.Applied.TomorrowTasks = append(resp.Applied.TomorrowTasks, incoming.ID)
	return nil
}

// isConflict implements the conflict rule: the server already holds a
// version at least as new as the one the client based its edit on, and that
// version came from a different installation. Records written before client
// identifiers existed count as written by an unknown client, so any
// non-empty incoming id differs from them.
func (s *syncService) isConflict(existingVersion int64, existingClientID string, incomingVersion int64, incomingClientID string) bool {
	return existingVersion >= incomingVersion && existingClientID != incomingClientID
}

func (s *syncService) recordConflict(ctx context.Context, tx store.Querier, userID int64, conflictRowID string, report models.ConflictReport) error {
	return s.repos.ConflictRepository.Insert(ctx, tx, models.Conflict{
		ID:            conflictRowID,
		UserID:        userID,
		RecordType:    report.Type,
		RecordID:      report.ID,
		LocalVersion:  report.LocalVersion,
		ServerVersion: report.ServerVersion,
	})
}

func (s *syncService) Pull(ctx context.Context, userID int64, since *time.Time) (models.PullResponse, error) {
	var cursor time.Time
	if since != nil {
		cursor = *since
	}

	blocks, err := s.repos.BlockRepository.ListSince(ctx, userID, cursor)
	if err != nil {
		return models.PullResponse{}, err
	}

	tasks, err := s.repos.TaskRepository.ListSince(ctx, userID, cursor)
	if err != nil {
		return models.PullResponse{}, err
	}

	settings, err := s.loadSettingsSince(ctx, userID, cursor)
	if err != nil {
		return models.PullResponse{}, err
	}

	return models.PullResponse{
		Blocks:        blocks,
		TomorrowTasks: tasks,
		Settings:      settings,
		Conflicts:     make([]models.ConflictReport, 0),
		SyncedAt:      time.Now().UTC(),
	}, nil
}

func (s *syncService) Full(ctx context.Context, userID int64) (models.PullResponse, error) {
	blocks, err := s.repos.BlockRepository.ListActive(ctx, userID)
	if err != nil {
		return models.PullResponse{}, err
	}

	tasks, err := s.repos.TaskRepository.ListActive(ctx, userID)
	if err != nil {
		return models.PullResponse{}, err
	}

	settings, err := s.loadSettingsSince(ctx, userID, time.Time{})
	if err != nil {
		return models.PullResponse{}, err
	}

	return models.PullResponse{
		Blocks:        blocks,
		TomorrowTasks: tasks,
		Settings:      settings,
		Conflicts:     make([]models.ConflictReport, 0),
		SyncedAt:      time.Now().UTC(),
	}, nil
}

// loadSettingsSince returns the user's settings when they changed after the
// cursor, nil when unchanged or absent.
func (s *syncService) loadSettingsSince(ctx context.Context, userID int64, since time.Time) (*models.Settings, error) {
	settings, err := s.repos.SettingsRepository.Get(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !since.IsZero() && !settings.UpdatedAt.After(since) {
		return nil, nil
	}

	return &settings, nil
}

func (s *syncService) ResolveConflict(ctx context.Context, userID int64, req models.ResolveConflictRequest) error {
	if err := validators.ValidateResolveConflictRequest(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return s.repos.ConflictRepository.Resolve(ctx, userID, req.ConflictID, req.Resolution)
}

func (s *syncService) ListConflicts(ctx context.Context, userID int64) ([]models.Conflict, error) {
	return s.repos.ConflictRepository.ListUnresolved(ctx, userID)
}
