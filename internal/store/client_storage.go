package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jbccc/znote/internal/utils"
	"github.com/jbccc/znote/models"
)

// Keys under which the client replica persists its documents.
const (
	keyBlocks    = "blocks"
	keyTasks     = "tomorrowTasks"
	keySettings  = "settings"
	keySyncState = "sync-state"
	keyClientID  = "client-id"
	keyAuthToken = "auth-token"
	keyUser      = "user"
)

// LocalStorage is the client replica: typed accessors over the sqlite
// key-value store. Only the sync engine writes to it; UI collaborators read
// through engine accessors.
type LocalStorage interface {
	LoadBlocks(ctx context.Context) (map[string]models.LocalBlock, error)
	SaveBlocks(ctx context.Context, blocks map[string]models.LocalBlock) error

	LoadTasks(ctx context.Context) (map[string]models.LocalTask, error)
	SaveTasks(ctx context.Context, tasks map[string]models.LocalTask) error

	LoadSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	LoadSyncState(ctx context.Context) (models.SyncState, error)
	SaveSyncState(ctx context.Context, state models.SyncState) error

	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error

	LoadUser(ctx context.Context) (*models.User, error)
	SaveUser(ctx context.Context, user models.User) error
	ClearUser(ctx context.Context) error

	// ClientID returns the stable per-installation identifier, generating
	// and persisting one on first call.
	ClientID(ctx context.Context) (string, error)

	Close() error
}

type localStorage struct {
	kv  *kvStore
	ids *utils.UUIDGenerator
}

// NewLocalStorage opens (or creates) the sqlite replica file at path.
func NewLocalStorage(path string) (LocalStorage, error) {
	kv, err := openKVStore(path)
	if err != nil {
		return nil, err
	}

	return &localStorage{kv: kv, ids: utils.NewUUIDGenerator()}, nil
}

func (s *localStorage) LoadBlocks(ctx context.Context) (map[string]models.LocalBlock, error) {
	blocks := make(map[string]models.LocalBlock)
	if err := s.loadJSON(ctx, keyBlocks, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *localStorage) SaveBlocks(ctx context.Context, blocks map[string]models.LocalBlock) error {
	return s.saveJSON(ctx, keyBlocks, blocks)
}

func (s *localStorage) LoadTasks(ctx context.Context) (map[string]models.LocalTask, error) {
	tasks := make(map[string]models.LocalTask)
	if err := s.loadJSON(ctx, keyTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *localStorage) SaveTasks(ctx context.Context, tasks map[string]models.LocalTask) error {
	return s.saveJSON(ctx, keyTasks, tasks)
}

func (s *localStorage) LoadSettings(ctx context.Context) (*models.Settings, error) {
	raw, found, err := s.kv.get(ctx, keySettings)
	if err != nil || !found {
		return nil, err
	}

	var settings models.Settings
	if err = json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("decode local %s: %w", keySettings, err)
	}
	return &settings, nil
}

func (s *localStorage) SaveSettings(ctx context.Context, settings models.Settings) error {
	return s.saveJSON(ctx, keySettings, settings)
}

func (s *localStorage) LoadSyncState(ctx context.Context) (models.SyncState, error) {
	var state models.SyncState
	if err := s.loadJSON(ctx, keySyncState, &state); err != nil {
		return models.SyncState{}, err
	}
	return state, nil
}

func (s *localStorage) SaveSyncState(ctx context.Context, state models.SyncState) error {
	return s.saveJSON(ctx, keySyncState, state)
}

func (s *localStorage) LoadToken(ctx context.Context) (string, error) {
	token, _, err := s.kv.get(ctx, keyAuthToken)
	return token, err
}

func (s *localStorage) SaveToken(ctx context.Context, token string) error {
	return s.kv.set(ctx, keyAuthToken, token)
}

func (s *localStorage) ClearToken(ctx context.Context) error {
	return s.kv.delete(ctx, keyAuthToken)
}

func (s *localStorage) LoadUser(ctx context.Context) (*models.User, error) {
	raw, found, err := s.kv.get(ctx, keyUser)
	if err != nil || !found {
		return nil, err
	}

	var user models.User
	if err = json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode local %s: %w", keyUser, err)
	}
	return &user, nil
}

func (s *localStorage) SaveUser(ctx context.Context, user models.User) error {
	return s.saveJSON(ctx, keyUser, user)
}

func (s *localStorage) ClearUser(ctx context.Context) error {
	return s.kv.delete(ctx, keyUser)
}

func (s *localStorage) ClientID(ctx context.Context) (string, error) {
	id, found, err := s.kv.get(ctx, keyClientID)
	if err != nil {
		return "", err
	}
	if found && id != "" {
		return id, nil
	}

	id = s.ids.Generate()
	if err = s.kv.set(ctx, keyClientID, id); err != nil {
		return "", err
	}

	return id, nil
}

func (s *localStorage) Close() error {
	return s.kv.close()
}

func (s *localStorage) loadJSON(ctx context.Context, key string, dest any) error {
	raw, found, err := s.kv.get(ctx, key)
	if err != nil || !found {
		return err
	}

	if err = json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode local %s: %w", key, err)
	}
	return nil
}

func (s *localStorage) saveJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode local %s: %w", key, err)
	}

	return s.kv.set(ctx, key, string(payload))
}
