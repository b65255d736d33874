// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jbccc/znote/internal/adapter"
	"github.com/jbccc/znote/internal/events"
	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/store"
	"github.com/jbccc/znote/internal/utils"
	"github.com/jbccc/znote/models"
)

// clientEngine is the concrete [ClientSyncEngine].
//
// All collection state lives in in-memory caches backed by the local
// key-value replica; every mutation writes through to storage before the
// corresponding event is emitted. A run mutex guarantees at most one
// in-flight sync per engine instance, and a resettable debounce timer
// collapses bursts of edits into a single upload.
type clientEngine struct {
	localStore store.LocalStorage
	adapter    adapter.ServerAdapter
	emitter    *events.Emitter
	ids        *utils.UUIDGenerator
	logger     *logger.Logger

	debounceDelay time.Duration

	mu        sync.Mutex
	blocks    map[string]models.LocalBlock
	tasks     map[string]models.LocalTask
	settings  models.Settings
	syncState models.SyncState
	user      *models.User
	status    events.Status
	online    bool
	debounce  *time.Timer
	closed    bool

	// runMu serializes replication runs. Sync uses TryLock so overlapping
	// triggers collapse into the run already in flight; FullSync blocks.
	runMu sync.Mutex
}

// NewClientSyncEngine constructs an engine over the given replica and
// server adapter. Call Initialize before use.
func NewClientSyncEngine(localStore store.LocalStorage, serverAdapter adapter.ServerAdapter, debounceDelay time.Duration, log *logger.Logger) ClientSyncEngine {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}

	return &clientEngine{
		localStore:    localStore,
		adapter:       serverAdapter,
		emitter:       events.NewEmitter(),
		ids:           utils.NewUUIDGenerator(),
		logger:        log,
		debounceDelay: debounceDelay,
		blocks:        make(map[string]models.LocalBlock),
		tasks:         make(map[string]models.LocalTask),
		settings:      models.DefaultSettings(),
		status:        events.StatusIdle,
		online:        true,
	}
}

func (e *clientEngine) Initialize(ctx context.Context) error {
	blocks, err := e.localStore.LoadBlocks(ctx)
	if err != nil {
		return fmt.Errorf("load local blocks: %w", err)
	}

	tasks, err := e.localStore.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("load local tasks: %w", err)
	}

	settings, err := e.localStore.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load local settings: %w", err)
	}

	syncState, err := e.localStore.LoadSyncState(ctx)
	if err != nil {
		return fmt.Errorf("load sync state: %w", err)
	}

	if syncState.ClientID == "" {
		syncState.ClientID, err = e.localStore.ClientID(ctx)
		if err != nil {
			return fmt.Errorf("resolve client id: %w", err)
		}
	}

	token, err := e.localStore.LoadToken(ctx)
	if err != nil {
		return fmt.Errorf("load auth token: %w", err)
	}

	user, err := e.localStore.LoadUser(ctx)
	if err != nil {
		return fmt.Errorf("load local user: %w", err)
	}

	e.mu.Lock()
	e.blocks = blocks
	e.tasks = tasks
	if settings != nil {
		e.settings = *settings
	}
	e.syncState = syncState
	e.user = user
	e.mu.Unlock()

	if token == "" {
		return nil
	}

	// Validate the persisted token before trusting it. A stale token is
	// cleared and the engine settles signed-out with local data intact.
	e.adapter.SetToken(token)
	verified, err := e.adapter.Me(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("persisted token rejected, signing out locally")
		e.adapter.SetToken("")
		if clearErr := e.localStore.ClearToken(ctx); clearErr != nil {
			return fmt.Errorf("clear rejected token: %w", clearErr)
		}
		e.mu.Lock()
		e.user = nil
		e.mu.Unlock()
		return nil
	}

	if err = e.localStore.SaveUser(ctx, verified); err != nil {
		return fmt.Errorf("persist verified user: %w", err)
	}
	e.mu.Lock()
	e.user = &verified
	e.mu.Unlock()

	if err = e.Sync(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("initial sync failed")
	}

	return nil
}

func (e *clientEngine) SignIn(ctx context.Context, idToken, refreshToken string) error {
	signIn, err := e.adapter.SignInGoogle(ctx, models.GoogleSignInRequest{
		IDToken:      idToken,
		RefreshToken: refreshToken,
	})
	if err != nil {
		return fmt.Errorf("google sign-in: %w", err)
	}

	if err = e.localStore.SaveToken(ctx, signIn.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err = e.localStore.SaveUser(ctx, signIn.User); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}

	e.mu.Lock()
	e.user = &signIn.User
	e.mu.Unlock()

	// Push before the full sync so edits made while signed out are not
	// clobbered by the server snapshot.
	if err = e.pushPending(ctx); err != nil {
		return fmt.Errorf("push pending before full sync: %w", err)
	}

	return e.FullSync(ctx)
}

func (e *clientEngine) SignOut(ctx context.Context) error {
	e.adapter.SetToken("")

	if err := e.localStore.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := e.localStore.ClearUser(ctx); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}

	e.mu.Lock()
	e.user = nil
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	e.mu.Unlock()

	// Local data stays: it becomes the anonymous baseline.
	return nil
}

func (e *clientEngine) GetUser() *models.User {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.user == nil {
		return nil
	}
	user := *e.user
	return &user
}

func (e *clientEngine) Status() events.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *clientEngine) Events() *events.Emitter {
	return e.emitter
}

func (e *clientEngine) SetOnline(ctx context.Context, online bool) {
	e.mu.Lock()
	changed := e.online != online
	e.online = online
	if !online {
		e.status = events.StatusOffline
	} else if e.status == events.StatusOffline {
		e.status = events.StatusIdle
	}
	status := e.status
	e.mu.Unlock()

	if !changed {
		return
	}

	e.emitter.Emit(events.Event{Type: events.TypeStatusChange, Payload: status})

	if online {
		if err := e.Sync(ctx); err != nil {
			e.logger.Warn().Err(err).Msg("sync on reconnect failed")
		}
	}
}

func (e *clientEngine) Close() error {
	e.mu.Lock()
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	e.closed = true
	e.mu.Unlock()

	return e.localStore.Close()
}

// scheduleSync (re)arms the debounce timer: a burst of edits results in one
// sync once the burst has been quiet for the configured delay.
func (e *clientEngine) scheduleSync() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(e.debounceDelay, func() {
		if err := e.Sync(context.Background()); err != nil {
			e.logger.Warn().Err(err).Msg("debounced sync failed")
		}
	})
}

// setStatus flips the engine status and emits the change.
func (e *clientEngine) setStatus(status events.Status) {
	e.mu.Lock()
	if e.status == status {
		e.mu.Unlock()
		return
	}
	e.status = status
	e.mu.Unlock()

	e.emitter.Emit(events.Event{Type: events.TypeStatusChange, Payload: status})
}
