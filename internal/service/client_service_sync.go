package service

import (
	"context"
	"fmt"

	"github.com/jbccc/znote/internal/events"
	"github.com/jbccc/znote/models"
)

func (e *clientEngine) Sync(ctx context.Context) error {
	if e.adapter.Token() == "" {
		return nil
	}

	e.mu.Lock()
	online := e.online
	e.mu.Unlock()
	if !online {
		return nil
	}

	// Overlapping triggers (debounce, ticker, reconnect, foreground)
	// collapse into the run already in flight.
	if !e.runMu.TryLock() {
		return nil
	}
	defer e.runMu.Unlock()

	e.setStatus(events.StatusSyncing)

	if err := e.syncOnce(ctx); err != nil {
		e.setStatus(events.StatusError)
		e.emitter.Emit(events.Event{Type: events.TypeError, Payload: err})
		return err
	}

	e.setStatus(events.StatusIdle)
	return nil
}

// syncOnce performs one push-then-pull cycle. Push completes before pull
// begins so the pull snapshot already reflects this client's writes.
func (e *clientEngine) syncOnce(ctx context.Context) error {
	if err := e.pushPending(ctx); err != nil {
		return err
	}

	return e.pullChanges(ctx)
}

// pushPending uploads every record the replica marks pending, plus a dirty
// settings document, and folds the server's verdicts back into the replica.
func (e *clientEngine) pushPending(ctx context.Context) error {
	e.mu.Lock()

	req := models.PushRequest{ClientID: e.syncState.ClientID}
	pushedVersions := make(map[string]int64)

	for id, block := range e.blocks {
		if block.SyncStatus != models.StatusPending {
			continue
		}
		req.Blocks = append(req.Blocks, block.Block)
		pushedVersions["b:"+id] = block.Version
	}
	for id, task := range e.tasks {
		if task.SyncStatus != models.StatusPending {
			continue
		}
		req.TomorrowTasks = append(req.TomorrowTasks, task.TomorrowTask)
		pushedVersions["t:"+id] = task.Version
	}
	if e.syncState.SettingsDirty {
		settings := e.settings
		req.Settings = &settings
	}

	e.mu.Unlock()

	if len(req.Blocks) == 0 && len(req.TomorrowTasks) == 0 && req.Settings == nil {
		return nil
	}

	resp, err := e.adapter.Push(ctx, req)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}

	e.mu.Lock()

	for _, id := range resp.Applied.Blocks {
		block, ok := e.blocks[id]
		if !ok {
			continue
		}
		accepted := pushedVersions["b:"+id] + 1
		block.ServerVersion = accepted
		// A record edited while the push was in flight stays pending;
		// the newer local version strictly supersedes the accepted one.
		if block.Version == pushedVersions["b:"+id] {
			block.Version = accepted
			block.SyncStatus = models.StatusSynced
		}
		e.blocks[id] = block
	}

	for _, id := range resp.Applied.TomorrowTasks {
		task, ok := e.tasks[id]
		if !ok {
			continue
		}
		accepted := pushedVersions["t:"+id] + 1
		task.ServerVersion = accepted
		if task.Version == pushedVersions["t:"+id] {
			task.Version = accepted
			task.SyncStatus = models.StatusSynced
		}
		e.tasks[id] = task
	}

	for _, report := range resp.Conflicts {
		switch report.Type {
		case recordTypeBlock:
			if block, ok := e.blocks[report.ID]; ok {
				block.SyncStatus = models.StatusConflict
				block.ServerVersion = report.ServerVersion
				e.blocks[report.ID] = block
			}
		case recordTypeTask:
			if task, ok := e.tasks[report.ID]; ok {
				task.SyncStatus = models.StatusConflict
				task.ServerVersion = report.ServerVersion
				e.tasks[report.ID] = task
			}
		}
	}

	if resp.Applied.Settings {
		e.syncState.SettingsDirty = false
	}

	blocks := e.snapshotBlocksLocked()
	tasks := e.snapshotTasksLocked()
	state := e.syncState
	conflicts := resp.Conflicts

	e.mu.Unlock()

	if err = e.localStore.SaveBlocks(ctx, blocks); err != nil {
		return fmt.Errorf("persist blocks after push: %w", err)
	}
	if err = e.localStore.SaveTasks(ctx, tasks); err != nil {
		return fmt.Errorf("persist tasks after push: %w", err)
	}
	if err = e.localStore.SaveSyncState(ctx, state); err != nil {
		return fmt.Errorf("persist sync state after push: %w", err)
	}

	for _, report := range conflicts {
		e.emitter.Emit(events.Event{Type: events.TypeConflictDetected, Payload: report})
	}

	return nil
}

// pullChanges fetches the delta past the stored cursor and merges it into
// the replica.
func (e *clientEngine) pullChanges(ctx context.Context) error {
	e.mu.Lock()
	since := e.syncState.LastSyncedAt
	e.mu.Unlock()

	resp, err := e.adapter.Pull(ctx, since)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}

	e.mu.Lock()

	blocksChanged := e.mergeBlocksLocked(resp.Blocks)
	tasksChanged := e.mergeTasksLocked(resp.TomorrowTasks)
	settingsChanged := e.mergeSettingsLocked(resp.Settings)

	syncedAt := resp.SyncedAt
	e.syncState.LastSyncedAt = &syncedAt

	blocks := e.snapshotBlocksLocked()
	tasks := e.snapshotTasksLocked()
	settings := e.settings
	state := e.syncState

	e.mu.Unlock()

	if err = e.localStore.SaveBlocks(ctx, blocks); err != nil {
		return fmt.Errorf("persist blocks after pull: %w", err)
	}
	if err = e.localStore.SaveTasks(ctx, tasks); err != nil {
		return fmt.Errorf("persist tasks after pull: %w", err)
	}
	if settingsChanged {
		if err = e.localStore.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("persist settings after pull: %w", err)
		}
	}
	if err = e.localStore.SaveSyncState(ctx, state); err != nil {
		return fmt.Errorf("persist sync state after pull: %w", err)
	}

	if blocksChanged {
		e.emitter.Emit(events.Event{Type: events.TypeBlocksUpdated})
	}
	if tasksChanged {
		e.emitter.Emit(events.Event{Type: events.TypeTasksUpdated})
	}
	if settingsChanged {
		e.emitter.Emit(events.Event{Type: events.TypeSettingsUpdated})
	}

	return nil
}

// mergeBlocksLocked folds a batch of server blocks into the replica.
// Caller holds the mutex. Local-only records are preserved: the since
// cursor guarantees unchanged server records are not re-sent, so anything
// absent from the batch is either new locally or unchanged remotely.
func (e *clientEngine) mergeBlocksLocked(serverBlocks []models.Block) bool {
	changed := false

	for _, server := range serverBlocks {
		local, exists := e.blocks[server.ID]

		if !exists {
			e.blocks[server.ID] = models.LocalBlock{
				Block:         server,
				SyncStatus:    models.StatusSynced,
				ServerVersion: server.Version,
			}
			changed = true
			continue
		}

		if local.SyncStatus == models.StatusPending {
			if server.Version > local.ServerVersion {
				// The server moved past the version this client's edit
				// was based on. Keep the local edit, flag the conflict.
				local.SyncStatus = models.StatusConflict
				local.ServerVersion = server.Version
				e.blocks[server.ID] = local
				changed = true
			}
			// Otherwise the pending edit strictly supersedes the server
			// copy; leave it alone.
			continue
		}

		e.blocks[server.ID] = models.LocalBlock{
			Block:         server,
			SyncStatus:    models.StatusSynced,
			ServerVersion: server.Version,
		}
		changed = true
	}

	return changed
}

func (e *clientEngine) mergeTasksLocked(serverTasks []models.TomorrowTask) bool {
	changed := false

	for _, server := range serverTasks {
		local, exists := e.tasks[server.ID]

		if !exists {
			e.tasks[server.ID] = models.LocalTask{
				TomorrowTask:  server,
				SyncStatus:    models.StatusSynced,
				ServerVersion: server.Version,
			}
			changed = true
			continue
		}

		if local.SyncStatus == models.StatusPending {
			if server.Version > local.ServerVersion {
				local.SyncStatus = models.StatusConflict
				local.ServerVersion = server.Version
				e.tasks[server.ID] = local
				changed = true
			}
			continue
		}

		e.tasks[server.ID] = models.LocalTask{
			TomorrowTask:  server,
			SyncStatus:    models.StatusSynced,
			ServerVersion: server.Version,
		}
		changed = true
	}

	return changed
}

// mergeSettingsLocked applies last-writer-wins by timestamp: the server
// copy replaces the local one when it is strictly newer (even if a local
// change is waiting to be pushed) or when the local copy was never set.
func (e *clientEngine) mergeSettingsLocked(server *models.Settings) bool {
	if server == nil {
		return false
	}
	if e.syncState.SettingsDirty && !server.UpdatedAt.After(e.settings.UpdatedAt) {
		return false
	}
	if server.UpdatedAt.After(e.settings.UpdatedAt) || e.settings.UpdatedAt.IsZero() {
		e.settings = *server
		e.syncState.SettingsDirty = false
		return true
	}

	return false
}

func (e *clientEngine) FullSync(ctx context.Context) error {
	if e.adapter.Token() == "" {
		return nil
	}

	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.setStatus(events.StatusSyncing)

	resp, err := e.adapter.Full(ctx)
	if err != nil {
		e.setStatus(events.StatusError)
		e.emitter.Emit(events.Event{Type: events.TypeError, Payload: err})
		return fmt.Errorf("full sync: %w", err)
	}

	blocks := make(map[string]models.LocalBlock, len(resp.Blocks))
	for _, block := range resp.Blocks {
		blocks[block.ID] = models.LocalBlock{
			Block:         block,
			SyncStatus:    models.StatusSynced,
			ServerVersion: block.Version,
		}
	}

	tasks := make(map[string]models.LocalTask, len(resp.TomorrowTasks))
	for _, task := range resp.TomorrowTasks {
		tasks[task.ID] = models.LocalTask{
			TomorrowTask:  task,
			SyncStatus:    models.StatusSynced,
			ServerVersion: task.Version,
		}
	}

	e.mu.Lock()
	e.blocks = blocks
	e.tasks = tasks
	if resp.Settings != nil {
		e.settings = *resp.Settings
	}
	syncedAt := resp.SyncedAt
	e.syncState.LastSyncedAt = &syncedAt
	e.syncState.SettingsDirty = false
	settings := e.settings
	state := e.syncState
	e.mu.Unlock()

	if err = e.localStore.SaveBlocks(ctx, blocks); err != nil {
		return fmt.Errorf("persist blocks after full sync: %w", err)
	}
	if err = e.localStore.SaveTasks(ctx, tasks); err != nil {
		return fmt.Errorf("persist tasks after full sync: %w", err)
	}
	if err = e.localStore.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("persist settings after full sync: %w", err)
	}
	if err = e.localStore.SaveSyncState(ctx, state); err != nil {
		return fmt.Errorf("persist sync state after full sync: %w", err)
	}

	e.emitter.Emit(events.Event{Type: events.TypeBlocksUpdated})
	e.emitter.Emit(events.Event{Type: events.TypeTasksUpdated})
	e.emitter.Emit(events.Event{Type: events.TypeSettingsUpdated})

	e.setStatus(events.StatusIdle)
	return nil
}
