package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jbccc/znote/internal/events"
	"github.com/jbccc/znote/models"
)

// ErrRecordNotFound is returned by delete operations targeting a record the
// replica does not hold.
var ErrRecordNotFound = fmt.Errorf("record not found in local replica")

func (e *clientEngine) SaveBlock(ctx context.Context, change models.BlockChange) (models.LocalBlock, error) {
	now := time.Now().UTC()

	e.mu.Lock()

	id := change.ID
	if id == "" {
		id = e.ids.Generate()
	}

	block, exists := e.blocks[id]
	if !exists {
		block = models.LocalBlock{
			Block: models.Block{
				ID:        id,
				CreatedAt: now,
			},
		}
		if change.CreatedAt != nil {
			block.CreatedAt = *change.CreatedAt
		}
	}

	// Apply only the fields present on the change; absent fields keep
	// their current value. Nil-ness is the presence signal: an empty
	// string is a real edit, which rules out zero-value-skipping struct
	// merges here.
	if change.Text != nil {
		block.Text = *change.Text
	}
	if change.Position != nil {
		block.Position = *change.Position
	}
	if change.CalendarEventID != nil {
		block.CalendarEventID = change.CalendarEventID
	}

	block.Version++
	block.UpdatedAt = now
	block.ClientID = e.syncState.ClientID
	block.SyncStatus = models.StatusPending
	e.blocks[id] = block

	snapshot := e.snapshotBlocksLocked()
	e.mu.Unlock()

	if err := e.localStore.SaveBlocks(ctx, snapshot); err != nil {
		return models.LocalBlock{}, fmt.Errorf("persist blocks: %w", err)
	}

	e.emitter.Emit(events.Event{Type: events.TypeBlocksUpdated})
	e.scheduleSync()

	return block, nil
}

func (e *clientEngine) DeleteBlock(ctx context.Context, id string) error {
	now := time.Now().UTC()

	e.mu.Lock()
	block, exists := e.blocks[id]
	if !exists {
		e.mu.Unlock()
		return ErrRecordNotFound
	}

	block.DeletedAt = &now
	block.Version++
	block.UpdatedAt = now
	block.ClientID = e.syncState.ClientID
	block.SyncStatus = models.StatusPending
	e.blocks[id] = block

	snapshot := e.snapshotBlocksLocked()
	e.mu.Unlock()

	if err := e.localStore.SaveBlocks(ctx, snapshot); err != nil {
		return fmt.Errorf("persist blocks: %w", err)
	}

	e.emitter.Emit(events.Event{Type: events.TypeBlocksUpdated})
	e.scheduleSync()

	return nil
}

func (e *clientEngine) SaveTomorrowTask(ctx context.Context, change models.TomorrowTaskChange) (models.LocalTask, error) {
	now := time.Now().UTC()

	e.mu.Lock()

	id := change.ID
	if id == "" {
		id = e.ids.Generate()
	}

	task, exists := e.tasks[id]
	if !exists {
		task = models.LocalTask{
			TomorrowTask: models.TomorrowTask{
				ID:        id,
				CreatedAt: now,
			},
		}
	}

	if change.Text != nil {
		task.Text = *change.Text
	}
	if change.Time != nil {
		task.Time = change.Time
	}
	if change.Position != nil {
		task.Position = *change.Position
	}

	task.Version++
	task.UpdatedAt = now
	task.ClientID = e.syncState.ClientID
	task.SyncStatus = models.StatusPending
	e.tasks[id] = task

	snapshot := e.snapshotTasksLocked()
	e.mu.Unlock()

	if err := e.localStore.SaveTasks(ctx, snapshot); err != nil {
		return models.LocalTask{}, fmt.Errorf("persist tasks: %w", err)
	}

	e.emitter.Emit(events.Event{Type: events.TypeTasksUpdated})
	e.scheduleSync()

	return task, nil
}

func (e *clientEngine) DeleteTomorrowTask(ctx context.Context, id string) error {
	now := time.Now().UTC()

	e.mu.Lock()
	task, exists := e.tasks[id]
	if !exists {
		e.mu.Unlock()
		return ErrRecordNotFound
	}

	task.DeletedAt = &now
	task.Version++
	task.UpdatedAt = now
	task.ClientID = e.syncState.ClientID
	task.SyncStatus = models.StatusPending
	e.tasks[id] = task

	snapshot := e.snapshotTasksLocked()
	e.mu.Unlock()

	if err := e.localStore.SaveTasks(ctx, snapshot); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}

	e.emitter.Emit(events.Event{Type: events.TypeTasksUpdated})
	e.scheduleSync()

	return nil
}

func (e *clientEngine) SaveSettings(ctx context.Context, settings models.Settings) error {
	settings.UpdatedAt = time.Now().UTC()

	e.mu.Lock()
	e.settings = settings
	e.syncState.SettingsDirty = true
	state := e.syncState
	e.mu.Unlock()

	if err := e.localStore.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	if err := e.localStore.SaveSyncState(ctx, state); err != nil {
		return fmt.Errorf("persist sync state: %w", err)
	}

	e.emitter.Emit(events.Event{Type: events.TypeSettingsUpdated})
	e.scheduleSync()

	return nil
}

func (e *clientEngine) GetBlocks() []models.LocalBlock {
	e.mu.Lock()
	defer e.mu.Unlock()

	blocks := make([]models.LocalBlock, 0, len(e.blocks))
	for _, block := range e.blocks {
		if block.Deleted() {
			continue
		}
		blocks = append(blocks, block)
	}

	sort.Slice(blocks, func(i, j int) bool {
		if !blocks[i].CreatedAt.Equal(blocks[j].CreatedAt) {
			return blocks[i].CreatedAt.Before(blocks[j].CreatedAt)
		}
		return blocks[i].Position < blocks[j].Position
	})

	return blocks
}

func (e *clientEngine) GetTomorrowTasks() []models.LocalTask {
	e.mu.Lock()
	defer e.mu.Unlock()

	tasks := make([]models.LocalTask, 0, len(e.tasks))
	for _, task := range e.tasks {
		if task.Deleted() {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Position < tasks[j].Position
	})

	return tasks
}

func (e *clientEngine) GetSettings() models.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// snapshotBlocksLocked copies the block cache for persistence. Caller holds
// the mutex.
func (e *clientEngine) snapshotBlocksLocked() map[string]models.LocalBlock {
	snapshot := make(map[string]models.LocalBlock, len(e.blocks))
	for id, block := range e.blocks {
		snapshot[id] = block
	}
	return snapshot
}

func (e *clientEngine) snapshotTasksLocked() map[string]models.LocalTask {
	snapshot := make(map[string]models.LocalTask, len(e.tasks))
	for id, task := range e.tasks {
		snapshot[id] = task
	}
	return snapshot
}
