package workers

import (
	"context"
	"time"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/service"
)

// syncTicker triggers an engine sync on a fixed interval. Ticks landing
// while a sync is already in flight collapse into it through the engine's
// single-flight gate.
type syncTicker struct {
	engine   service.ClientSyncEngine
	interval time.Duration
	logger   *logger.Logger
}

// NewSyncTicker creates the periodic sync worker. A non-positive interval
// defaults to 30 seconds.
func NewSyncTicker(engine service.ClientSyncEngine, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &syncTicker{engine: engine, interval: interval, logger: log}
}

func (w *syncTicker) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := w.engine.Sync(ctx); err != nil {
				w.logger.Warn().Err(err).Msg("periodic sync failed")
			}
		}
	}
}
