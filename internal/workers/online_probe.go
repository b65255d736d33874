package workers

import (
	"context"
	"time"

	"github.com/jbccc/znote/internal/adapter"
	"github.com/jbccc/znote/internal/service"
)

// onlineProbe watches server reachability through the unauthenticated
// health endpoint and reports transitions to the engine. The engine reacts
// by flipping its status and syncing on reconnect.
type onlineProbe struct {
	engine   service.ClientSyncEngine
	adapter  adapter.ServerAdapter
	interval time.Duration
}

// NewOnlineProbe creates the reachability worker. A non-positive interval
// defaults to 10 seconds.
func NewOnlineProbe(engine service.ClientSyncEngine, serverAdapter adapter.ServerAdapter, interval time.Duration) Worker {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &onlineProbe{engine: engine, adapter: serverAdapter, interval: interval}
}

func (w *onlineProbe) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			probeCtx, cancel := context.WithTimeout(ctx, w.interval)
			err := w.adapter.Health(probeCtx)
			cancel()

			w.engine.SetOnline(ctx, err == nil)
		}
	}
}
