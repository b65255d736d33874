package service

import (
	"fmt"

	"github.com/jbccc/znote/internal/adapter"
	"github.com/jbccc/znote/internal/config"
	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/store"
)

// NewClientServices wires the local replica, the server adapter, and the
// sync engine from the client configuration.
func NewClientServices(cfg *config.ClientConfig, log *logger.Logger) (*ClientServices, error) {
	localStore, err := store.NewLocalStorage(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.BaseURL,
		Timeout: cfg.Adapter.RequestTimeout,
	})

	engine := NewClientSyncEngine(localStore, serverAdapter, cfg.Workers.DebounceDelay, log)

	return &ClientServices{Engine: engine, Adapter: serverAdapter}, nil
}
