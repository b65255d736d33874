package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// BaseURL is the server base URL the client syncs against.
	BaseURL string
	// RequestTimeout is the timeout for outbound sync requests.
	RequestTimeout time.Duration
}

// ClientStorage groups client replica storage settings.
type ClientStorage struct {
	// DBPath is the path of the local sqlite replica file.
	DBPath string
}

// ClientWorkers contains client sync scheduling settings.
type ClientWorkers struct {
	// SyncInterval defines the periodic sync tick.
	SyncInterval time.Duration
	// DebounceDelay is the post-edit quiescence window before an upload.
	DebounceDelay time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view.
//
// The client skips the flag source: its command line belongs to the cobra
// command tree, so configuration comes from environment variables and the
// optional JSON file only.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DBPath: cfg.Storage.DB.DSN,
		},
		Workers: ClientWorkers{
			SyncInterval:  cfg.Workers.SyncInterval,
			DebounceDelay: cfg.Workers.DebounceDelay,
		},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Adapter.BaseURL == "" {
		cfg.Adapter.BaseURL = "http://localhost:3001"
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = "znote.db"
	}
	if cfg.Workers.SyncInterval == 0 {
		cfg.Workers.SyncInterval = DefaultSyncInterval
	}
	if cfg.Workers.DebounceDelay == 0 {
		cfg.Workers.DebounceDelay = DefaultDebounceDelay
	}
}
