// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package config

// validate checks invariants shared by every consumer of the merged
// configuration. Server-only requirements live in [StructuredConfig.ValidateServer]
// so the client can load the same config without server secrets present.
func (cfg *StructuredConfig) validate() error {
	return nil
}

// ValidateServer checks the invariants required at server startup.
func (cfg *StructuredConfig) ValidateServer() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DBPath == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
