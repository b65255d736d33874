package config

import "errors"

var (
	// ErrInvalidStorageConfigs indicates a missing server database DSN or
	// a missing client replica path.
	ErrInvalidStorageConfigs = errors.New("invalid storage configs")

	// ErrInvalidAdapterConfigs indicates a missing server base URL or
	// request timeout on the client.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configs")

	// ErrInvalidAppConfigs indicates missing token signing parameters on
	// the server.
	ErrInvalidAppConfigs = errors.New("invalid app configs")
)
