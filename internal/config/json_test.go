package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "String", input: `"1h30m"`, want: 90 * time.Minute},
		{name: "Seconds", input: `"30s"`, want: 30 * time.Second},
		{name: "Nanoseconds", input: `1000000000`, want: time.Second},
		{name: "Garbage", input: `"soon"`, wantErr: true},
		{name: "WrongType", input: `true`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tc.input), &d)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, time.Duration(d))
		})
	}
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"token_sign_key": "k", "token_issuer": "iss", "token_duration": "720h"},
		"server": {"http_address": ":4000", "request_timeout": "15s", "max_body_bytes": 2097152},
		"storage": {"db": {"dsn": "postgres://localhost/znote"}},
		"workers": {"sync_interval": "45s", "debounce_delay": "2s"}
	}`), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.App.TokenSignKey)
	assert.Equal(t, "iss", cfg.App.TokenIssuer)
	assert.Equal(t, 720*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, ":4000", cfg.Server.HTTPAddress)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, int64(2097152), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "postgres://localhost/znote", cfg.Storage.DB.DSN)
	assert.Equal(t, 45*time.Second, cfg.Workers.SyncInterval)
	assert.Equal(t, 2*time.Second, cfg.Workers.DebounceDelay)

	// The path is cleared so the merge step never re-reads the file.
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
