package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbccc/znote/models"
)

func TestHTTPServerAdapter_Push(t *testing.T) {
	var gotAuth string
	var gotReq models.PushRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/sync/push", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.PushResponse{
			Success: true,
			Applied: models.Applied{Blocks: []string{"b1"}},
		})
	}))
	defer srv.Close()

	a := NewHTTPServerAdapter(HTTPClientConfig{BaseURL: srv.URL})
	a.SetToken("tok-123")

	resp, err := a.Push(context.Background(), models.PushRequest{
		ClientID: "c1",
		Blocks:   []models.Block{{ID: "b1", Text: "hi", Version: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "c1", gotReq.ClientID)
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"b1"}, resp.Applied.Blocks)
}

func TestHTTPServerAdapter_Pull_SendsSinceCursor(t *testing.T) {
	since := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sync/pull", r.URL.Path)
		assert.Equal(t, since.Format(time.RFC3339Nano), r.URL.Query().Get("since"))

		json.NewEncoder(w).Encode(models.PullResponse{SyncedAt: since.Add(time.Minute)})
	}))
	defer srv.Close()

	a := NewHTTPServerAdapter(HTTPClientConfig{BaseURL: srv.URL})
	a.SetToken("tok")

	resp, err := a.Pull(context.Background(), &since)
	require.NoError(t, err)
	assert.True(t, resp.SyncedAt.Equal(since.Add(time.Minute)))
}

func TestHTTPServerAdapter_Pull_NoCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("since"))
		json.NewEncoder(w).Encode(models.PullResponse{SyncedAt: time.Now()})
	}))
	defer srv.Close()

	a := NewHTTPServerAdapter(HTTPClientConfig{BaseURL: srv.URL})
	a.SetToken("tok")

	_, err := a.Pull(context.Background(), nil)
	require.NoError(t, err)
}

func TestHTTPServerAdapter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"Unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"BadRequest", http.StatusBadRequest, ErrBadRequest},
		{"NotFound", http.StatusNotFound, ErrNotFound},
		{"Internal", http.StatusInternalServerError, ErrInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()

			a := NewHTTPServerAdapter(HTTPClientConfig{BaseURL: srv.URL})
			a.SetToken("tok")

			_, err := a.Pull(context.Background(), nil)
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}
}

func TestHTTPServerAdapter_SignInGoogle_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/google", r.URL.Path)

		var req models.GoogleSignInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "id-tok", req.IDToken)

		json.NewEncoder(w).Encode(models.SignInResponse{
			Token: "bearer-abc",
			User:  models.User{Name: "n", Email: "e@example.com"},
		})
	}))
	defer srv.Close()

	a := NewHTTPServerAdapter(HTTPClientConfig{BaseURL: srv.URL})

	resp, err := a.SignInGoogle(context.Background(), models.GoogleSignInRequest{IDToken: "id-tok"})
	require.NoError(t, err)

	assert.Equal(t, "bearer-abc", resp.Token)
	assert.Equal(t, "bearer-abc", a.Token())
}

func TestHTTPServerAdapter_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	a := NewHTTPServerAdapter(HTTPClientConfig{BaseURL: srv.URL})
	assert.NoError(t, a.Health(context.Background()))

	srv.Close()
	assert.Error(t, a.Health(context.Background()))
}
