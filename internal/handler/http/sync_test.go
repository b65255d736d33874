package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/service"
	"github.com/jbccc/znote/internal/store"
	"github.com/jbccc/znote/internal/utils"
	"github.com/jbccc/znote/models"
)

type mockSyncService struct {
	pushFn    func(ctx context.Context, userID int64, req models.PushRequest) (models.PushResponse, error)
	pullFn    func(ctx context.Context, userID int64, since *time.Time) (models.PullResponse, error)
	fullFn    func(ctx context.Context, userID int64) (models.PullResponse, error)
	resolveFn func(ctx context.Context, userID int64, req models.ResolveConflictRequest) error
	listFn    func(ctx context.Context, userID int64) ([]models.Conflict, error)
}

func (m *mockSyncService) Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushResponse, error) {
	return m.pushFn(ctx, userID, req)
}
func (m *mockSyncService) Pull(ctx context.Context, userID int64, since *time.Time) (models.PullResponse, error) {
	return m.pullFn(ctx, userID, since)
}
func (m *mockSyncService) Full(ctx context.Context, userID int64) (models.PullResponse, error) {
	return m.fullFn(ctx, userID)
}
func (m *mockSyncService) ResolveConflict(ctx context.Context, userID int64, req models.ResolveConflictRequest) error {
	return m.resolveFn(ctx, userID, req)
}
func (m *mockSyncService) ListConflicts(ctx context.Context, userID int64) ([]models.Conflict, error) {
	return m.listFn(ctx, userID)
}

func newHandlerWithSyncService(svc service.SyncService) *Handler {
	return &Handler{
		services: &service.Services{
			SyncService: svc,
		},
		logger: logger.Nop(),
	}
}

func withUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, utils.UserIDCtxKey, userID)
}

func TestPush_Success(t *testing.T) {
	var gotUserID int64
	var gotReq models.PushRequest

	mockSvc := &mockSyncService{
		pushFn: func(ctx context.Context, userID int64, req models.PushRequest) (models.PushResponse, error) {
			gotUserID = userID
			gotReq = req
			return models.PushResponse{
				Success: true,
				Applied: models.Applied{Blocks: []string{"b1"}, TomorrowTasks: []string{}},
			}, nil
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	body, err := json.Marshal(models.PushRequest{
		ClientID: "c1",
		Blocks:   []models.Block{{ID: "b1", Text: "hello", Version: 1}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewReader(body))
	req = req.WithContext(withUserID(req.Context(), 7))
	rec := httptest.NewRecorder()

	h.push(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotUserID)
	assert.Equal(t, "c1", gotReq.ClientID)

	var resp models.PushResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"b1"}, resp.Applied.Blocks)
}

func TestPush_InvalidJSON(t *testing.T) {
	h := newHandlerWithSyncService(&mockSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewReader([]byte("{not json")))
	req = req.WithContext(withUserID(req.Context(), 7))
	rec := httptest.NewRecorder()

	h.push(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPush_ValidationErrorMapsTo400(t *testing.T) {
	mockSvc := &mockSyncService{
		pushFn: func(ctx context.Context, userID int64, req models.PushRequest) (models.PushResponse, error) {
			return models.PushResponse{}, service.ErrInvalidDataProvided
		},
	}
	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewReader([]byte("{}")))
	req = req.WithContext(withUserID(req.Context(), 7))
	rec := httptest.NewRecorder()

	h.push(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPush_MissingUserID(t *testing.T) {
	h := newHandlerWithSyncService(&mockSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()

	h.push(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPull_ParsesSinceCursor(t *testing.T) {
	since := time.Date(2026, 7, 1, 12, 30, 0, 0, time.UTC)

	var gotSince *time.Time
	mockSvc := &mockSyncService{
		pullFn: func(ctx context.Context, userID int64, s *time.Time) (models.PullResponse, error) {
			gotSince = s
			return models.PullResponse{
				Blocks:        []models.Block{},
				TomorrowTasks: []models.TomorrowTask{},
				SyncedAt:      since.Add(time.Minute),
			}, nil
		},
	}
	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/sync/pull?since="+since.Format(time.RFC3339Nano), nil)
	req = req.WithContext(withUserID(req.Context(), 7))
	rec := httptest.NewRecorder()

	h.pull(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotSince)
	assert.True(t, gotSince.Equal(since))
}

func TestPull_MissingSinceMeansEpoch(t *testing.T) {
	var gotSince *time.Time
	mockSvc := &mockSyncService{
		pullFn: func(ctx context.Context, userID int64, s *time.Time) (models.PullResponse, error) {
			gotSince = s
			return models.PullResponse{SyncedAt: time.Now()}, nil
		},
	}
	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/sync/pull", nil)
	req = req.WithContext(withUserID(req.Context(), 7))
	rec := httptest.NewRecorder()

	h.pull(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotSince)
}

func TestPull_InvalidSince(t *testing.T) {
	h := newHandlerWithSyncService(&mockSyncService{})

	req := httptest.NewRequest(http.MethodGet, "/sync/pull?since=yesterday", nil)
	req = req.WithContext(withUserID(req.Context(), 7))
	rec := httptest.NewRecorder()

	h.pull(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveConflict_NotFoundMapsTo404(t *testing.T) {
	mockSvc := &mockSyncService{
		resolveFn: func(ctx context.Context, userID int64, req models.ResolveConflictRequest) error {
			return store.ErrConflictNotFound
		},
	}
	h := newHandlerWithSyncService(mockSvc)

	body, err := json.Marshal(models.ResolveConflictRequest{
		ConflictID: "nope",
		Resolution: models.ResolutionKeptBoth,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sync/resolve-conflict", bytes.NewReader(body))
	req = req.WithContext(withUserID(req.Context(), 7))
	rec := httptest.NewRecorder()

	h.resolveConflict(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
