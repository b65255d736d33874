package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jbccc/znote/models"
)

// HTTPClientConfig configures the resty-backed server adapter.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter constructs a [ServerAdapter] speaking the HTTP/JSON
// sync protocol. Responses are transparently gzip-decoded by the transport.
func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3001"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli}
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) SignInGoogle(ctx context.Context, req models.GoogleSignInRequest) (models.SignInResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/auth/google")
	if err != nil {
		return models.SignInResponse{}, fmt.Errorf("google sign-in request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SignInResponse{}, err
	}

	var signIn models.SignInResponse
	if err = json.Unmarshal(resp.Body(), &signIn); err != nil {
		return models.SignInResponse{}, fmt.Errorf("decode sign-in response: %w", err)
	}

	h.SetToken(signIn.Token)
	return signIn, nil
}

func (h *httpServerAdapter) Me(ctx context.Context) (models.User, error) {
	resp, err := h.authedRequest(ctx).Get("/auth/me")
	if err != nil {
		return models.User{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	var user models.User
	if err = json.Unmarshal(resp.Body(), &user); err != nil {
		return models.User{}, fmt.Errorf("decode me response: %w", err)
	}

	return user, nil
}

func (h *httpServerAdapter) Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/sync/push")
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResponse{}, err
	}

	var pushResp models.PushResponse
	if err = json.Unmarshal(resp.Body(), &pushResp); err != nil {
		return models.PushResponse{}, fmt.Errorf("decode push response: %w", err)
	}

	return pushResp, nil
}

func (h *httpServerAdapter) Pull(ctx context.Context, since *time.Time) (models.PullResponse, error) {
	req := h.authedRequest(ctx)
	if since != nil {
		req.SetQueryParam("since", since.UTC().Format(time.RFC3339Nano))
	}

	resp, err := req.Get("/sync/pull")
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("pull request: %w", err)
	}

	return decodePullResponse(resp)
}

func (h *httpServerAdapter) Full(ctx context.Context) (models.PullResponse, error) {
	resp, err := h.authedRequest(ctx).Get("/sync/full")
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("full sync request: %w", err)
	}

	return decodePullResponse(resp)
}

func (h *httpServerAdapter) ResolveConflict(ctx context.Context, req models.ResolveConflictRequest) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/sync/resolve-conflict")
	if err != nil {
		return fmt.Errorf("resolve conflict request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Conflicts(ctx context.Context) ([]models.Conflict, error) {
	resp, err := h.authedRequest(ctx).Get("/sync/conflicts")
	if err != nil {
		return nil, fmt.Errorf("conflicts request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var conflicts []models.Conflict
	if err = json.Unmarshal(resp.Body(), &conflicts); err != nil {
		return nil, fmt.Errorf("decode conflicts response: %w", err)
	}

	return conflicts, nil
}

func (h *httpServerAdapter) Health(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)

	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	return req
}

func decodePullResponse(resp *resty.Response) (models.PullResponse, error) {
	if err := mapHTTPError(resp); err != nil {
		return models.PullResponse{}, err
	}

	var pullResp models.PullResponse
	if err := json.Unmarshal(resp.Body(), &pullResp); err != nil {
		return models.PullResponse{}, fmt.Errorf("decode pull response: %w", err)
	}

	return pullResp, nil
}
