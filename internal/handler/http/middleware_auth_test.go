package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/service"
	"github.com/jbccc/znote/internal/utils"
	"github.com/jbccc/znote/models"
)

type mockAuthService struct {
	parseFn func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) SignInGoogle(ctx context.Context, req models.GoogleSignInRequest) (models.SignInResponse, error) {
	return models.SignInResponse{}, nil
}
func (m *mockAuthService) SignInInternal(ctx context.Context, req models.InternalSignInRequest) (models.SignInResponse, error) {
	return models.SignInResponse{}, nil
}
func (m *mockAuthService) Me(ctx context.Context, userID int64) (models.User, error) {
	return models.User{}, nil
}
func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return models.Token{}, nil
}
func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseFn(ctx, tokenString)
}

func newHandlerWithAuthService(auth service.AuthService) *Handler {
	return &Handler{
		services: &service.Services{AuthService: auth},
		logger:   logger.Nop(),
	}
}

func TestAuthMiddleware_Success(t *testing.T) {
	mockAuth := &mockAuthService{
		parseFn: func(ctx context.Context, tokenString string) (models.Token, error) {
			assert.Equal(t, "valid-token", tokenString)
			return models.Token{UserID: 42}, nil
		},
	}
	h := newHandlerWithAuthService(mockAuth)

	var gotUserID int64
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, found = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/sync/pull", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Equal(t, int64(42), gotUserID)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		parseFn func(ctx context.Context, tokenString string) (models.Token, error)
	}{
		{
			name:   "MissingHeader",
			header: "",
		},
		{
			name:   "MalformedHeader",
			header: "Bearer",
		},
		{
			name:   "ExpiredToken",
			header: "Bearer stale",
			parseFn: func(ctx context.Context, tokenString string) (models.Token, error) {
				return models.Token{}, service.ErrTokenIsExpired
			},
		},
		{
			name:   "GarbageToken",
			header: "Bearer garbage",
			parseFn: func(ctx context.Context, tokenString string) (models.Token, error) {
				return models.Token{}, assert.AnError
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandlerWithAuthService(&mockAuthService{parseFn: tc.parseFn})

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodGet, "/sync/pull", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			h.auth(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, nextCalled)
		})
	}
}

func TestGetTokenFromAuthHeader(t *testing.T) {
	token, err := getTokenFromAuthHeader("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = getTokenFromAuthHeader("Bearer")
	assert.ErrorIs(t, err, ErrInvalidAuthorizationHeader)

	_, err = getTokenFromAuthHeader("Bearer ")
	assert.ErrorIs(t, err, ErrEmptyToken)
}
