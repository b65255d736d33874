package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/service"
	"github.com/jbccc/znote/internal/utils"
)

// auth is an HTTP middleware enforcing bearer-token authentication.
//
// It extracts the token from the "Authorization" header, validates it via
// [service.AuthService.ParseToken], and stores the authenticated user's ID
// in the request context under [utils.UserIDCtxKey] before delegating to
// the next handler. Requests with a missing, malformed, expired, or
// otherwise invalid token are rejected with HTTP 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)

		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpired):
				log.Err(err).Msg("token expired")
				http.Error(w, service.ErrTokenIsExpired.Error(), http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during parsing token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		// Store the authenticated user's ID so downstream handlers can
		// retrieve it without re-parsing the token.
		ctx = context.WithValue(ctx, utils.UserIDCtxKey, token.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token from a raw
// "Authorization: <scheme> <token>" header value. Returns
// [ErrInvalidAuthorizationHeader] when the token part is missing and
// [ErrEmptyToken] when it is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
