package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/service"
	"github.com/jbccc/znote/internal/utils"
	"github.com/jbccc/znote/models"
)

func (h *Handler) signInGoogle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.GoogleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	signIn, err := h.services.AuthService.SignInGoogle(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("google sign-in failed")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
	}

	utils.WriteJSON(w, signIn, http.StatusOK)
}

func (h *Handler) signInInternal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.InternalSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	signIn, err := h.services.AuthService.SignInInternal(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInternalAuthDisabled), errors.Is(err, service.ErrWrongInternalKey):
			log.Err(err).Msg("internal sign-in rejected")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during internal sign-in")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, signIn, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.me").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.Me(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("error getting user")
		http.Error(w, "error getting user", statusFromError(err))
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
