package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/utils"
	"github.com/jbccc/znote/models"
)

func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.push").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var req models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.push").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.services.SyncService.Push(ctx, userID, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.push").Int64("user_id", userID).Msg("error applying push batch")
		http.Error(w, "error applying push batch", statusFromError(err))
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pull").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			log.Err(err).Str("since", raw).Msg("invalid since cursor")
			http.Error(w, "invalid since cursor", http.StatusBadRequest)
			return
		}
		since = &parsed
	}

	resp, err := h.services.SyncService.Pull(ctx, userID, since)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pull").Int64("user_id", userID).Msg("error building pull delta")
		http.Error(w, "error building pull delta", statusFromError(err))
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) full(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.full").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	resp, err := h.services.SyncService.Full(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.full").Int64("user_id", userID).Msg("error building full snapshot")
		http.Error(w, "error building full snapshot", statusFromError(err))
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.resolveConflict").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var req models.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.SyncService.ResolveConflict(ctx, userID, req); err != nil {
		log.Err(err).Str("conflict_id", req.ConflictID).Int64("user_id", userID).Msg("error resolving conflict")
		http.Error(w, "error resolving conflict", statusFromError(err))
		return
	}

	utils.WriteJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func (h *Handler) conflicts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.conflicts").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	conflicts, err := h.services.SyncService.ListConflicts(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.conflicts").Int64("user_id", userID).Msg("error listing conflicts")
		http.Error(w, "error listing conflicts", statusFromError(err))
		return
	}

	utils.WriteJSON(w, conflicts, http.StatusOK)
}
