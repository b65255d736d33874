package http

import (
	"net/http"

	"github.com/jbccc/znote/internal/utils"
)

// health is the unauthenticated liveness probe. Clients also use it as the
// reachability signal for their online/offline transitions.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
