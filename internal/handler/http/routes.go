// Package http implements the HTTP transport layer of the sync server. It
// provides middleware, route handlers, and request/response utilities for
// the JSON API. Authentication, logging, tracing, compression, and body
// size limiting are handled at this layer before requests reach the
// service layer.
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init constructs and returns a fully configured [chi.Mux] serving the sync
// API.
//
// Every request passes through [middleware.Recoverer], the trace-ID
// middleware, access logging, gzip codec, and the request body cap, in that
// order.
//
// Routes:
//
//	GET  /health                 — liveness probe (public).
//	POST /auth/google            — exchange a Google ID token for a bearer (public).
//	POST /auth/internal          — trusted-source sign-in behind the internal key (public).
//	GET  /auth/me                — validate a persisted bearer token.
//	POST /sync/push              — batched upload with conflict detection.
//	GET  /sync/pull?since=<iso>  — incremental delta, tombstones included.
//	GET  /sync/full              — live dataset for first sign-in or reset.
//	POST /sync/resolve-conflict  — mark a conflict row resolved.
//	GET  /sync/conflicts         — list unresolved conflict rows.
//
// [CheckHTTPMethod] replaces chi's default 405 with 404 so callers cannot
// enumerate supported methods through error codes.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, withLogging, withGZip, h.withBodyLimit)

	router.Get("/health", h.health)

	router.Route("/auth", func(auth chi.Router) {
		// Public endpoints — no bearer token required.
		auth.Post("/google", h.signInGoogle)
		auth.Post("/internal", h.signInInternal)

		auth.With(h.auth).Get("/me", h.me)
	})

	// Replication routes — bearer token required for all endpoints.
	router.Route("/sync", func(sync chi.Router) {
		sync.Use(h.auth)

		sync.Post("/push", h.push)
		sync.Get("/pull", h.pull)
		sync.Get("/full", h.full)
		sync.Post("/resolve-conflict", h.resolveConflict)
		sync.Get("/conflicts", h.conflicts)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
