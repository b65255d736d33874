// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// traceIDHeader propagates the trace identifier between client and server.
// Inbound values are reused so an existing trace continues across service
// boundaries; the resolved value is echoed back on the response.
const traceIDHeader = "X-Trace-ID"

// withTraceID attaches a trace ID to every request. When the caller sends
// no "X-Trace-ID" header, a fresh UUID v4 is generated. A child logger with
// the trace_id field permanently attached is stored in the request context
// for retrieval via [logger.FromRequest].
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var traceID string
		if fromHeader := r.Header.Get(traceIDHeader); fromHeader != "" {
			traceID = fromHeader
		} else {
			traceID = uuid.NewString()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})

		r = r.WithContext(l.WithContext(ctx))

		w.Header().Set(traceIDHeader, traceID)

		next.ServeHTTP(w, r)
	})
}
