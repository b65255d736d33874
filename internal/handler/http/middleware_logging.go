// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package http

import (
	"net/http"
	"time"

	"github.com/jbccc/znote/internal/logger"
)

// withLogging records a structured access-log entry for every request: raw
// URI, method, status code, wall-clock duration, and response body size.
//
// The entry is emitted at INFO level via the context-scoped logger, so
// withTraceID must run earlier in the chain. A status of 0 means the
// downstream handler never called WriteHeader explicitly.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		// Capture before delegating in case a downstream handler mutates
		// the request.
		uri := r.RequestURI
		method := r.Method

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		duration := time.Since(start)

		log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", lw.status).
			Dur("duration", duration).
			Int("size", lw.size).
			Send()
	})
}
