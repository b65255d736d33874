// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package http

import "net/http"

// responseWriter is a thin decorator around [http.ResponseWriter] used by
// withLogging to observe the status code and the number of body bytes after
// the downstream handler has returned, without buffering the response.
//
// WriteHeader is forwarded to the underlying writer exactly once;
// subsequent calls are ignored, matching the standard library contract.
type responseWriter struct {
	http.ResponseWriter

	// status is recorded on the first WriteHeader call; zero until then.
	status int

	// wroteHeader guards against forwarding a second WriteHeader.
	wroteHeader bool

	// size is the running total of body bytes written.
	size int
}

// WriteHeader records the status code and forwards it exactly once.
func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write writes b to the underlying writer, implicitly sending a 200 status
// first when WriteHeader has not been called, and accumulates the byte
// count.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}
