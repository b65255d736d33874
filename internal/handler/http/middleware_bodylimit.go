package http

import "net/http"

// withBodyLimit caps the size of accepted request bodies. Oversized reads
// fail inside the handler's decoder with a *http.MaxBytesError, surfacing
// as a 400 at the JSON boundary.
func (h *Handler) withBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.maxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
		}

		next.ServeHTTP(w, r)
	})
}
