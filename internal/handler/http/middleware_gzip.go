package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// gzipWriterPool reuses gzip writers across responses to avoid per-request
// allocations. Writers are Reset to the live ResponseWriter before use and
// returned after the body is flushed.
var gzipWriterPool = sync.Pool{
	New: func() any {
		w := gzip.NewWriter(nil)
		return w
	},
}

// gzipReaderPool reuses gzip readers for compressed request bodies.
var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// withGZip transparently decompresses gzip-encoded request bodies and
// compresses response bodies for clients that advertise gzip support.
//
// An invalid gzip request body yields HTTP 400 without calling next. When
// the client does not accept gzip, the response passes through unchanged.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		acceptEncoding := req.Header.Get("Accept-Encoding")
		supportsGzip := strings.Contains(acceptEncoding, "gzip")

		contentEncoding := req.Header.Get("Content-Encoding")
		isGzipRequest := strings.Contains(contentEncoding, "gzip")

		if isGzipRequest && req.Body != nil {
			gzipReader := gzipReaderPool.Get().(*gzip.Reader)
			if err := gzipReader.Reset(req.Body); err != nil {
				gzipReaderPool.Put(gzipReader)
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}

			// Closing the body closes the gzip stream and returns the
			// reader to the pool.
			req.Body = &wrappedReadCloser{
				Reader: gzipReader,
				OnClose: func() {
					gzipReader.Close()
					gzipReaderPool.Put(gzipReader)
				},
			}
			// Downstream handlers see plain data.
			req.Header.Del("Content-Encoding")
		}

		if !supportsGzip {
			next.ServeHTTP(w, req)
			return
		}

		gzipWriter := gzipWriterPool.Get().(*gzip.Writer)

		gzipRW := &gzipResponseWriter{
			ResponseWriter: w,
			gzipWriter:     gzipWriter,
		}

		gzipWriter.Reset(w)

		next.ServeHTTP(gzipRW, req)

		gzipWriter.Close()
		gzipWriterPool.Put(gzipWriter)
	})
}

// wrappedReadCloser combines an [io.Reader] with a close callback, used to
// return pooled gzip readers when the request body is closed.
type wrappedReadCloser struct {
	io.Reader

	// OnClose runs once when Close is invoked.
	OnClose func()
}

// Close invokes the OnClose callback if one is set and always returns nil.
func (w *wrappedReadCloser) Close() error {
	if w.OnClose != nil {
		w.OnClose()
	}
	return nil
}

// gzipResponseWriter compresses the response body through the pooled gzip
// writer while delegating header management to the wrapped ResponseWriter.
type gzipResponseWriter struct {
	http.ResponseWriter

	gzipWriter *gzip.Writer
}

// WriteHeader injects the "Content-Encoding: gzip" header before the
// status line is sent.
func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	w.Header().Set("Content-Encoding", "gzip")
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write compresses data into the underlying gzip stream.
func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzipWriter.Write(data)
}

// Close flushes buffered compressed data; must run after the handler
// returns.
func (w *gzipResponseWriter) Close() error {
	return w.gzipWriter.Close()
}
