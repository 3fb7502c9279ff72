package compression

import (
	"bytes"
	"net/http"
	"strconv"
)

// MinSize is the smallest body worth compressing.
const MinSize = 1024

type bufferedWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bufferedWriter) WriteHeader(status int) {
	w.status = status
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Middleware compresses buffered responses with the first codec the client
// accepts, zstd before gzip. Requests for which skip returns true are passed
// through untouched; use it for streaming endpoints.
func Middleware(skip func(*http.Request) bool, codecs ...Compressor) func(http.Handler) http.Handler {
	if len(codecs) == 0 {
		codecs = []Compressor{ZstdCompressor{}, GzipCompressor{}}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip != nil && skip(r) {
				next.ServeHTTP(w, r)
				return
			}
			codec := Negotiate(r.Header.Get("Accept-Encoding"), codecs...)
			if codec == nil {
				next.ServeHTTP(w, r)
				return
			}

			bw := &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(bw, r)

			w.Header().Add("Vary", "Accept-Encoding")
			body := bw.buf.Bytes()
			if len(body) < MinSize || w.Header().Get("Content-Encoding") != "" {
				writeRaw(w, bw.status, body)
				return
			}

			compressed, err := codec.Compress(body)
			if err != nil {
				writeRaw(w, bw.status, body)
				return
			}
			w.Header().Set("Content-Encoding", codec.Encoding())
			w.Header().Set("Content-Length", strconv.Itoa(len(compressed)))
			w.WriteHeader(bw.status)
			w.Write(compressed)
		})
	}
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}
