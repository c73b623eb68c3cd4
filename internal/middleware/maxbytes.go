package middleware

import "net/http"

// MaxBytes caps the inbound request body at limit bytes. Reads past the
// limit fail, so an oversized multipart upload is rejected during parsing
// rather than buffered in full.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
