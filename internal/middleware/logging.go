// middleware/logging.go
package middleware

import (
	"bytes"
	"net/http"
	"time"

	"horizonva/opsdesk/internal/logging"
)

type respLogger struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	l.buf.Write(b)
	return l.ResponseWriter.Write(b)
}

// Logging dumps full request and response bodies. Only mounted in
// development; response payloads can contain pilot PII.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Debug("→ request", "method", r.Method, "url", r.URL.String())

		// wrap response
		buf := &bytes.Buffer{}
		lw := &respLogger{ResponseWriter: w, status: http.StatusOK, buf: buf}

		start := time.Now()
		next.ServeHTTP(lw, r)
		dur := time.Since(start)

		logging.Debug("← response",
			"status", lw.status,
			"status_text", http.StatusText(lw.status),
			"duration", dur.String(),
			"body", buf.String(),
		)
	})
}
