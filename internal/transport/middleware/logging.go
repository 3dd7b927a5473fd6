package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/workforce-management/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

const (
	// maxLoggedBody caps how much of a body is kept for the log line.
	maxLoggedBody = 4 << 10

	filteredMark     = "[FILTERED]"
	filteredTextMark = "[FILTERED - Contains sensitive data]"
)

// secrets masks header values and JSON fields whose lower-cased name
// contains any of its words.
type secrets []string

var logSecrets = secrets{
	"password", "password_hash", "passwordhash", "pass",
	"token", "access_token", "refresh_token", "authorization",
	"secret", "key", "api_key",
	"session", "credential", "auth",
}

func (s secrets) covers(name string) bool {
	name = strings.ToLower(name)
	for _, word := range s {
		if strings.Contains(name, word) {
			return true
		}
	}
	return false
}

func (s secrets) headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if s.covers(name) {
			out[name] = filteredMark
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// body renders a captured body for logging. JSON is masked field by field;
// anything else is dropped whole when it mentions a secret.
func (s secrets) body(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		if s.covers(string(raw)) {
			return filteredTextMark
		}
		return string(raw)
	}

	masked, err := json.Marshal(s.mask(doc))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return string(masked)
}

func (s secrets) mask(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for k, child := range node {
			if s.covers(k) {
				out[k] = filteredMark
			} else {
				out[k] = s.mask(child)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, child := range node {
			out[i] = s.mask(child)
		}
		return out
	}
	return v
}

// LoggingMiddleware writes one line per request and one per response, with
// secrets masked. Once RequestID has run the request-scoped logger is used,
// so the request id rides along; base covers requests without one.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			ctx := r.Context()

			lg := base
			if _, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
				lg = logger.From(ctx)
			}
			reqID := middleware.GetReqID(ctx)

			lg.Info("incoming request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", logSecrets.headers(r.Header),
				"body", logSecrets.body(peekBody(r)),
			)

			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			status := rw.status()
			lg.Log(ctx, levelFor(status), "response",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(began).Milliseconds(),
				"response_size", rw.size,
				"body", logSecrets.body(rw.captured.Bytes()),
			)
		})
	}
}

// peekBody reads the request body, puts it back for the handler and returns
// at most maxLoggedBody bytes of it.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	raw, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) > maxLoggedBody {
		return raw[:maxLoggedBody]
	}
	return raw
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// responseWriter records the status and size of a response and keeps the
// head of textual bodies.
type responseWriter struct {
	http.ResponseWriter
	code     int
	size     int
	captured bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.code = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.code == 0 {
		rw.code = http.StatusOK
	}
	if isTextual(rw.Header().Get("Content-Type")) {
		rw.keep(b)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) keep(b []byte) {
	room := maxLoggedBody - rw.captured.Len()
	if room <= 0 {
		return
	}
	if len(b) > room {
		b = b[:room]
	}
	rw.captured.Write(b)
}

func (rw *responseWriter) status() int {
	if rw.code == 0 {
		return http.StatusOK
	}
	return rw.code
}

// isTextual reports whether a content type is worth logging. Spreadsheet
// and calendar exports are not.
func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	return strings.HasPrefix(contentType, "application/json") || strings.HasPrefix(contentType, "text/plain")
}
