package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestLoggingMiddleware writes one structured line per API request.
type RequestLoggingMiddleware struct {
	logger     *slog.Logger
	trustProxy bool
}

// NewRequestLoggingMiddleware creates a new request logging middleware.
// trustProxy has the same meaning as for NewRateLimitMiddleware.
func NewRequestLoggingMiddleware(logger *slog.Logger, trustProxy bool) *RequestLoggingMiddleware {
	return &RequestLoggingMiddleware{
		logger:     logger,
		trustProxy: trustProxy,
	}
}

// Health checks and scrapes run every few seconds.
var unloggedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Query parameters whose values never reach the log. Clients that cannot set
// headers sometimes pass the API key in the query string.
var redactedParams = map[string]bool{
	"api_key":      true,
	"apikey":       true,
	"key":          true,
	"token":        true,
	"access_token": true,
}

// requestLog carries fields that inner middleware learns after the logging
// middleware has already handed the request on.
type requestLog struct {
	companyID string
}

type requestLogKey struct{}

// annotateCompany attaches the resolved tenant to the request's log line.
// It is a no-op outside RequestLoggingMiddleware.
func annotateCompany(ctx context.Context, companyID uuid.UUID) {
	if entry, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		entry.companyID = companyID.String()
	}
}

// Handler returns middleware that logs every request except health checks
// and scrapes. It replaces the request context, so it must wrap anything
// that reads state the mux writes back onto the request (metrics.Middleware).
func (m *RequestLoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unloggedPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		entry := &requestLog{}
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), requestLogKey{}, entry)))

		attrs := []any{
			"method", r.Method,
			"path", redactQuery(r.URL.Path, r.URL.RawQuery),
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", clientIP(r, m.trustProxy),
			"auth", authScheme(r),
			"user_agent", r.UserAgent(),
		}
		if entry.companyID != "" {
			attrs = append(attrs, "company_id", entry.companyID)
		}

		switch {
		case wrapped.statusCode >= 500:
			m.logger.Error("request", attrs...)
		case wrapped.statusCode == http.StatusUnauthorized || wrapped.statusCode == http.StatusTooManyRequests:
			m.logger.Warn("request", attrs...)
		default:
			m.logger.Info("request", attrs...)
		}
	})
}

// authScheme names the Authorization scheme without ever echoing the
// credential: "bearer", "basic", "other" or "none".
func authScheme(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "none"
	}
	scheme, _, _ := strings.Cut(header, " ")
	switch strings.ToLower(scheme) {
	case "bearer":
		return "bearer"
	case "basic":
		return "basic"
	default:
		return "other"
	}
}

// redactQuery returns the path with credential-bearing query values replaced.
// An unparseable query is dropped rather than logged raw.
func redactQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path + "?[unparseable]"
	}
	for name := range values {
		if redactedParams[strings.ToLower(name)] {
			values[name] = []string{"REDACTED"}
		}
	}
	return path + "?" + values.Encode()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
