// Package middleware contains HTTP middleware for the poolcheck API.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
// They are designed to be composed using a middleware stack approach.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/poolcheck/internal/auth"
	"github.com/DukeRupert/poolcheck/internal/handler"
	"github.com/DukeRupert/poolcheck/internal/service"
)

// =============================================================================
// Auth Middleware Configuration
// =============================================================================

// AuthMiddleware resolves the calling company from its API key.
//
// Create one instance and use its methods as middleware.
type AuthMiddleware struct {
	companyService service.CompanyService
	logger         *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(companyService service.CompanyService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		companyService: companyService,
		logger:         logger,
	}
}

// =============================================================================
// RequireCompany Middleware
// =============================================================================

// RequireCompany is middleware that requires a valid API key.
//
// The key is read from "Authorization: Bearer <key>". On success the
// company is stored in the request context, retrievable with
// auth.GetCompany. Missing or unknown keys get a 401 JSON response.
//
// Flow:
//
//	Request -> RequireCompany -> Handler
//	           |
//	           +-> Read bearer token
//	           +-> Resolve company (401 if missing/unknown)
//	           +-> Set company in context
//	           +-> Call next handler
func (m *AuthMiddleware) RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := bearerToken(r)
		if key == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}

		company, err := m.companyService.GetByAPIKey(r.Context(), key)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
			handler.ErrorResponse(w, r, m.logger, err)
			return
		}

		annotateCompany(r.Context(), company.ID)
		ctx := auth.SetCompany(r.Context(), company)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// =============================================================================
// Middleware Stack Helpers
// =============================================================================

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided, meaning the first middleware
// in the slice is the outermost (runs first on request, last on response).
//
// Example:
//
//	api := Stack(authMw.RequireCompany, companyLimitMw.Limit)
//	mux.Handle("GET /api/water-tests/{id}", api(showHandler))
//
// This is equivalent to:
//
//	mux.Handle("GET /api/water-tests/{id}",
//	    authMw.RequireCompany(companyLimitMw.Limit(showHandler)))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// APIStack returns the middleware guarding every /api/ route. The client IP
// budget is spent first, so requests with missing or unknown keys are
// throttled before the company lookup. Resolved requests then spend their
// company's budget.
func APIStack(ipLimit *RateLimitMiddleware, authMw *AuthMiddleware, companyLimit *RateLimitMiddleware) func(http.Handler) http.Handler {
	return Stack(ipLimit.LimitByIP, authMw.RequireCompany, companyLimit.Limit)
}
