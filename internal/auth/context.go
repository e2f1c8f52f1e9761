// Package auth provides tenant context helpers.
//
// This package is imported by both middleware and handler packages without
// causing import cycles.
package auth

import (
	"context"
	"net/http"

	"github.com/DukeRupert/poolcheck/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// companyContextKey is the key used to store the authenticated company.
	companyContextKey contextKey = "company"
)

// GetCompany retrieves the authenticated company from the context.
//
// Returns nil if the request was not authenticated.
func GetCompany(ctx context.Context) *domain.Company {
	company, ok := ctx.Value(companyContextKey).(*domain.Company)
	if !ok {
		return nil
	}
	return company
}

// GetCompanyFromRequest retrieves the authenticated company from the request context.
func GetCompanyFromRequest(r *http.Request) *domain.Company {
	return GetCompany(r.Context())
}

// SetCompany stores a company in the context. Called by the API key
// middleware after resolving the key.
func SetCompany(ctx context.Context, company *domain.Company) context.Context {
	return context.WithValue(ctx, companyContextKey, company)
}
