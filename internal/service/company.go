// Package service contains the business logic layer.
//
// This file implements API key resolution to the owning company (tenant).
package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/DukeRupert/poolcheck/internal/domain"
	"github.com/DukeRupert/poolcheck/internal/repository"
)

// CompanyService defines the interface for tenant lookups.
type CompanyService interface {
	// GetByAPIKey resolves a raw API key to its company.
	// Returns domain.EUNAUTHORIZED if the key is empty or unknown.
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Company, error)
}

// companyService implements the CompanyService interface.
type companyService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(queries *repository.Queries, logger *slog.Logger) CompanyService {
	return &companyService{
		queries: queries,
		logger:  logger,
	}
}

// GetByAPIKey hashes the key and looks up the company that owns it.
func (s *companyService) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Company, error) {
	const op = "company.get_by_api_key"

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, domain.Unauthorized(op, "API key is required")
	}

	row, err := s.queries.GetCompanyByAPIKeyHash(ctx, HashAPIKey(apiKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Unauthorized(op, "invalid API key")
		}
		return nil, domain.Internal(err, op, "failed to look up API key")
	}

	return &domain.Company{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: domain.NullTimeValue(row.CreatedAt),
	}, nil
}

// HashAPIKey returns the hex SHA-256 of a raw API key. Keys are high-entropy
// random values, so only the hash is stored.
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}
