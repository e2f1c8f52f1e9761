// Package handler contains HTTP handlers for the poolcheck API.
//
// This file exposes the compliance engine directly: the standards table for
// a unit type, the recommendation catalog, and a stateless evaluation of a
// set of readings.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/poolcheck/internal/compliance"
	"github.com/DukeRupert/poolcheck/internal/domain"
	"github.com/DukeRupert/poolcheck/internal/service"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// evaluateRequest is the body of POST /api/compliance/evaluate.
type evaluateRequest struct {
	UnitType  string          `json:"unit_type" validate:"required,max=100"`
	WaterType string          `json:"water_type" validate:"max=50"`
	Readings  readingsRequest `json:"readings"`
}

// EvaluateResponse is an evaluation plus the full catalog entry for every
// violation, keyed by parameter.
type EvaluateResponse struct {
	compliance.Evaluation
	Remediations map[string]compliance.Recommendation `json:"remediations"`
}

// StandardsResponse describes the thresholds that apply to a unit type.
type StandardsResponse struct {
	UnitType     string                  `json:"unit_type"`
	RiskCategory compliance.RiskCategory `json:"risk_category"`
	WaterType    compliance.WaterType    `json:"water_type"`
	Standards    compliance.Standards    `json:"standards"`
}

// RecommendationsResponse is the remediation catalog.
type RecommendationsResponse struct {
	Recommendations map[compliance.ViolationKey]compliance.Recommendation `json:"recommendations"`
}

// =============================================================================
// Handler Configuration
// =============================================================================

// ComplianceHandler handles compliance lookups and previews.
type ComplianceHandler struct {
	waterTestService service.WaterTestService
	logger           *slog.Logger
}

// NewComplianceHandler creates a new ComplianceHandler.
func NewComplianceHandler(waterTestService service.WaterTestService, logger *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{
		waterTestService: waterTestService,
		logger:           logger,
	}
}

// RegisterRoutes registers all compliance routes with the provided mux.
//
// Routes:
// - GET  /api/compliance/standards       -> Standards
// - GET  /api/compliance/recommendations -> Recommendations
// - POST /api/compliance/evaluate        -> Evaluate
func (h *ComplianceHandler) RegisterRoutes(mux *http.ServeMux, requireCompany func(http.Handler) http.Handler) {
	mux.Handle("GET /api/compliance/standards", requireCompany(http.HandlerFunc(h.Standards)))
	mux.Handle("GET /api/compliance/recommendations", requireCompany(http.HandlerFunc(h.Recommendations)))
	mux.Handle("POST /api/compliance/evaluate", requireCompany(http.HandlerFunc(h.Evaluate)))
}

// =============================================================================
// GET /api/compliance/standards
// =============================================================================

// Standards returns the risk category and thresholds for a unit type.
func (h *ComplianceHandler) Standards(w http.ResponseWriter, r *http.Request) {
	const op = "compliance.standards"

	unitType := strings.TrimSpace(r.URL.Query().Get("unit_type"))
	if unitType == "" {
		ValidationErrorResponse(w, r, h.logger, domain.NewValidationError(op, "unit_type", "is required"))
		return
	}

	category := compliance.Classify(unitType)
	water := compliance.ParseWaterType(r.URL.Query().Get("water_type"))

	writeJSON(w, http.StatusOK, StandardsResponse{
		UnitType:     unitType,
		RiskCategory: category,
		WaterType:    water,
		Standards:    compliance.StandardsFor(category, water),
	})
}

// =============================================================================
// GET /api/compliance/recommendations
// =============================================================================

// Recommendations returns the full remediation catalog.
func (h *ComplianceHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RecommendationsResponse{
		Recommendations: compliance.Recommendations(),
	})
}

// =============================================================================
// POST /api/compliance/evaluate
// =============================================================================

// Evaluate checks a set of readings without storing them.
func (h *ComplianceHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	const op = "compliance.evaluate"

	var req evaluateRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateRequest(op, req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	evaluation := h.waterTestService.Evaluate(domain.EvaluateParams{
		UnitType:  req.UnitType,
		WaterType: req.WaterType,
		Readings:  req.Readings.params(),
	})

	writeJSON(w, http.StatusOK, EvaluateResponse{
		Evaluation:   evaluation,
		Remediations: evaluation.Remediations(),
	})
}
