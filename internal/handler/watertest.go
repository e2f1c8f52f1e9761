// This file implements handlers for recording and reading water tests.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/DukeRupert/poolcheck/internal/auth"
	"github.com/DukeRupert/poolcheck/internal/compliance"
	"github.com/DukeRupert/poolcheck/internal/domain"
	"github.com/DukeRupert/poolcheck/internal/service"
	"github.com/google/uuid"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// recordWaterTestRequest is the body of POST /api/units/{unitID}/water-tests.
type recordWaterTestRequest struct {
	TestedAt *time.Time      `json:"tested_at"`
	Readings readingsRequest `json:"readings"`
	Notes    string          `json:"notes" validate:"max=2000"`
}

// WaterTestResponse is the JSON representation of a recorded test.
type WaterTestResponse struct {
	ID              uuid.UUID                                             `json:"id"`
	UnitID          uuid.UUID                                             `json:"unit_id"`
	TestedAt        time.Time                                             `json:"tested_at"`
	Readings        compliance.Params                                     `json:"readings"`
	Overall         compliance.Status                                     `json:"overall"`
	AllParametersOK bool                                                  `json:"all_parameters_ok"`
	Violations      []compliance.ViolationKey                             `json:"violations"`
	Results         map[string]compliance.Result                          `json:"results"`
	Remediations    map[compliance.ViolationKey]compliance.Recommendation `json:"remediations"`
	Notes           string                                                `json:"notes,omitempty"`
	CreatedAt       time.Time                                             `json:"created_at"`
}

// WaterTestListResponse is one page of a unit's tests, newest first.
type WaterTestListResponse struct {
	WaterTests []WaterTestResponse `json:"water_tests"`
	Total      int64               `json:"total"`
	Limit      int32               `json:"limit"`
	Offset     int32               `json:"offset"`
	HasMore    bool                `json:"has_more"`
}

func newWaterTestResponse(wt *domain.WaterTest) WaterTestResponse {
	violations := wt.Violations
	if violations == nil {
		violations = []compliance.ViolationKey{}
	}
	return WaterTestResponse{
		ID:              wt.ID,
		UnitID:          wt.UnitID,
		TestedAt:        wt.TestedAt,
		Readings:        wt.Readings,
		Overall:         wt.Overall,
		AllParametersOK: wt.AllParametersOK,
		Violations:      violations,
		Results:         wt.Results,
		Remediations:    wt.Remediations(),
		Notes:           wt.Notes,
		CreatedAt:       wt.CreatedAt,
	}
}

// =============================================================================
// Handler Configuration
// =============================================================================

// WaterTestHandler handles water test HTTP requests.
type WaterTestHandler struct {
	waterTestService service.WaterTestService
	logger           *slog.Logger
}

// NewWaterTestHandler creates a new WaterTestHandler.
func NewWaterTestHandler(waterTestService service.WaterTestService, logger *slog.Logger) *WaterTestHandler {
	return &WaterTestHandler{
		waterTestService: waterTestService,
		logger:           logger,
	}
}

// RegisterRoutes registers all water test routes with the provided mux.
//
// Routes:
// - POST /api/units/{unitID}/water-tests -> Record
// - GET  /api/units/{unitID}/water-tests -> List
// - GET  /api/water-tests/{id}           -> Show
func (h *WaterTestHandler) RegisterRoutes(mux *http.ServeMux, requireCompany func(http.Handler) http.Handler) {
	mux.Handle("POST /api/units/{unitID}/water-tests", requireCompany(http.HandlerFunc(h.Record)))
	mux.Handle("GET /api/units/{unitID}/water-tests", requireCompany(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/water-tests/{id}", requireCompany(http.HandlerFunc(h.Show)))
}

// =============================================================================
// POST /api/units/{unitID}/water-tests
// =============================================================================

// Record evaluates and stores a water test for a unit.
func (h *WaterTestHandler) Record(w http.ResponseWriter, r *http.Request) {
	const op = "water_test.record"

	company := auth.GetCompanyFromRequest(r)
	if company == nil {
		h.logger.Error("record handler called without authenticated company")
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	unitID, ok := h.pathUUID(w, r, op, "unitID")
	if !ok {
		return
	}

	var req recordWaterTestRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateRequest(op, req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	params := domain.RecordWaterTestParams{
		CompanyID: company.ID,
		UnitID:    unitID,
		Readings:  req.Readings.params(),
		Notes:     req.Notes,
	}
	if req.TestedAt != nil {
		params.TestedAt = *req.TestedAt
	}

	waterTest, err := h.waterTestService.Record(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, newWaterTestResponse(waterTest))
}

// =============================================================================
// GET /api/units/{unitID}/water-tests
// =============================================================================

// List returns a page of tests for a unit.
func (h *WaterTestHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "water_test.list"

	company := auth.GetCompanyFromRequest(r)
	if company == nil {
		h.logger.Error("list handler called without authenticated company")
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	unitID, ok := h.pathUUID(w, r, op, "unitID")
	if !ok {
		return
	}

	limit, err := queryInt32(r, "limit")
	if err != nil {
		ValidationErrorResponse(w, r, h.logger, domain.NewValidationError(op, "limit", "must be a number"))
		return
	}
	offset, err := queryInt32(r, "offset")
	if err != nil {
		ValidationErrorResponse(w, r, h.logger, domain.NewValidationError(op, "offset", "must be a number"))
		return
	}

	result, err := h.waterTestService.ListByUnit(r.Context(), domain.ListWaterTestsParams{
		CompanyID: company.ID,
		UnitID:    unitID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := WaterTestListResponse{
		WaterTests: make([]WaterTestResponse, 0, len(result.WaterTests)),
		Total:      result.Total,
		Limit:      result.Limit,
		Offset:     result.Offset,
		HasMore:    result.HasMore(),
	}
	for i := range result.WaterTests {
		resp.WaterTests = append(resp.WaterTests, newWaterTestResponse(&result.WaterTests[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// GET /api/water-tests/{id}
// =============================================================================

// Show returns a single recorded test.
func (h *WaterTestHandler) Show(w http.ResponseWriter, r *http.Request) {
	const op = "water_test.get"

	company := auth.GetCompanyFromRequest(r)
	if company == nil {
		h.logger.Error("show handler called without authenticated company")
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	id, ok := h.pathUUID(w, r, op, "id")
	if !ok {
		return
	}

	waterTest, err := h.waterTestService.GetByID(r.Context(), id, company.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, newWaterTestResponse(waterTest))
}

// =============================================================================
// Helpers
// =============================================================================

// pathUUID parses a UUID path value, writing a 400 response when it is
// malformed.
func (h *WaterTestHandler) pathUUID(w http.ResponseWriter, r *http.Request, op, name string) (uuid.UUID, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Info("invalid path id", "name", name, "value", raw, "error", err)
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt32 parses an optional integer query parameter. Missing values
// are zero; the service applies defaults.
func queryInt32(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
