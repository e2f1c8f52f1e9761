// Package service contains the business logic layer.
//
// This file implements the water test service: stateless compliance checks
// and recording readings against a unit together with their verdict.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/DukeRupert/poolcheck/internal/compliance"
	"github.com/DukeRupert/poolcheck/internal/domain"
	"github.com/DukeRupert/poolcheck/internal/metrics"
	"github.com/DukeRupert/poolcheck/internal/repository"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const (
	// DefaultListLimit is used when a list request does not set a limit.
	DefaultListLimit int32 = 20

	// MaxListLimit caps the page size for list requests.
	MaxListLimit int32 = 100

	// maxNotesLength bounds technician notes on a recorded test.
	maxNotesLength = 2000

	// maxClockSkew is how far in the future a test timestamp may be.
	maxClockSkew = time.Hour
)

// =============================================================================
// Interface Definition
// =============================================================================

// WaterTestService defines the interface for water test operations.
//
// All persisted operations are scoped by company; a unit or test owned by
// another company is reported as not found.
type WaterTestService interface {
	// Evaluate runs the compliance check without storing anything.
	Evaluate(params domain.EvaluateParams) compliance.Evaluation

	// Record evaluates the readings against the unit's standards and stores
	// the test. The persisted all_parameters_ok flag is the evaluation's
	// overall verdict.
	// Returns domain.EINVALID for validation errors.
	// Returns domain.ENOTFOUND if the unit doesn't exist or belongs to another company.
	Record(ctx context.Context, params domain.RecordWaterTestParams) (*domain.WaterTest, error)

	// GetByID retrieves a recorded test.
	// Returns domain.ENOTFOUND if the test doesn't exist or belongs to another company.
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*domain.WaterTest, error)

	// ListByUnit retrieves a page of tests for a unit, newest first.
	// Returns domain.ENOTFOUND if the unit doesn't exist or belongs to another company.
	ListByUnit(ctx context.Context, params domain.ListWaterTestsParams) (*domain.ListWaterTestsResult, error)
}

// =============================================================================
// Implementation
// =============================================================================

// waterTestService implements the WaterTestService interface.
type waterTestService struct {
	queries *repository.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewWaterTestService creates a new WaterTestService.
//
// Example usage:
//
//	waterTestService := service.NewWaterTestService(repo, logger)
func NewWaterTestService(queries *repository.Queries, logger *slog.Logger) WaterTestService {
	return &waterTestService{
		queries: queries,
		logger:  logger,
		now:     time.Now,
	}
}

// =============================================================================
// Evaluate
// =============================================================================

// Evaluate runs the compliance check for an ad-hoc unit type and water type.
func (s *waterTestService) Evaluate(params domain.EvaluateParams) compliance.Evaluation {
	evaluation := compliance.Evaluate(params.Readings, params.UnitType, params.WaterType)
	metrics.EvaluationCompleted(evaluation)

	s.logger.Debug("water test evaluated",
		"unit_type", params.UnitType,
		"water_type", evaluation.WaterType,
		"risk_category", evaluation.RiskCategory,
		"overall", evaluation.Overall,
	)

	return evaluation
}

// =============================================================================
// Record
// =============================================================================

// Record evaluates and stores a water test for a unit.
func (s *waterTestService) Record(ctx context.Context, params domain.RecordWaterTestParams) (*domain.WaterTest, error) {
	const op = "water_test.record"

	if err := s.validateRecordParams(params); err != nil {
		return nil, err
	}

	// Verify the unit exists and belongs to the company
	unitRow, err := s.queries.GetUnitByIDAndCompanyID(ctx, repository.GetUnitByIDAndCompanyIDParams{
		ID:        params.UnitID,
		CompanyID: params.CompanyID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "unit", params.UnitID.String())
		}
		return nil, domain.Internal(err, op, "failed to get unit")
	}
	unit := rowToUnit(unitRow)

	evaluation := compliance.Evaluate(params.Readings, unit.UnitType, unit.WaterType)

	resultsJSON, err := json.Marshal(evaluation.Results)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode results")
	}

	violations := evaluation.Violations()
	violationTags := make([]string, 0, len(violations))
	for _, key := range violations {
		violationTags = append(violationTags, key.String())
	}

	testedAt := params.TestedAt
	if testedAt.IsZero() {
		testedAt = s.now()
	}

	row, err := s.queries.CreateWaterTest(ctx, repository.CreateWaterTestParams{
		CompanyID:       params.CompanyID,
		UnitID:          unit.ID,
		TestedAt:        testedAt,
		Ph:              domain.ToNullFloat(params.Readings.PH),
		Chlorine:        domain.ToNullFloat(params.Readings.Chlorine),
		Bromine:         domain.ToNullFloat(params.Readings.Bromine),
		Salt:            domain.ToNullFloat(params.Readings.Salt),
		Alkalinity:      domain.ToNullFloat(params.Readings.Alkalinity),
		Calcium:         domain.ToNullFloat(params.Readings.Calcium),
		Cyanuric:        domain.ToNullFloat(params.Readings.Cyanuric),
		Turbidity:       domain.ToNullFloat(params.Readings.Turbidity),
		Temperature:     domain.ToNullFloat(params.Readings.Temperature),
		Overall:         evaluation.Overall.String(),
		AllParametersOk: evaluation.Compliant(),
		Violations:      violationTags,
		Results:         pqtype.NullRawMessage{RawMessage: resultsJSON, Valid: true},
		Notes:           domain.ToNullString(strings.TrimSpace(params.Notes)),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create water test")
	}

	// The row is committed: nothing from here on may fail the request, so
	// the response is built from the evaluation rather than by re-decoding
	// the stored results column.
	waterTest := newWaterTest(row, evaluation.Results, violations)

	metrics.EvaluationCompleted(evaluation)
	metrics.WaterTestRecorded()

	s.logger.Info("water test recorded",
		"water_test_id", waterTest.ID,
		"unit_id", unit.ID,
		"company_id", params.CompanyID,
		"risk_category", evaluation.RiskCategory,
		"overall", evaluation.Overall,
		"violations", violationTags,
	)

	return waterTest, nil
}

// validateRecordParams validates water test recording parameters.
func (s *waterTestService) validateRecordParams(params domain.RecordWaterTestParams) error {
	const op = "water_test.validate"

	if params.UnitID == uuid.Nil {
		return domain.Invalid(op, "unit is required")
	}

	if !hasAnyReading(params.Readings) {
		return domain.Invalid(op, "at least one reading is required")
	}

	if len(strings.TrimSpace(params.Notes)) > maxNotesLength {
		return domain.Invalid(op, "notes must be 2000 characters or less")
	}

	if !params.TestedAt.IsZero() && params.TestedAt.After(s.now().Add(maxClockSkew)) {
		return domain.Invalid(op, "tested_at cannot be in the future")
	}

	return nil
}

func hasAnyReading(p compliance.Params) bool {
	for _, v := range []*float64{p.PH, p.Chlorine, p.Bromine, p.Salt, p.Alkalinity,
		p.Calcium, p.Cyanuric, p.Turbidity, p.Temperature} {
		if v != nil {
			return true
		}
	}
	return false
}

// =============================================================================
// GetByID
// =============================================================================

// GetByID retrieves a recorded water test.
func (s *waterTestService) GetByID(ctx context.Context, id, companyID uuid.UUID) (*domain.WaterTest, error) {
	const op = "water_test.get"

	row, err := s.queries.GetWaterTestByIDAndCompanyID(ctx, repository.GetWaterTestByIDAndCompanyIDParams{
		ID:        id,
		CompanyID: companyID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "water test", id.String())
		}
		return nil, domain.Internal(err, op, "failed to get water test")
	}

	waterTest, err := rowToWaterTest(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode water test")
	}
	return waterTest, nil
}

// =============================================================================
// ListByUnit
// =============================================================================

// ListByUnit retrieves a page of water tests for a unit.
func (s *waterTestService) ListByUnit(ctx context.Context, params domain.ListWaterTestsParams) (*domain.ListWaterTestsResult, error) {
	const op = "water_test.list"

	if params.Limit <= 0 {
		params.Limit = DefaultListLimit
	}
	if params.Limit > MaxListLimit {
		params.Limit = MaxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	// Verify the unit belongs to the company
	_, err := s.queries.GetUnitByIDAndCompanyID(ctx, repository.GetUnitByIDAndCompanyIDParams{
		ID:        params.UnitID,
		CompanyID: params.CompanyID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "unit", params.UnitID.String())
		}
		return nil, domain.Internal(err, op, "failed to get unit")
	}

	total, err := s.queries.CountWaterTestsByUnitID(ctx, repository.CountWaterTestsByUnitIDParams{
		UnitID:    params.UnitID,
		CompanyID: params.CompanyID,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count water tests")
	}

	rows, err := s.queries.ListWaterTestsByUnitID(ctx, repository.ListWaterTestsByUnitIDParams{
		UnitID:    params.UnitID,
		CompanyID: params.CompanyID,
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list water tests")
	}

	waterTests := make([]domain.WaterTest, 0, len(rows))
	for _, row := range rows {
		wt, err := rowToWaterTest(row)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to decode water test")
		}
		waterTests = append(waterTests, *wt)
	}

	return &domain.ListWaterTestsResult{
		WaterTests: waterTests,
		Total:      total,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}, nil
}

// =============================================================================
// Helper Functions
// =============================================================================

// rowToUnit converts a repository unit row to a domain Unit.
func rowToUnit(row repository.GetUnitByIDAndCompanyIDRow) *domain.Unit {
	return &domain.Unit{
		ID:           row.ID,
		CompanyID:    row.CompanyID,
		PropertyID:   row.PropertyID,
		Name:         row.Name,
		UnitType:     row.UnitType,
		WaterType:    row.WaterType,
		VolumeLitres: domain.NullFloatPtr(row.VolumeLitres),
		CreatedAt:    domain.NullTimeValue(row.CreatedAt),
		UpdatedAt:    domain.NullTimeValue(row.UpdatedAt),
		PropertyName: row.PropertyName,
	}
}

// rowToWaterTest converts a stored water test row to a domain WaterTest,
// decoding its results column.
func rowToWaterTest(row repository.WaterTest) (*domain.WaterTest, error) {
	results := map[string]compliance.Result{}
	if row.Results.Valid && len(row.Results.RawMessage) > 0 {
		if err := json.Unmarshal(row.Results.RawMessage, &results); err != nil {
			return nil, err
		}
	}

	violations := make([]compliance.ViolationKey, 0, len(row.Violations))
	for _, v := range row.Violations {
		violations = append(violations, compliance.ViolationKey(v))
	}

	return newWaterTest(row, results, violations), nil
}

func newWaterTest(row repository.WaterTest, results map[string]compliance.Result, violations []compliance.ViolationKey) *domain.WaterTest {
	if violations == nil {
		violations = []compliance.ViolationKey{}
	}

	return &domain.WaterTest{
		ID:        row.ID,
		CompanyID: row.CompanyID,
		UnitID:    row.UnitID,
		TestedAt:  row.TestedAt,
		Readings: compliance.Params{
			PH:          domain.NullFloatPtr(row.Ph),
			Chlorine:    domain.NullFloatPtr(row.Chlorine),
			Bromine:     domain.NullFloatPtr(row.Bromine),
			Salt:        domain.NullFloatPtr(row.Salt),
			Alkalinity:  domain.NullFloatPtr(row.Alkalinity),
			Calcium:     domain.NullFloatPtr(row.Calcium),
			Cyanuric:    domain.NullFloatPtr(row.Cyanuric),
			Turbidity:   domain.NullFloatPtr(row.Turbidity),
			Temperature: domain.NullFloatPtr(row.Temperature),
		},
		Overall:         compliance.Status(row.Overall),
		AllParametersOK: row.AllParametersOk,
		Violations:      violations,
		Results:         results,
		Notes:           domain.NullStringValue(row.Notes),
		CreatedAt:       domain.NullTimeValue(row.CreatedAt),
	}
}
