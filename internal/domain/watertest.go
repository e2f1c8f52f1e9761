// Package domain contains core business types and interfaces.
//
// This file defines the WaterTest domain type: one set of chemistry
// readings taken from a unit during a service visit, together with the
// compliance verdict computed when it was recorded.
package domain

import (
	"time"

	"github.com/DukeRupert/poolcheck/internal/compliance"
	"github.com/google/uuid"
)

// =============================================================================
// WaterTest Domain Type
// =============================================================================

// WaterTest is a recorded water-chemistry test.
//
// AllParametersOK is always derived from the evaluation's overall verdict
// at record time; it is never set independently.
type WaterTest struct {
	ID              uuid.UUID                    // Unique identifier
	CompanyID       uuid.UUID                    // Owning company
	UnitID          uuid.UUID                    // Unit the water was drawn from
	TestedAt        time.Time                    // When the reading was taken
	Readings        compliance.Params            // Raw readings as entered
	Overall         compliance.Status            // Aggregate verdict
	AllParametersOK bool                         // Overall == compliant
	Violations      []compliance.ViolationKey    // Catalog keys of violating parameters
	Results         map[string]compliance.Result // Per-parameter verdicts
	Notes           string                       // Optional technician notes
	CreatedAt       time.Time                    // When the record was stored
}

// HasViolations returns true if any parameter was out of range.
func (w *WaterTest) HasViolations() bool {
	return len(w.Violations) > 0
}

// Remediations returns the full catalog entry for every violation.
func (w *WaterTest) Remediations() map[compliance.ViolationKey]compliance.Recommendation {
	out := make(map[compliance.ViolationKey]compliance.Recommendation, len(w.Violations))
	for _, key := range w.Violations {
		if rec, ok := compliance.Lookup(key); ok {
			out[key] = rec
		}
	}
	return out
}

// =============================================================================
// WaterTest Service Parameters
// =============================================================================

// EvaluateParams contains parameters for a stateless compliance check.
type EvaluateParams struct {
	UnitType  string
	WaterType string
	Readings  compliance.Params
}

// RecordWaterTestParams contains validated parameters for recording a test.
type RecordWaterTestParams struct {
	CompanyID uuid.UUID         // From the authenticated API key
	UnitID    uuid.UUID         // Unit the test was taken from
	TestedAt  time.Time         // Defaults to now when zero
	Readings  compliance.Params // Measured values
	Notes     string            // Optional
}

// ListWaterTestsParams contains parameters for listing a unit's tests.
type ListWaterTestsParams struct {
	CompanyID uuid.UUID
	UnitID    uuid.UUID
	Limit     int32
	Offset    int32
}

// =============================================================================
// List Result with Pagination
// =============================================================================

// ListWaterTestsResult contains one page of water tests, newest first.
type ListWaterTestsResult struct {
	WaterTests []WaterTest
	Total      int64
	Limit      int32
	Offset     int32
}

// HasMore returns true if there are more results available.
func (r *ListWaterTestsResult) HasMore() bool {
	return int64(r.Offset+r.Limit) < r.Total
}

// CurrentPage returns the current page number (1-indexed).
func (r *ListWaterTestsResult) CurrentPage() int {
	if r.Limit == 0 {
		return 1
	}
	return int(r.Offset/r.Limit) + 1
}

// TotalPages returns the total number of pages.
func (r *ListWaterTestsResult) TotalPages() int {
	if r.Limit == 0 {
		return 1
	}
	pages := r.Total / int64(r.Limit)
	if r.Total%int64(r.Limit) > 0 {
		pages++
	}
	return int(pages)
}
