// Package compliance evaluates pool and spa water-chemistry readings against
// the standards for a unit's risk category and sanitizer chemistry.
//
// Everything in this package is pure: no I/O, no shared mutable state. The
// standards and recommendation catalogs are built once at package
// initialization and only ever copied out, so any number of goroutines may
// call Evaluate concurrently.
//
// The evaluator is advisory and fails open. Unknown unit types classify as
// low risk, unknown water types are treated as chlorine, and a parameter
// with no applicable bounds is reported compliant with an explanatory
// message. No function in this package returns an error.
package compliance

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// Risk Category
// =============================================================================

// RiskCategory is the stringency tier derived from how a unit is used.
type RiskCategory string

const (
	RiskLow    RiskCategory = "low"
	RiskMedium RiskCategory = "medium"
	RiskHigh   RiskCategory = "high"
)

// String returns the string representation of the category.
func (c RiskCategory) String() string {
	return string(c)
}

// IsValid returns true if the category is a recognized value.
func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// =============================================================================
// Water Type
// =============================================================================

// WaterType is the sanitizer chemistry a unit is treated with.
type WaterType string

const (
	WaterChlorine WaterType = "chlorine"
	WaterBromine  WaterType = "bromine"
)

// ParseWaterType maps a stored water-type tag onto a sanitizer chemistry.
//
// Only "bromine" selects bromine. Saltwater and freshwater pools are both
// free-chlorine pools, and any other value falls back to chlorine.
func ParseWaterType(s string) WaterType {
	if strings.EqualFold(strings.TrimSpace(s), string(WaterBromine)) {
		return WaterBromine
	}
	return WaterChlorine
}

// String returns the string representation of the water type.
func (w WaterType) String() string {
	return string(w)
}

// =============================================================================
// Status
// =============================================================================

// Status is the verdict for a single parameter or a whole test.
type Status string

const (
	StatusCompliant Status = "compliant"

	// StatusWarning is part of the public result vocabulary but no
	// validator currently produces it.
	StatusWarning Status = "warning"

	StatusViolation Status = "violation"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s Status) IsValid() bool {
	switch s {
	case StatusCompliant, StatusWarning, StatusViolation:
		return true
	}
	return false
}

// =============================================================================
// Parameters
// =============================================================================

// Parameter names used as keys in Evaluation.Results and in violation keys.
const (
	ParamPH         = "ph"
	ParamChlorine   = "chlorine"
	ParamBromine    = "bromine"
	ParamAlkalinity = "alkalinity"
	ParamTurbidity  = "turbidity"
)

// Params is one set of readings taken from a unit. A nil field was not
// measured and is skipped during evaluation.
type Params struct {
	PH          *float64 `json:"ph,omitempty"`
	Chlorine    *float64 `json:"chlorine,omitempty"`
	Bromine     *float64 `json:"bromine,omitempty"`
	Salt        *float64 `json:"salt,omitempty"`
	Alkalinity  *float64 `json:"alkalinity,omitempty"`
	Calcium     *float64 `json:"calcium,omitempty"`
	Cyanuric    *float64 `json:"cyanuric,omitempty"`
	Turbidity   *float64 `json:"turbidity,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Float returns a pointer to v. It keeps literal readings short in callers
// and tests.
func Float(v float64) *float64 {
	return &v
}

// =============================================================================
// Bound
// =============================================================================

// Bound is an optional limit in a standards table.
type Bound struct {
	Value float64
	Set   bool
}

// At returns a bound set to v.
func At(v float64) Bound {
	return Bound{Value: v, Set: true}
}

// MarshalJSON renders an unset bound as null.
func (b Bound) MarshalJSON() ([]byte, error) {
	if !b.Set {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value)
}

// UnmarshalJSON accepts a number or null.
func (b *Bound) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = Bound{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = At(v)
	return nil
}
