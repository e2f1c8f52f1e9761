package compliance

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Result is the verdict for a single parameter. Violation, Recommendation,
// Chemical and Dosage are only populated on violation; Chemical repeats
// Recommendation for callers that read either name.
type Result struct {
	Status         Status       `json:"status"`
	Message        string       `json:"message"`
	Violation      ViolationKey `json:"violation,omitempty"`
	Recommendation string       `json:"recommendation,omitempty"`
	Chemical       string       `json:"chemical,omitempty"`
	Dosage         string       `json:"dosage,omitempty"`
}

// ViolationKey returns the catalog key for a violating result, or "" when
// the parameter is compliant.
func (r Result) ViolationKey() ViolationKey {
	if r.Status != StatusViolation {
		return ""
	}
	return r.Violation
}

// check is the single source of truth for parameter thresholds. It returns
// the verdict and, on violation, the catalog key. Comparisons are strict so
// readings equal to a bound are compliant.
func check(parameter string, value float64, s Standards) (Status, ViolationKey) {
	switch parameter {
	case ParamPH:
		return band(parameter, value, At(s.PHMin), At(s.PHMax))
	case ParamChlorine:
		if !s.UsesChlorine() {
			return StatusCompliant, ""
		}
		return band(parameter, value, s.FreeChlorineMin, s.FreeChlorineMax)
	case ParamBromine:
		if !s.UsesBromine() {
			return StatusCompliant, ""
		}
		return band(parameter, value, s.BromineMin, s.BromineMax)
	case ParamAlkalinity:
		return band(parameter, value, At(s.AlkalinityMin), At(s.AlkalinityMax))
	case ParamTurbidity:
		return band(parameter, value, Bound{}, At(s.TurbidityMax))
	}
	return StatusCompliant, ""
}

func band(parameter string, value float64, lo, hi Bound) (Status, ViolationKey) {
	if lo.Set && value < lo.Value {
		return StatusViolation, violationKey(parameter, directionLow)
	}
	if hi.Set && value > hi.Value {
		return StatusViolation, violationKey(parameter, directionHigh)
	}
	return StatusCompliant, ""
}

// RecommendationFor returns the name of the chemical that corrects value
// for parameter, or false if the reading is compliant or the parameter has
// no validator.
func RecommendationFor(parameter string, value float64, s Standards) (string, bool) {
	status, key := check(parameter, value, s)
	if status != StatusViolation {
		return "", false
	}
	rec, ok := recommendations[key]
	if !ok {
		return "", false
	}
	return rec.Chemical, true
}

// ValidatePH checks a pH reading.
func ValidatePH(value float64, s Standards) Result {
	return validate(ParamPH, value, s, At(s.PHMin), At(s.PHMax), "")
}

// ValidateChlorine checks a free-chlorine reading. Tables without a
// chlorine band report compliant.
func ValidateChlorine(value float64, s Standards) Result {
	if !s.UsesChlorine() {
		return notRequired(ParamChlorine)
	}
	return validate(ParamChlorine, value, s, s.FreeChlorineMin, s.FreeChlorineMax, "ppm")
}

// ValidateBromine checks a bromine reading. Both bromine bounds must be
// defined for the check to apply.
func ValidateBromine(value float64, s Standards) Result {
	if !s.UsesBromine() {
		return notRequired(ParamBromine)
	}
	return validate(ParamBromine, value, s, s.BromineMin, s.BromineMax, "ppm")
}

// ValidateAlkalinity checks a total-alkalinity reading.
func ValidateAlkalinity(value float64, s Standards) Result {
	return validate(ParamAlkalinity, value, s, At(s.AlkalinityMin), At(s.AlkalinityMax), "ppm")
}

// ValidateTurbidity checks a turbidity reading against its maximum.
func ValidateTurbidity(value float64, s Standards) Result {
	return validate(ParamTurbidity, value, s, Bound{}, At(s.TurbidityMax), "NTU")
}

func validate(parameter string, value float64, s Standards, lo, hi Bound, unit string) Result {
	name := label(parameter)
	reading := withUnit(value, unit)
	target := targetRange(lo, hi, unit)

	status, key := check(parameter, value, s)
	if status != StatusViolation {
		return Result{
			Status:  StatusCompliant,
			Message: fmt.Sprintf("%s %s is within the target range %s", name, reading, target),
		}
	}

	direction := "above"
	if key.IsLow() {
		direction = "below"
	}
	result := Result{
		Status:    StatusViolation,
		Message:   fmt.Sprintf("%s %s is %s the target range %s", name, reading, direction, target),
		Violation: key,
	}
	if rec, ok := recommendations[key]; ok {
		result.Recommendation = rec.Chemical
		result.Chemical = rec.Chemical
		result.Dosage = rec.Dosage
	}
	return result
}

func notRequired(parameter string) Result {
	return Result{
		Status:  StatusCompliant,
		Message: fmt.Sprintf("%s not required for this water type", label(parameter)),
	}
}

// label returns the display name for a parameter.
func label(parameter string) string {
	if parameter == ParamPH {
		return "pH"
	}
	// A Caser is stateful, so one is built per call.
	return cases.Title(language.English).String(parameter)
}

func withUnit(v float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%g %s", v, unit)
}

func targetRange(lo, hi Bound, unit string) string {
	var r string
	switch {
	case lo.Set && hi.Set:
		r = fmt.Sprintf("%g-%g", lo.Value, hi.Value)
	case lo.Set:
		r = fmt.Sprintf("%g+", lo.Value)
	case hi.Set:
		r = fmt.Sprintf("0-%g", hi.Value)
	}
	if unit != "" {
		r += " " + unit
	}
	return r
}
