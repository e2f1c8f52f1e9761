package compliance

// Evaluation is the outcome of checking one set of readings.
type Evaluation struct {
	Overall      Status            `json:"overall"`
	RiskCategory RiskCategory      `json:"risk_category"`
	WaterType    WaterType         `json:"water_type"`
	Results      map[string]Result `json:"results"`
}

// Evaluate checks every measured parameter in params against the standards
// for the unit type and water type.
//
// Only measured parameters appear in Results. The sanitizer is chosen by
// water type: bromine water checks bromine and ignores any chlorine
// reading, every other water type checks chlorine and ignores bromine.
// Overall is violation if any result is a violation and compliant
// otherwise, including when nothing was measured.
func Evaluate(params Params, unitType, waterType string) Evaluation {
	category := Classify(unitType)
	water := ParseWaterType(waterType)
	standards := StandardsFor(category, water)

	results := make(map[string]Result)
	if params.PH != nil {
		results[ParamPH] = ValidatePH(*params.PH, standards)
	}
	if water == WaterBromine {
		if params.Bromine != nil {
			results[ParamBromine] = ValidateBromine(*params.Bromine, standards)
		}
	} else if params.Chlorine != nil {
		results[ParamChlorine] = ValidateChlorine(*params.Chlorine, standards)
	}
	if params.Alkalinity != nil {
		results[ParamAlkalinity] = ValidateAlkalinity(*params.Alkalinity, standards)
	}
	if params.Turbidity != nil {
		results[ParamTurbidity] = ValidateTurbidity(*params.Turbidity, standards)
	}

	overall := StatusCompliant
	for _, r := range results {
		if r.Status == StatusViolation {
			overall = StatusViolation
			break
		}
	}

	return Evaluation{
		Overall:      overall,
		RiskCategory: category,
		WaterType:    water,
		Results:      results,
	}
}

// Compliant reports whether no parameter is in violation.
func (e Evaluation) Compliant() bool {
	return e.Overall != StatusViolation
}

// Violations returns the catalog keys of every violating parameter,
// ordered by parameter name.
func (e Evaluation) Violations() []ViolationKey {
	var keys []ViolationKey
	for _, name := range parameterOrder {
		if r, ok := e.Results[name]; ok && r.Status == StatusViolation {
			keys = append(keys, r.ViolationKey())
		}
	}
	return keys
}

// Remediations joins each violating parameter to its full catalog entry,
// including the retest window and safety note.
func (e Evaluation) Remediations() map[string]Recommendation {
	out := make(map[string]Recommendation)
	for name, r := range e.Results {
		if r.Status != StatusViolation {
			continue
		}
		if rec, ok := recommendations[r.ViolationKey()]; ok {
			out[name] = rec
		}
	}
	return out
}

var parameterOrder = []string{ParamAlkalinity, ParamBromine, ParamChlorine, ParamPH, ParamTurbidity}
