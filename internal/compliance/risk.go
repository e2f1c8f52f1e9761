package compliance

import "strings"

// Unit-type tags recognized by the classifier. Spa-like units are high
// risk, pool-like units medium.
var (
	highRiskUnits = map[string]struct{}{
		"main_spa":    {},
		"rooftop_spa": {},
		"plunge_pool": {},
	}

	mediumRiskUnits = map[string]struct{}{
		"main_pool":        {},
		"kids_pool":        {},
		"villa_pool":       {},
		"residential_pool": {},
	}
)

// Classify returns the risk category for a unit-type tag. Tags that are in
// neither known set classify as low; an unrecognized unit type is never
// rejected.
func Classify(unitType string) RiskCategory {
	tag := strings.ToLower(strings.TrimSpace(unitType))
	if _, ok := highRiskUnits[tag]; ok {
		return RiskHigh
	}
	if _, ok := mediumRiskUnits[tag]; ok {
		return RiskMedium
	}
	return RiskLow
}
