package compliance

import (
	"slices"
	"strings"
)

// ViolationKey identifies a violation type as "<parameter>_low" or
// "<parameter>_high". It is the join key into the recommendation catalog.
type ViolationKey string

const (
	PHLow          ViolationKey = "ph_low"
	PHHigh         ViolationKey = "ph_high"
	ChlorineLow    ViolationKey = "chlorine_low"
	ChlorineHigh   ViolationKey = "chlorine_high"
	BromineLow     ViolationKey = "bromine_low"
	BromineHigh    ViolationKey = "bromine_high"
	AlkalinityLow  ViolationKey = "alkalinity_low"
	AlkalinityHigh ViolationKey = "alkalinity_high"
	TurbidityHigh  ViolationKey = "turbidity_high"
)

// Direction values used when building a key.
const (
	directionLow  = "low"
	directionHigh = "high"
)

func violationKey(parameter, direction string) ViolationKey {
	return ViolationKey(parameter + "_" + direction)
}

// String returns the string representation of the key.
func (k ViolationKey) String() string {
	return string(k)
}

// IsLow reports whether the key describes a reading below its range.
func (k ViolationKey) IsLow() bool {
	return strings.HasSuffix(string(k), "_"+directionLow)
}

// Recommendation is a remediation action for one violation type. Dosages
// are quoted per 10,000 litres of water.
type Recommendation struct {
	Chemical string `json:"chemical"`
	Dosage   string `json:"dosage"`
	Retest   string `json:"retest"`
	Safety   string `json:"safety"`
}

var recommendations = map[ViolationKey]Recommendation{
	PHHigh: {
		Chemical: "pH Minus (Sodium Bisulfate)",
		Dosage:   "100g per 10,000L",
		Retest:   "4-6 hours",
		Safety:   "Pre-dissolve in a bucket of pool water. Always add chemical to water, never water to chemical.",
	},
	PHLow: {
		Chemical: "pH Plus (Soda Ash)",
		Dosage:   "50g per 10,000L",
		Retest:   "4-6 hours",
		Safety:   "Broadcast slowly across the surface with the pump running. Avoid inhaling dust.",
	},
	ChlorineLow: {
		Chemical: "Liquid Chlorine (Sodium Hypochlorite)",
		Dosage:   "150mL per 10,000L",
		Retest:   "2-4 hours",
		Safety:   "Never mix with acid or other chemicals. Wear gloves and eye protection.",
	},
	ChlorineHigh: {
		Chemical: "Chlorine Neutralizer (Sodium Thiosulfate)",
		Dosage:   "50g per 10,000L",
		Retest:   "1-2 hours",
		Safety:   "Close the unit to bathers until chlorine is back in range.",
	},
	AlkalinityLow: {
		Chemical: "Alkalinity Increaser (Sodium Bicarbonate)",
		Dosage:   "150g per 10,000L",
		Retest:   "6 hours",
		Safety:   "Add in doses of no more than 1kg at a time with the pump running.",
	},
	AlkalinityHigh: {
		Chemical: "Muriatic Acid (Hydrochloric Acid)",
		Dosage:   "50mL per 10,000L",
		Retest:   "6 hours",
		Safety:   "Corrosive. Dilute in water before adding, wear gloves and eye protection, and work in a ventilated area.",
	},
	BromineLow: {
		Chemical: "Bromine Tablets (BCDMH)",
		Dosage:   "20g per 10,000L",
		Retest:   "4 hours",
		Safety:   "Use a floater or feeder. Do not place tablets directly in skimmers with other chemicals.",
	},
	BromineHigh: {
		Chemical: "Bromine Neutralizer",
		Dosage:   "30g per 10,000L",
		Retest:   "1-2 hours",
		Safety:   "Close the unit to bathers until bromine is back in range.",
	},
	TurbidityHigh: {
		Chemical: "Clarifier (Aluminum Sulfate)",
		Dosage:   "30mL per 10,000L",
		Retest:   "24 hours",
		Safety:   "Run the filter continuously and backwash once particles settle.",
	},
}

// Lookup returns the catalog entry for a violation key.
func Lookup(key ViolationKey) (Recommendation, bool) {
	r, ok := recommendations[key]
	return r, ok
}

// Recommendations returns a copy of the whole catalog.
func Recommendations() map[ViolationKey]Recommendation {
	out := make(map[ViolationKey]Recommendation, len(recommendations))
	for k, v := range recommendations {
		out[k] = v
	}
	return out
}

// ViolationKeys returns every catalog key in sorted order.
func ViolationKeys() []ViolationKey {
	keys := make([]ViolationKey, 0, len(recommendations))
	for k := range recommendations {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
