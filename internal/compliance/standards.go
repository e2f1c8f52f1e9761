package compliance

import "fmt"

// Standards is the table of acceptable ranges for one risk category or
// sanitizer chemistry. Bounds are inclusive.
type Standards struct {
	PHMin               float64 `json:"ph_min"`
	PHMax               float64 `json:"ph_max"`
	FreeChlorineMin     Bound   `json:"free_chlorine_min"`
	FreeChlorineMax     Bound   `json:"free_chlorine_max"`
	BromineMin          Bound   `json:"bromine_min"`
	BromineMax          Bound   `json:"bromine_max"`
	CombinedChlorineMax Bound   `json:"combined_chlorine_max"`
	AlkalinityMin       float64 `json:"alkalinity_min"`
	AlkalinityMax       float64 `json:"alkalinity_max"`
	TurbidityMax        float64 `json:"turbidity_max"`
	CyanuricAcidMax     Bound   `json:"cyanuric_acid_max"`
}

// UsesChlorine reports whether the table defines a free-chlorine band.
func (s Standards) UsesChlorine() bool {
	return s.FreeChlorineMin.Set
}

// UsesBromine reports whether the table defines a complete bromine band.
func (s Standards) UsesBromine() bool {
	return s.BromineMin.Set && s.BromineMax.Set
}

// Validate checks that every bound pair present has min <= max.
func (s Standards) Validate() error {
	if s.PHMin > s.PHMax {
		return fmt.Errorf("ph_min %g exceeds ph_max %g", s.PHMin, s.PHMax)
	}
	if s.FreeChlorineMin.Set && s.FreeChlorineMax.Set && s.FreeChlorineMin.Value > s.FreeChlorineMax.Value {
		return fmt.Errorf("free_chlorine_min %g exceeds free_chlorine_max %g", s.FreeChlorineMin.Value, s.FreeChlorineMax.Value)
	}
	if s.BromineMin.Set && s.BromineMax.Set && s.BromineMin.Value > s.BromineMax.Value {
		return fmt.Errorf("bromine_min %g exceeds bromine_max %g", s.BromineMin.Value, s.BromineMax.Value)
	}
	if s.AlkalinityMin > s.AlkalinityMax {
		return fmt.Errorf("alkalinity_min %g exceeds alkalinity_max %g", s.AlkalinityMin, s.AlkalinityMax)
	}
	return nil
}

// chlorineStandards holds one row per risk category. The rows currently
// carry the same values; differentiating them is a data change here.
var chlorineStandards = map[RiskCategory]Standards{
	RiskHigh: {
		PHMin:               7.2,
		PHMax:               7.8,
		FreeChlorineMin:     At(1.0),
		FreeChlorineMax:     At(3.0),
		CombinedChlorineMax: At(1.0),
		AlkalinityMin:       80,
		AlkalinityMax:       150,
		TurbidityMax:        0.5,
		CyanuricAcidMax:     At(100),
	},
	RiskMedium: {
		PHMin:               7.2,
		PHMax:               7.8,
		FreeChlorineMin:     At(1.0),
		FreeChlorineMax:     At(3.0),
		CombinedChlorineMax: At(1.0),
		AlkalinityMin:       80,
		AlkalinityMax:       150,
		TurbidityMax:        0.5,
		CyanuricAcidMax:     At(100),
	},
	RiskLow: {
		PHMin:               7.2,
		PHMax:               7.8,
		FreeChlorineMin:     At(1.0),
		FreeChlorineMax:     At(3.0),
		CombinedChlorineMax: At(1.0),
		AlkalinityMin:       80,
		AlkalinityMax:       150,
		TurbidityMax:        0.5,
		CyanuricAcidMax:     At(100),
	},
}

// bromineStandards applies to every bromine-treated unit regardless of
// risk category.
var bromineStandards = Standards{
	PHMin:         7.2,
	PHMax:         7.8,
	BromineMin:    At(3.0),
	BromineMax:    At(6.0),
	AlkalinityMin: 80,
	AlkalinityMax: 120,
	TurbidityMax:  0.5,
}

// StandardsFor returns the standards table for a risk category and water
// type. Bromine water always gets the bromine table. An unrecognized
// category falls back to the low-risk row.
func StandardsFor(category RiskCategory, water WaterType) Standards {
	if water == WaterBromine {
		return bromineStandards
	}
	if s, ok := chlorineStandards[category]; ok {
		return s
	}
	return chlorineStandards[RiskLow]
}
