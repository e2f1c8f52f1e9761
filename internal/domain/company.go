// Package domain contains core business types and interfaces.
//
// This file defines the Company (tenant) and the pool-service estate it
// manages: properties and the units (pools and spas) at each property.
package domain

import (
	"time"

	"github.com/DukeRupert/poolcheck/internal/compliance"
	"github.com/google/uuid"
)

// Company is a pool-service business. Every property, unit and water test
// belongs to exactly one company, and every query is scoped by it.
type Company struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Property is a site serviced by a company.
type Property struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	Name         string
	AddressLine1 string
	City         string
	State        string
	PostalCode   string
	CreatedAt    time.Time
}

// Unit is a single body of water at a property.
type Unit struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	PropertyID   uuid.UUID
	Name         string
	UnitType     string   // Free-text tag, e.g. "main_spa", "villa_pool"
	WaterType    string   // Stored tag, e.g. "saltwater", "freshwater", "bromine"
	VolumeLitres *float64 // Optional
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Computed fields (not stored in database)
	PropertyName string
}

// RiskCategory returns the compliance risk tier for the unit.
func (u *Unit) RiskCategory() compliance.RiskCategory {
	return compliance.Classify(u.UnitType)
}

// Sanitizer returns the sanitizer chemistry the unit is treated with.
func (u *Unit) Sanitizer() compliance.WaterType {
	return compliance.ParseWaterType(u.WaterType)
}

// Standards returns the standards table that applies to the unit.
func (u *Unit) Standards() compliance.Standards {
	return compliance.StandardsFor(u.RiskCategory(), u.Sanitizer())
}
