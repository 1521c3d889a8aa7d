package models

import "time"

// SourceReading holds one energy source's daily consumption and unit cost
type SourceReading struct {
	Consumption float64 `json:"consumption" yaml:"consumption"` // kWh
	Cost        float64 `json:"cost" yaml:"cost"`               // $ per kWh
}

// PeakWindow is the user-declared peak period and its consumption share
type PeakWindow struct {
	Start       string  `json:"start" yaml:"start"` // HH:MM
	End         string  `json:"end" yaml:"end"`     // HH:MM
	Consumption float64 `json:"consumption" yaml:"consumption"` // kWh
}

// RenewableSources groups the renewable source buckets
type RenewableSources struct {
	Solar SourceReading `json:"solar" yaml:"solar"`
	Wind  SourceReading `json:"wind" yaml:"wind"`
	Hydro SourceReading `json:"hydro" yaml:"hydro"`
	Other SourceReading `json:"other" yaml:"other"`
}

// NonRenewableSources groups the non-renewable source buckets
type NonRenewableSources struct {
	Grid      SourceReading `json:"grid" yaml:"grid"`
	Generator SourceReading `json:"generator" yaml:"generator"`
}

// Sources holds all six per-source readings for a day
type Sources struct {
	Renewable    RenewableSources    `json:"renewable" yaml:"renewable"`
	NonRenewable NonRenewableSources `json:"non_renewable" yaml:"non_renewable"`
}

// EnergyRecord represents one user's energy usage for a single calendar date.
// The derived fields (TotalConsumption, TotalCost, RenewablePercentage,
// CarbonFootprint) are never client-authoritative; energy.Normalize recomputes
// them before any persistence.
type EnergyRecord struct {
	ID                 int        `json:"id" yaml:"-"`
	User               string     `json:"user" yaml:"user"`
	Date               time.Time  `json:"date" yaml:"date"`
	Sources            Sources    `json:"sources" yaml:"sources"`
	Peak               PeakWindow `json:"peak" yaml:"peak"`
	OffPeakConsumption float64    `json:"off_peak_consumption" yaml:"off_peak_consumption"`
	Notes              string     `json:"notes,omitempty" yaml:"notes,omitempty"`

	TotalConsumption    float64 `json:"total_consumption" yaml:"-"`
	TotalCost           float64 `json:"total_cost" yaml:"-"`
	RenewablePercentage float64 `json:"renewable_percentage" yaml:"-"`
	CarbonFootprint     float64 `json:"carbon_footprint" yaml:"-"` // kg CO2
}

// RenewableTotal returns the summed consumption of the renewable buckets
func (r *EnergyRecord) RenewableTotal() float64 {
	return r.Sources.Renewable.Solar.Consumption +
		r.Sources.Renewable.Wind.Consumption +
		r.Sources.Renewable.Hydro.Consumption +
		r.Sources.Renewable.Other.Consumption
}

// NonRenewableTotal returns the summed consumption of the non-renewable buckets
func (r *EnergyRecord) NonRenewableTotal() float64 {
	return r.Sources.NonRenewable.Grid.Consumption +
		r.Sources.NonRenewable.Generator.Consumption
}
