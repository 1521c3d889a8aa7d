package energy

import (
	"fmt"
	"math"

	"github.com/jgoulah/energytrack/pkg/models"
)

// Emission factors in kg CO2 per kWh
const (
	FactorSolar     = 0.04
	FactorWind      = 0.01
	FactorHydro     = 0.02
	FactorOther     = 0.03
	FactorGrid      = 0.50
	FactorGenerator = 0.80
)

// ValidationError describes a rejected raw record field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Normalize validates a raw record and recomputes every derived field: total
// consumption, total cost, renewable percentage, and carbon footprint. Any
// client-supplied values for those fields are discarded. The input is not
// modified; callers persist the returned record.
func Normalize(rec models.EnergyRecord) (models.EnergyRecord, error) {
	if rec.Date.IsZero() {
		return models.EnergyRecord{}, &ValidationError{Field: "date", Message: "date is required"}
	}

	readings := []struct {
		field   string
		reading models.SourceReading
	}{
		{"solar", rec.Sources.Renewable.Solar},
		{"wind", rec.Sources.Renewable.Wind},
		{"hydro", rec.Sources.Renewable.Hydro},
		{"other", rec.Sources.Renewable.Other},
		{"grid", rec.Sources.NonRenewable.Grid},
		{"generator", rec.Sources.NonRenewable.Generator},
	}

	totalCost := 0.0
	for _, r := range readings {
		if r.reading.Consumption < 0 {
			return models.EnergyRecord{}, &ValidationError{Field: r.field, Message: "consumption cannot be negative"}
		}
		if r.reading.Cost < 0 {
			return models.EnergyRecord{}, &ValidationError{Field: r.field, Message: "cost cannot be negative"}
		}
		totalCost += r.reading.Consumption * r.reading.Cost
	}

	if rec.Peak.Consumption < 0 {
		return models.EnergyRecord{}, &ValidationError{Field: "peak", Message: "consumption cannot be negative"}
	}
	if rec.OffPeakConsumption < 0 {
		return models.EnergyRecord{}, &ValidationError{Field: "off_peak", Message: "consumption cannot be negative"}
	}

	renewable := rec.RenewableTotal()
	total := renewable + rec.NonRenewableTotal()

	rec.TotalConsumption = total
	rec.TotalCost = totalCost
	if total > 0 {
		rec.RenewablePercentage = math.Round(renewable / total * 100)
	} else {
		rec.RenewablePercentage = 0
	}
	rec.CarbonFootprint = rec.Sources.Renewable.Solar.Consumption*FactorSolar +
		rec.Sources.Renewable.Wind.Consumption*FactorWind +
		rec.Sources.Renewable.Hydro.Consumption*FactorHydro +
		rec.Sources.Renewable.Other.Consumption*FactorOther +
		rec.Sources.NonRenewable.Grid.Consumption*FactorGrid +
		rec.Sources.NonRenewable.Generator.Consumption*FactorGenerator

	return rec, nil
}
