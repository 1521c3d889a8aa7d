package energy_test

import (
	"testing"
	"time"

	"github.com/jgoulah/energytrack/internal/energy"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/stretchr/testify/require"
)

func baseRecord() models.EnergyRecord {
	return models.EnergyRecord{
		User: "acme",
		Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Peak: models.PeakWindow{Start: "09:00", End: "17:00"},
	}
}

func TestNormalize_DerivesTotals(t *testing.T) {
	rec := baseRecord()
	rec.Sources.Renewable.Solar = models.SourceReading{Consumption: 20, Cost: 0.10}
	rec.Sources.NonRenewable.Grid = models.SourceReading{Consumption: 30, Cost: 0.20}

	got, err := energy.Normalize(rec)
	require.NoError(t, err)

	require.InDelta(t, 50, got.TotalConsumption, 1e-9)
	require.InDelta(t, 8, got.TotalCost, 1e-9) // 20*0.10 + 30*0.20
	require.InDelta(t, 40, got.RenewablePercentage, 1e-9)
	require.InDelta(t, 15.8, got.CarbonFootprint, 1e-9) // 20*0.04 + 30*0.5
}

func TestNormalize_AllSixSourcesCounted(t *testing.T) {
	rec := baseRecord()
	rec.Sources.Renewable.Solar = models.SourceReading{Consumption: 1, Cost: 1}
	rec.Sources.Renewable.Wind = models.SourceReading{Consumption: 2, Cost: 1}
	rec.Sources.Renewable.Hydro = models.SourceReading{Consumption: 3, Cost: 1}
	rec.Sources.Renewable.Other = models.SourceReading{Consumption: 4, Cost: 1}
	rec.Sources.NonRenewable.Grid = models.SourceReading{Consumption: 5, Cost: 1}
	rec.Sources.NonRenewable.Generator = models.SourceReading{Consumption: 6, Cost: 1}

	got, err := energy.Normalize(rec)
	require.NoError(t, err)

	require.InDelta(t, 21, got.TotalConsumption, 1e-9)
	require.InDelta(t, 21, got.TotalCost, 1e-9)
	// renewable 10 of 21 -> 47.6 rounds to 48
	require.InDelta(t, 48, got.RenewablePercentage, 1e-9)
}

func TestNormalize_Idempotent(t *testing.T) {
	rec := baseRecord()
	rec.Sources.Renewable.Wind = models.SourceReading{Consumption: 12.5, Cost: 0.08}
	rec.Sources.NonRenewable.Generator = models.SourceReading{Consumption: 7.25, Cost: 0.31}

	once, err := energy.Normalize(rec)
	require.NoError(t, err)
	twice, err := energy.Normalize(once)
	require.NoError(t, err)

	require.Equal(t, once, twice)
}

func TestNormalize_IgnoresClientSuppliedDerivedFields(t *testing.T) {
	rec := baseRecord()
	rec.Sources.NonRenewable.Grid = models.SourceReading{Consumption: 10, Cost: 0.10}
	rec.TotalConsumption = 9999
	rec.TotalCost = 9999
	rec.RenewablePercentage = 100
	rec.CarbonFootprint = -5

	got, err := energy.Normalize(rec)
	require.NoError(t, err)

	require.InDelta(t, 10, got.TotalConsumption, 1e-9)
	require.InDelta(t, 1, got.TotalCost, 1e-9)
	require.InDelta(t, 0, got.RenewablePercentage, 1e-9)
	require.InDelta(t, 5, got.CarbonFootprint, 1e-9)
}

func TestNormalize_ZeroConsumption(t *testing.T) {
	got, err := energy.Normalize(baseRecord())
	require.NoError(t, err)

	require.Zero(t, got.TotalConsumption)
	require.Zero(t, got.TotalCost)
	require.Zero(t, got.RenewablePercentage)
	require.Zero(t, got.CarbonFootprint)
}

func TestNormalize_PercentageBounds(t *testing.T) {
	rec := baseRecord()
	rec.Sources.Renewable.Hydro = models.SourceReading{Consumption: 42, Cost: 0.05}

	got, err := energy.Normalize(rec)
	require.NoError(t, err)
	require.InDelta(t, 100, got.RenewablePercentage, 1e-9)
}

func TestNormalize_RejectsNegativeConsumption(t *testing.T) {
	rec := baseRecord()
	rec.Sources.Renewable.Solar.Consumption = -1

	_, err := energy.Normalize(rec)
	var verr *energy.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "solar", verr.Field)
}

func TestNormalize_RejectsNegativeCost(t *testing.T) {
	rec := baseRecord()
	rec.Sources.NonRenewable.Generator.Cost = -0.10

	_, err := energy.Normalize(rec)
	var verr *energy.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "generator", verr.Field)
}

func TestNormalize_RejectsNegativePeak(t *testing.T) {
	rec := baseRecord()
	rec.Peak.Consumption = -3

	_, err := energy.Normalize(rec)
	var verr *energy.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNormalize_RequiresDate(t *testing.T) {
	rec := baseRecord()
	rec.Date = time.Time{}

	_, err := energy.Normalize(rec)
	var verr *energy.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "date", verr.Field)
}
