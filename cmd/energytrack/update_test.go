package main

import (
	"testing"
	"time"

	"github.com/jgoulah/energytrack/internal/energy"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/stretchr/testify/require"
)

func storedRecord() models.EnergyRecord {
	rec := models.EnergyRecord{
		User: "acme",
		Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Peak: models.PeakWindow{Start: "09:00", End: "17:00", Consumption: 5},
	}
	rec.Sources.Renewable.Solar = models.SourceReading{Consumption: 20, Cost: 0.10}
	rec.Sources.NonRenewable.Grid = models.SourceReading{Consumption: 30, Cost: 0.20}
	rec.Notes = "as entered"
	return rec
}

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestApplyRecordFlags_OnlyGivenFlagsApplied(t *testing.T) {
	stored := storedRecord()

	var flags models.EnergyRecord
	flags.Sources.NonRenewable.Grid.Consumption = 80
	flags.Notes = "meter corrected"
	// Set but not flagged, so it must not leak into the record
	flags.Sources.Renewable.Solar.Consumption = 999

	applyRecordFlags(changedSet("grid", "notes"), &flags, &stored)

	require.InDelta(t, 80, stored.Sources.NonRenewable.Grid.Consumption, 1e-9)
	require.Equal(t, "meter corrected", stored.Notes)
	require.InDelta(t, 20, stored.Sources.Renewable.Solar.Consumption, 1e-9)
	require.InDelta(t, 0.20, stored.Sources.NonRenewable.Grid.Cost, 1e-9)
	require.Equal(t, "09:00", stored.Peak.Start)
	require.InDelta(t, 5, stored.Peak.Consumption, 1e-9)
}

func TestApplyRecordFlags_ZeroValuesStickWhenFlagged(t *testing.T) {
	stored := storedRecord()

	var flags models.EnergyRecord
	applyRecordFlags(changedSet("solar", "peak", "notes"), &flags, &stored)

	require.Zero(t, stored.Sources.Renewable.Solar.Consumption)
	require.Zero(t, stored.Peak.Consumption)
	require.Empty(t, stored.Notes)
	// Untouched fields survive
	require.InDelta(t, 30, stored.Sources.NonRenewable.Grid.Consumption, 1e-9)
}

func TestApplyRecordFlags_PeakWindow(t *testing.T) {
	stored := storedRecord()

	var flags models.EnergyRecord
	flags.Peak.Start = "08:00"
	applyRecordFlags(changedSet("peak-start"), &flags, &stored)

	require.Equal(t, "08:00", stored.Peak.Start)
	require.Equal(t, "17:00", stored.Peak.End)
}

func TestUpdatedRecordIsFullyRederived(t *testing.T) {
	stored, err := energy.Normalize(storedRecord())
	require.NoError(t, err)

	var flags models.EnergyRecord
	flags.Sources.NonRenewable.Grid.Consumption = 80
	applyRecordFlags(changedSet("grid"), &flags, &stored)

	got, err := energy.Normalize(stored)
	require.NoError(t, err)

	require.InDelta(t, 100, got.TotalConsumption, 1e-9)
	require.InDelta(t, 18, got.TotalCost, 1e-9) // 20*0.10 + 80*0.20
	require.InDelta(t, 20, got.RenewablePercentage, 1e-9)
	require.InDelta(t, 40.8, got.CarbonFootprint, 1e-9) // 20*0.04 + 80*0.5
}
