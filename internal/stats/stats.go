package stats

import (
	"sort"
	"time"

	"github.com/jgoulah/energytrack/pkg/models"
)

// Summary aggregates a set of records over a date range
type Summary struct {
	TotalConsumption       float64 `json:"total_consumption"`
	TotalCost              float64 `json:"total_cost"`
	AvgRenewablePercentage float64 `json:"avg_renewable_percentage"`
	TotalCarbonFootprint   float64 `json:"total_carbon_footprint"`
	RecordCount            int     `json:"record_count"`
}

// DayStat is one calendar day's rollup in a trend
type DayStat struct {
	Date                time.Time `json:"date"`
	TotalConsumption    float64   `json:"total_consumption"`
	TotalCost           float64   `json:"total_cost"`
	RenewablePercentage float64   `json:"renewable_percentage"`
	CarbonFootprint     float64   `json:"carbon_footprint"`
}

// Breakdown holds total consumption per energy source
type Breakdown struct {
	Solar     float64 `json:"solar"`
	Wind      float64 `json:"wind"`
	Hydro     float64 `json:"hydro"`
	Other     float64 `json:"other"`
	Grid      float64 `json:"grid"`
	Generator float64 `json:"generator"`
}

// inRange reports whether a record's date falls within [start, end] by
// calendar day, inclusive on both ends
func inRange(rec models.EnergyRecord, start, end time.Time) bool {
	d := day(rec.Date)
	return !d.Before(day(start)) && !d.After(day(end))
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Aggregate rolls up the records within [start, end] into a single summary.
// An empty range yields a zeroed summary, never an error.
func Aggregate(records []models.EnergyRecord, start, end time.Time) Summary {
	var s Summary
	renewableSum := 0.0
	for _, rec := range records {
		if !inRange(rec, start, end) {
			continue
		}
		s.TotalConsumption += rec.TotalConsumption
		s.TotalCost += rec.TotalCost
		s.TotalCarbonFootprint += rec.CarbonFootprint
		renewableSum += rec.RenewablePercentage
		s.RecordCount++
	}
	if s.RecordCount > 0 {
		s.AvgRenewablePercentage = renewableSum / float64(s.RecordCount)
	}
	return s
}

// DailyTrend groups records by calendar day and returns per-day rollups
// ordered ascending by date. Days with no record are absent from the result,
// not zero-filled.
func DailyTrend(records []models.EnergyRecord, start, end time.Time) []DayStat {
	byDay := make(map[time.Time]*DayStat)
	counts := make(map[time.Time]int)
	for _, rec := range records {
		if !inRange(rec, start, end) {
			continue
		}
		d := day(rec.Date)
		stat, ok := byDay[d]
		if !ok {
			stat = &DayStat{Date: d}
			byDay[d] = stat
		}
		stat.TotalConsumption += rec.TotalConsumption
		stat.TotalCost += rec.TotalCost
		stat.CarbonFootprint += rec.CarbonFootprint
		stat.RenewablePercentage += rec.RenewablePercentage
		counts[d]++
	}

	trend := make([]DayStat, 0, len(byDay))
	for d, stat := range byDay {
		stat.RenewablePercentage /= float64(counts[d])
		trend = append(trend, *stat)
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Date.Before(trend[j].Date)
	})
	return trend
}

// SourceBreakdown sums consumption per source across the records in range
func SourceBreakdown(records []models.EnergyRecord, start, end time.Time) Breakdown {
	var b Breakdown
	for _, rec := range records {
		if !inRange(rec, start, end) {
			continue
		}
		b.Solar += rec.Sources.Renewable.Solar.Consumption
		b.Wind += rec.Sources.Renewable.Wind.Consumption
		b.Hydro += rec.Sources.Renewable.Hydro.Consumption
		b.Other += rec.Sources.Renewable.Other.Consumption
		b.Grid += rec.Sources.NonRenewable.Grid.Consumption
		b.Generator += rec.Sources.NonRenewable.Generator.Consumption
	}
	return b
}
