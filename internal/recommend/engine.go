package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/jgoulah/energytrack/pkg/models"
)

// Analysis thresholds and assumptions
const (
	renewableTriggerPct  = 50   // recommend a better mix below this average
	renewableHighPct     = 30   // high priority below this average
	renewableTargetStep  = 20   // suggested improvement in percentage points
	renewableTargetCap   = 70   // never suggest beyond this
	costTriggerPerKwh    = 0.15 // $ per kWh
	carbonTriggerDaily   = 50   // kg CO2 per day
	carbonHighDaily      = 100  // high priority above this
	peakShareTriggerPct  = 60   // percent of usage during peak hours
	peakRatePerKwh       = 0.20 // assumed peak rate $ per kWh
	peakShiftableFrac    = 0.3  // fraction of peak usage assumed shiftable
	costSavingsFrac      = 0.15 // assumed savings on total cost
	efficiencyGainFrac   = 0.10 // assumed efficiency gain on consumption
	mixCostFracPerPoint  = 0.2  // cost reduction per renewable improvement
	mixCarbonFracPerPnt  = 0.5  // carbon reduction per renewable improvement
	carbonReductionFrac  = 0.3  // achievable daily carbon reduction
)

// Generate analyzes a window of normalized records (typically the last 30
// days) and returns zero or more recommendation drafts. The four analyses are
// independent; their outputs are returned together without ranking. An empty
// window yields a single onboarding draft. Pure with respect to its input.
func Generate(records []models.EnergyRecord) []models.Draft {
	if len(records) == 0 {
		return []models.Draft{onboardingDraft()}
	}

	start, end := windowBounds(records)

	var drafts []models.Draft
	for _, analyze := range []func([]models.EnergyRecord) *models.Draft{
		analyzeRenewableMix,
		analyzeCostOptimization,
		analyzeCarbonReduction,
		analyzePeakHourUsage,
	} {
		if d := analyze(records); d != nil {
			d.DataPoints = len(records)
			d.WindowStart = start
			d.WindowEnd = end
			drafts = append(drafts, *d)
		}
	}
	return drafts
}

func onboardingDraft() models.Draft {
	return models.Draft{
		Type:        models.TypeEnergyMix,
		Title:       "Start Tracking Your Energy Usage",
		Description: "Begin by logging your daily energy consumption to receive personalized recommendations.",
		Priority:    models.PriorityHigh,
		Confidence:  0.9,
		Actions: []models.ActionItem{
			{Action: "Log your first week of energy data", Impact: "high", Effort: "low", Timeframe: "immediate"},
		},
	}
}

func analyzeRenewableMix(records []models.EnergyRecord) *models.Draft {
	avgRenewable := 0.0
	totalCost := 0.0
	totalCarbon := 0.0
	for _, rec := range records {
		avgRenewable += rec.RenewablePercentage
		totalCost += rec.TotalCost
		totalCarbon += rec.CarbonFootprint
	}
	avgRenewable /= float64(len(records))

	if avgRenewable >= renewableTriggerPct {
		return nil
	}

	target := math.Min(avgRenewable+renewableTargetStep, renewableTargetCap)
	improvement := (target - avgRenewable) / 100

	priority := models.PriorityMedium
	if avgRenewable < renewableHighPct {
		priority = models.PriorityHigh
	}

	return &models.Draft{
		Type:  models.TypeEnergyMix,
		Title: "Increase Renewable Energy Usage",
		Description: fmt.Sprintf("Your current renewable energy usage is %.0f%%. Increasing to %.0f%% could provide significant benefits.",
			math.Round(avgRenewable), target),
		Priority: priority,
		Impact: models.Impact{
			CostSavings:     math.Round(totalCost * improvement * mixCostFracPerPoint),
			CarbonReduction: math.Round(totalCarbon * improvement * mixCarbonFracPerPnt),
		},
		Actions: []models.ActionItem{
			{Action: "Install solar panels or increase solar capacity", Impact: "high", Effort: "high", Timeframe: "long_term"},
			{Action: "Switch to a renewable energy provider", Impact: "medium", Effort: "low", Timeframe: "immediate"},
			{Action: "Optimize energy usage during peak solar hours", Impact: "medium", Effort: "medium", Timeframe: "short_term"},
		},
		Confidence: 0.8,
	}
}

func analyzeCostOptimization(records []models.EnergyRecord) *models.Draft {
	costSum := 0.0
	sampled := 0
	totalCost := 0.0
	totalConsumption := 0.0
	for _, rec := range records {
		totalCost += rec.TotalCost
		totalConsumption += rec.TotalConsumption
		if rec.TotalConsumption == 0 {
			continue
		}
		costSum += rec.TotalCost / rec.TotalConsumption
		sampled++
	}
	if sampled == 0 {
		return nil
	}
	avgCostPerKwh := costSum / float64(sampled)

	if avgCostPerKwh <= costTriggerPerKwh {
		return nil
	}

	return &models.Draft{
		Type:  models.TypeCostOptimization,
		Title: "Reduce Energy Costs",
		Description: fmt.Sprintf("Your average cost per kWh is $%.3f. Here are ways to reduce your energy expenses.",
			avgCostPerKwh),
		Priority: models.PriorityMedium,
		Impact: models.Impact{
			CostSavings:      math.Round(totalCost * costSavingsFrac),
			EnergyEfficiency: math.Round(totalConsumption * efficiencyGainFrac),
		},
		Actions: []models.ActionItem{
			{Action: "Use energy during off-peak hours", Impact: "medium", Effort: "low", Timeframe: "immediate"},
			{Action: "Invest in energy-efficient appliances", Impact: "high", Effort: "medium", Timeframe: "short_term"},
			{Action: "Implement smart energy management systems", Impact: "high", Effort: "high", Timeframe: "long_term"},
		},
		Confidence: 0.75,
	}
}

func analyzeCarbonReduction(records []models.EnergyRecord) *models.Draft {
	avgCarbon := 0.0
	for _, rec := range records {
		avgCarbon += rec.CarbonFootprint
	}
	avgCarbon /= float64(len(records))

	if avgCarbon <= carbonTriggerDaily {
		return nil
	}

	priority := models.PriorityMedium
	if avgCarbon > carbonHighDaily {
		priority = models.PriorityHigh
	}

	return &models.Draft{
		Type:  models.TypeCarbonReduction,
		Title: "Reduce Carbon Footprint",
		Description: fmt.Sprintf("Your average daily carbon footprint is %.0f kg CO2. Let's work on reducing this.",
			math.Round(avgCarbon)),
		Priority: priority,
		Impact: models.Impact{
			CarbonReduction: math.Round(avgCarbon * carbonReductionFrac * 30),
		},
		Actions: []models.ActionItem{
			{Action: "Shift to renewable energy sources", Impact: "high", Effort: "medium", Timeframe: "short_term"},
			{Action: "Improve energy efficiency", Impact: "medium", Effort: "medium", Timeframe: "short_term"},
			{Action: "Carbon offset programs", Impact: "medium", Effort: "low", Timeframe: "immediate"},
		},
		Confidence: 0.85,
	}
}

func analyzePeakHourUsage(records []models.EnergyRecord) *models.Draft {
	avgPeak := 0.0
	avgTotal := 0.0
	peakCostSum := 0.0
	sampled := 0
	for _, rec := range records {
		if rec.Peak.Consumption <= 0 {
			continue
		}
		avgPeak += rec.Peak.Consumption
		avgTotal += rec.TotalConsumption
		peakCostSum += rec.Peak.Consumption * peakRatePerKwh
		sampled++
	}
	if sampled == 0 || avgTotal == 0 {
		return nil
	}
	avgPeak /= float64(sampled)
	avgTotal /= float64(sampled)

	peakShare := avgPeak / avgTotal * 100
	if peakShare <= peakShareTriggerPct {
		return nil
	}

	return &models.Draft{
		Type:  models.TypePeakHourShift,
		Title: "Optimize Peak Hour Usage",
		Description: fmt.Sprintf("%.0f%% of your energy is consumed during peak hours. Shifting usage can reduce costs.",
			math.Round(peakShare)),
		Priority: models.PriorityMedium,
		Impact: models.Impact{
			CostSavings: math.Round(peakCostSum * peakShiftableFrac),
		},
		Actions: []models.ActionItem{
			{Action: "Schedule high-energy tasks during off-peak hours", Impact: "high", Effort: "low", Timeframe: "immediate"},
			{Action: "Install energy storage systems", Impact: "high", Effort: "high", Timeframe: "long_term"},
			{Action: "Use smart timers for appliances", Impact: "medium", Effort: "medium", Timeframe: "short_term"},
		},
		Confidence: 0.7,
	}
}

func windowBounds(records []models.EnergyRecord) (time.Time, time.Time) {
	start, end := records[0].Date, records[0].Date
	for _, rec := range records[1:] {
		if rec.Date.Before(start) {
			start = rec.Date
		}
		if rec.Date.After(end) {
			end = rec.Date
		}
	}
	return start, end
}
