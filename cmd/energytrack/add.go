package main

import (
	"errors"
	"fmt"

	"github.com/jgoulah/energytrack/internal/database"
	"github.com/jgoulah/energytrack/internal/energy"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/spf13/cobra"
)

var (
	addDate      string
	addRecord    models.EnergyRecord
	addPeakStart string
	addPeakEnd   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an energy record for a date",
	Long: `Records one day's energy consumption split across sources. Totals,
renewable percentage, and carbon footprint are derived automatically. Only one
record is allowed per date.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Record date (YYYY-MM-DD, required)")
	addCmd.Flags().Float64Var(&addRecord.Sources.Renewable.Solar.Consumption, "solar", 0, "Solar consumption (kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.Renewable.Solar.Cost, "solar-cost", 0, "Solar cost ($/kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.Renewable.Wind.Consumption, "wind", 0, "Wind consumption (kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.Renewable.Wind.Cost, "wind-cost", 0, "Wind cost ($/kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.Renewable.Hydro.Consumption, "hydro", 0, "Hydro consumption (kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.Renewable.Hydro.Cost, "hydro-cost", 0, "Hydro cost ($/kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.Renewable.Other.Consumption, "other", 0, "Other renewable consumption (kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.Renewable.Other.Cost, "other-cost", 0, "Other renewable cost ($/kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.NonRenewable.Grid.Consumption, "grid", 0, "Grid consumption (kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.NonRenewable.Grid.Cost, "grid-cost", 0, "Grid cost ($/kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.NonRenewable.Generator.Consumption, "generator", 0, "Generator consumption (kWh)")
	addCmd.Flags().Float64Var(&addRecord.Sources.NonRenewable.Generator.Cost, "generator-cost", 0, "Generator cost ($/kWh)")
	addCmd.Flags().StringVar(&addPeakStart, "peak-start", "", "Peak window start (HH:MM, default from config)")
	addCmd.Flags().StringVar(&addPeakEnd, "peak-end", "", "Peak window end (HH:MM, default from config)")
	addCmd.Flags().Float64Var(&addRecord.Peak.Consumption, "peak", 0, "Consumption during peak hours (kWh)")
	addCmd.Flags().Float64Var(&addRecord.OffPeakConsumption, "off-peak", 0, "Consumption during off-peak hours (kWh)")
	addCmd.Flags().StringVar(&addRecord.Notes, "notes", "", "Free-text notes")
	addCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rec := addRecord
	rec.User = getUser(cfg)

	rec.Date, err = parseDate(addDate)
	if err != nil {
		return fmt.Errorf("parsing --date: %w", err)
	}

	// Peak window defaults come from config, not from the schema
	rec.Peak.Start, rec.Peak.End = cfg.GetPeakWindow()
	if addPeakStart != "" {
		rec.Peak.Start = addPeakStart
	}
	if addPeakEnd != "" {
		rec.Peak.End = addPeakEnd
	}

	normalized, err := energy.Normalize(rec)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.InsertRecord(&normalized); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return fmt.Errorf("a record for %s already exists (delete it first or pick another date)",
				normalized.Date.Format("2006-01-02"))
		}
		return err
	}

	fmt.Printf("✓ Recorded %s: %.2f kWh, $%.2f, %.0f%% renewable, %.1f kg CO2\n",
		normalized.Date.Format("2006-01-02"),
		normalized.TotalConsumption, normalized.TotalCost,
		normalized.RenewablePercentage, normalized.CarbonFootprint)

	return nil
}
