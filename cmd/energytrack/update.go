package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jgoulah/energytrack/internal/database"
	"github.com/jgoulah/energytrack/internal/energy"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/spf13/cobra"
)

var updateFlags models.EnergyRecord

var updateCmd = &cobra.Command{
	Use:   "update [record-id]",
	Short: "Update an energy record",
	Long: `Changes fields of a stored record. Only the flags given are applied;
everything else keeps its stored value. Totals, renewable percentage, and
carbon footprint are re-derived from the result.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Float64Var(&updateFlags.Sources.Renewable.Solar.Consumption, "solar", 0, "Solar consumption (kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.Renewable.Solar.Cost, "solar-cost", 0, "Solar cost ($/kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.Renewable.Wind.Consumption, "wind", 0, "Wind consumption (kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.Renewable.Wind.Cost, "wind-cost", 0, "Wind cost ($/kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.Renewable.Hydro.Consumption, "hydro", 0, "Hydro consumption (kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.Renewable.Hydro.Cost, "hydro-cost", 0, "Hydro cost ($/kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.Renewable.Other.Consumption, "other", 0, "Other renewable consumption (kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.Renewable.Other.Cost, "other-cost", 0, "Other renewable cost ($/kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.NonRenewable.Grid.Consumption, "grid", 0, "Grid consumption (kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.NonRenewable.Grid.Cost, "grid-cost", 0, "Grid cost ($/kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.NonRenewable.Generator.Consumption, "generator", 0, "Generator consumption (kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.Sources.NonRenewable.Generator.Cost, "generator-cost", 0, "Generator cost ($/kWh)")
	updateCmd.Flags().StringVar(&updateFlags.Peak.Start, "peak-start", "", "Peak window start (HH:MM)")
	updateCmd.Flags().StringVar(&updateFlags.Peak.End, "peak-end", "", "Peak window end (HH:MM)")
	updateCmd.Flags().Float64Var(&updateFlags.Peak.Consumption, "peak", 0, "Consumption during peak hours (kWh)")
	updateCmd.Flags().Float64Var(&updateFlags.OffPeakConsumption, "off-peak", 0, "Consumption during off-peak hours (kWh)")
	updateCmd.Flags().StringVar(&updateFlags.Notes, "notes", "", "Free-text notes")
	rootCmd.AddCommand(updateCmd)
}

// applyRecordFlags copies into dst the fields of src whose flag was set.
// changed reports whether a flag name was given on the command line.
func applyRecordFlags(changed func(string) bool, src, dst *models.EnergyRecord) {
	fields := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"solar", &src.Sources.Renewable.Solar.Consumption, &dst.Sources.Renewable.Solar.Consumption},
		{"solar-cost", &src.Sources.Renewable.Solar.Cost, &dst.Sources.Renewable.Solar.Cost},
		{"wind", &src.Sources.Renewable.Wind.Consumption, &dst.Sources.Renewable.Wind.Consumption},
		{"wind-cost", &src.Sources.Renewable.Wind.Cost, &dst.Sources.Renewable.Wind.Cost},
		{"hydro", &src.Sources.Renewable.Hydro.Consumption, &dst.Sources.Renewable.Hydro.Consumption},
		{"hydro-cost", &src.Sources.Renewable.Hydro.Cost, &dst.Sources.Renewable.Hydro.Cost},
		{"other", &src.Sources.Renewable.Other.Consumption, &dst.Sources.Renewable.Other.Consumption},
		{"other-cost", &src.Sources.Renewable.Other.Cost, &dst.Sources.Renewable.Other.Cost},
		{"grid", &src.Sources.NonRenewable.Grid.Consumption, &dst.Sources.NonRenewable.Grid.Consumption},
		{"grid-cost", &src.Sources.NonRenewable.Grid.Cost, &dst.Sources.NonRenewable.Grid.Cost},
		{"generator", &src.Sources.NonRenewable.Generator.Consumption, &dst.Sources.NonRenewable.Generator.Consumption},
		{"generator-cost", &src.Sources.NonRenewable.Generator.Cost, &dst.Sources.NonRenewable.Generator.Cost},
		{"peak", &src.Peak.Consumption, &dst.Peak.Consumption},
		{"off-peak", &src.OffPeakConsumption, &dst.OffPeakConsumption},
	}
	for _, f := range fields {
		if changed(f.name) {
			*f.dst = *f.src
		}
	}

	if changed("peak-start") {
		dst.Peak.Start = src.Peak.Start
	}
	if changed("peak-end") {
		dst.Peak.End = src.Peak.End
	}
	if changed("notes") {
		dst.Notes = src.Notes
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid record id: %s", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	user := getUser(cfg)

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rec, err := db.GetRecord(user, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("record %d not found", id)
		}
		return err
	}

	applyRecordFlags(cmd.Flags().Changed, &updateFlags, rec)

	// Derived fields are never carried over; the whole record is re-derived
	normalized, err := energy.Normalize(*rec)
	if err != nil {
		return err
	}

	if err := db.UpdateRecord(&normalized); err != nil {
		return err
	}

	fmt.Printf("✓ Updated %s: %.2f kWh, $%.2f, %.0f%% renewable, %.1f kg CO2\n",
		normalized.Date.Format("2006-01-02"),
		normalized.TotalConsumption, normalized.TotalCost,
		normalized.RenewablePercentage, normalized.CarbonFootprint)

	return nil
}
