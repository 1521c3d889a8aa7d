package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/spf13/cobra"
)

var (
	listSince string
	listUntil string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored energy records",
	Long:  `Displays stored energy records with their derived totals.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSince, "since", "", "Only list records since this date (YYYY-MM-DD or relative like 7d)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Only list records until this date (YYYY-MM-DD)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	var records []models.EnergyRecord
	if listSince != "" || listUntil != "" {
		since, until, err := parseRange(listSince, listUntil)
		if err != nil {
			return err
		}
		records, err = db.ListRecordsByRange(user, since, until)
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}
	} else {
		records, err = db.ListRecords(user)
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}
	}

	if len(records) == 0 {
		fmt.Printf("No records found for %s\n", user)
		return nil
	}

	fmt.Printf("\nEnergy records for %s:\n", user)
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("%-6s  %-12s  %10s  %10s  %6s  %10s\n", "ID", "Date", "kWh", "Cost", "Renew", "kg CO2")
	fmt.Println("--------------------------------------------------------------------------------")

	var totalKwh, totalCost, totalCarbon float64
	for _, rec := range records {
		fmt.Printf("%-6d  %-12s  %10.2f  %10.2f  %5.0f%%  %10.2f\n",
			rec.ID, rec.Date.Format("2006-01-02"),
			rec.TotalConsumption, rec.TotalCost,
			rec.RenewablePercentage, rec.CarbonFootprint)
		totalKwh += rec.TotalConsumption
		totalCost += rec.TotalCost
		totalCarbon += rec.CarbonFootprint
	}

	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("Total: %s kWh, $%s, %s kg CO2 (%d records)\n",
		humanize.CommafWithDigits(totalKwh, 2),
		humanize.CommafWithDigits(totalCost, 2),
		humanize.CommafWithDigits(totalCarbon, 2),
		len(records))

	return nil
}
