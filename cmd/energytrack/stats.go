package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/energytrack/internal/stats"
	"github.com/spf13/cobra"
)

var (
	statsDays  int
	statsSince string
	statsUntil string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics over a period",
	Long: `Summarizes stored records over a period: totals, average renewable
share, the daily trend, and a per-source breakdown. The period is the last
--days days, or an explicit --since/--until range.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 30, "Number of days to summarize")
	statsCmd.Flags().StringVar(&statsSince, "since", "", "Summarize records since this date (YYYY-MM-DD or relative like 7d)")
	statsCmd.Flags().StringVar(&statsUntil, "until", "", "Summarize records until this date (YYYY-MM-DD)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	end := time.Now()
	start := end.AddDate(0, 0, -statsDays)
	period := fmt.Sprintf("last %d days", statsDays)

	if statsSince != "" || statsUntil != "" {
		if start, end, err = parseRange(statsSince, statsUntil); err != nil {
			return err
		}
		period = fmt.Sprintf("up to %s", end.Format("2006-01-02"))
		if statsSince != "" {
			period = fmt.Sprintf("%s to %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"))
		}
	}

	records, err := db.ListRecordsByRange(user, start, end)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	summary := stats.Aggregate(records, start, end)

	fmt.Printf("\nStatistics for %s (%s):\n", user, period)
	fmt.Println("----------------------------------------")
	fmt.Printf("Records:            %d\n", summary.RecordCount)
	fmt.Printf("Total consumption:  %s kWh\n", humanize.CommafWithDigits(summary.TotalConsumption, 2))
	fmt.Printf("Total cost:         $%s\n", humanize.CommafWithDigits(summary.TotalCost, 2))
	fmt.Printf("Avg renewable:      %.1f%%\n", summary.AvgRenewablePercentage)
	fmt.Printf("Carbon footprint:   %s kg CO2\n", humanize.CommafWithDigits(summary.TotalCarbonFootprint, 2))

	if summary.RecordCount == 0 {
		return nil
	}

	breakdown := stats.SourceBreakdown(records, start, end)
	fmt.Println("\nSource breakdown (kWh):")
	fmt.Println("----------------------------------------")
	fmt.Printf("%-12s %12.2f\n", "Solar", breakdown.Solar)
	fmt.Printf("%-12s %12.2f\n", "Wind", breakdown.Wind)
	fmt.Printf("%-12s %12.2f\n", "Hydro", breakdown.Hydro)
	fmt.Printf("%-12s %12.2f\n", "Other", breakdown.Other)
	fmt.Printf("%-12s %12.2f\n", "Grid", breakdown.Grid)
	fmt.Printf("%-12s %12.2f\n", "Generator", breakdown.Generator)

	trend := stats.DailyTrend(records, start, end)
	fmt.Println("\nDaily trend:")
	fmt.Println("----------------------------------------")
	fmt.Printf("%-12s  %10s  %10s  %6s\n", "Date", "kWh", "Cost", "Renew")
	for _, day := range trend {
		fmt.Printf("%-12s  %10.2f  %10.2f  %5.0f%%\n",
			day.Date.Format("2006-01-02"),
			day.TotalConsumption, day.TotalCost, day.RenewablePercentage)
	}

	return nil
}
