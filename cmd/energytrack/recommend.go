package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jgoulah/energytrack/internal/recommend"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/spf13/cobra"
)

var recommendDryRun bool

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate optimization recommendations from recent usage",
	Long: `Analyzes the recent window of records (30 days by default, see
analysis_days in config) and generates prioritized recommendations. The whole
batch is saved together.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendDryRun, "dry-run", false, "Print drafts without saving them")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
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

	now := time.Now()
	start := now.AddDate(0, 0, -cfg.GetAnalysisDays())

	records, err := db.ListRecordsByRange(user, start, now)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	drafts := recommend.Generate(records)

	recs := make([]models.Recommendation, 0, len(drafts))
	for _, d := range drafts {
		recs = append(recs, recommend.FromDraft(d, uuid.NewString(), user, now))
	}

	if !recommendDryRun {
		if err := db.InsertRecommendations(recs); err != nil {
			return fmt.Errorf("saving recommendations: %w", err)
		}
	}

	fmt.Printf("Generated %d recommendations from %d records:\n\n", len(recs), len(records))
	for _, rec := range recs {
		printRecommendation(rec, false)
	}

	if recommendDryRun {
		fmt.Println("(dry run, nothing was saved)")
	}
	return nil
}

// printRecommendation renders one recommendation; detailed adds actions and
// window info
func printRecommendation(rec models.Recommendation, detailed bool) {
	fmt.Printf("[%s] %s (%s)\n", rec.Priority, rec.Title, rec.Type)
	fmt.Printf("  %s\n", rec.Description)
	if rec.Impact.CostSavings > 0 {
		fmt.Printf("  Est. cost savings:   $%.0f/month\n", rec.Impact.CostSavings)
	}
	if rec.Impact.CarbonReduction > 0 {
		fmt.Printf("  Est. CO2 reduction:  %.0f kg/month\n", rec.Impact.CarbonReduction)
	}
	if rec.Impact.EnergyEfficiency > 0 {
		fmt.Printf("  Est. energy savings: %.0f kWh/month\n", rec.Impact.EnergyEfficiency)
	}
	fmt.Printf("  Confidence: %.0f%%\n", rec.Confidence*100)

	if detailed {
		if len(rec.Actions) > 0 {
			fmt.Println("  Suggested actions:")
			for _, a := range rec.Actions {
				fmt.Printf("    - %s (impact: %s, effort: %s, timeframe: %s)\n",
					a.Action, a.Impact, a.Effort, a.Timeframe)
			}
		}
		if rec.DataPoints > 0 {
			fmt.Printf("  Based on %d records (%s to %s)\n", rec.DataPoints,
				rec.WindowStart.Format("2006-01-02"), rec.WindowEnd.Format("2006-01-02"))
		}
	}
	fmt.Println()
}
