package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/energytrack/internal/database"
	"github.com/jgoulah/energytrack/internal/recommend"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/spf13/cobra"
)

var (
	recsStatus   string
	recsType     string
	recsPriority string
)

var recommendationsCmd = &cobra.Command{
	Use:   "recommendations",
	Short: "List saved recommendations",
	RunE:  runRecommendations,
}

func init() {
	recommendationsCmd.Flags().StringVar(&recsStatus, "status", "", "Filter by status (pending, viewed, implemented, dismissed)")
	recommendationsCmd.Flags().StringVar(&recsType, "type", "", "Filter by type (energy_mix, cost_optimization, carbon_reduction, peak_hour_shift)")
	recommendationsCmd.Flags().StringVar(&recsPriority, "priority", "", "Filter by priority (low, medium, high)")
	rootCmd.AddCommand(recommendationsCmd)
}

func runRecommendations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	user := getUser(cfg)

	var filter database.RecommendationFilter
	if recsStatus != "" {
		if filter.Status, err = models.ParseStatus(recsStatus); err != nil {
			return err
		}
	}
	if recsType != "" {
		if filter.Type, err = models.ParseRecommendationType(recsType); err != nil {
			return err
		}
	}
	if recsPriority != "" {
		if filter.Priority, err = models.ParsePriority(recsPriority); err != nil {
			return err
		}
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	recs, err := db.ListRecommendations(user, filter)
	if err != nil {
		return fmt.Errorf("listing recommendations: %w", err)
	}

	if len(recs) == 0 {
		fmt.Printf("No recommendations found for %s (run 'energytrack recommend' to generate some)\n", user)
		return nil
	}

	now := time.Now()
	fmt.Printf("\nRecommendations for %s:\n\n", user)
	for _, rec := range recs {
		expiry := "expires " + humanize.Time(rec.ExpiresAt)
		if rec.Status.Terminal() {
			expiry = ""
		} else if recommend.Expired(rec, now) {
			expiry = "expired"
		}
		fmt.Printf("%s  [%s/%s] %s  %s\n", rec.ID, rec.Priority, rec.Status, rec.Title, expiry)
	}
	fmt.Printf("\n%d recommendations (use 'energytrack view [id]' for details)\n", len(recs))

	return nil
}
