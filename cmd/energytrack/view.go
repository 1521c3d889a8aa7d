package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/energytrack/internal/database"
	"github.com/jgoulah/energytrack/internal/recommend"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [recommendation-id]",
	Short: "Show one recommendation in detail",
	Long: `Shows a recommendation with its suggested actions. A pending
recommendation is marked viewed the first time it is read.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
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

	rec, err := db.GetRecommendation(user, args[0])
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("recommendation %s not found", args[0])
		}
		return err
	}

	// Reading an individual recommendation marks it viewed
	if rec.Status == models.StatusPending {
		viewed, err := recommend.Transition(*rec, models.StatusViewed, time.Now())
		if err != nil {
			return err
		}
		if err := db.UpdateRecommendationStatus(&viewed); err != nil {
			return fmt.Errorf("marking as viewed: %w", err)
		}
		rec = &viewed
	}

	printRecommendation(*rec, true)
	fmt.Printf("Status: %s", rec.Status)
	if !rec.ImplementedAt.IsZero() {
		fmt.Printf(" (implemented %s)", rec.ImplementedAt.Format("2006-01-02"))
	}
	fmt.Printf("\nExpires: %s\n", rec.ExpiresAt.Format("2006-01-02"))

	return nil
}
