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

var setStatusCmd = &cobra.Command{
	Use:   "set-status [recommendation-id] [status]",
	Short: "Change a recommendation's status",
	Long: `Moves a recommendation through its lifecycle. Valid targets are viewed,
implemented, and dismissed; implemented and dismissed are final.`,
	Args: cobra.ExactArgs(2),
	RunE: runSetStatus,
}

func init() {
	rootCmd.AddCommand(setStatusCmd)
}

func runSetStatus(cmd *cobra.Command, args []string) error {
	status, err := models.ParseStatus(args[1])
	if err != nil {
		return err
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

	rec, err := db.GetRecommendation(user, args[0])
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("recommendation %s not found", args[0])
		}
		return err
	}

	updated, err := recommend.Transition(*rec, status, time.Now())
	if err != nil {
		return err
	}

	if err := db.UpdateRecommendationStatus(&updated); err != nil {
		return fmt.Errorf("saving status: %w", err)
	}

	fmt.Printf("✓ Recommendation %s is now %s\n", updated.ID, updated.Status)
	return nil
}
