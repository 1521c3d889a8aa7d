package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jgoulah/energytrack/internal/database"
	"github.com/spf13/cobra"
)

var deleteRecommendation bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an energy record or a recommendation",
	Long: `Deletes an energy record by its numeric id, or a recommendation by
its id when --recommendation is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteRecommendation, "recommendation", false, "Treat the id as a recommendation id")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	if deleteRecommendation {
		if err := db.DeleteRecommendation(user, args[0]); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Errorf("recommendation %s not found", args[0])
			}
			return err
		}
		fmt.Printf("✓ Deleted recommendation %s\n", args[0])
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid record id: %s", args[0])
	}

	if err := db.DeleteRecord(user, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("record %d not found", id)
		}
		return err
	}

	fmt.Printf("✓ Deleted record %d\n", id)
	return nil
}
