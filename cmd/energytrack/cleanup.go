package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired recommendations",
	Long: `Removes pending and viewed recommendations past their 30-day validity
window. Implemented and dismissed recommendations are kept.`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	deleted, err := db.DeleteExpiredRecommendations(time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("✓ Cleaned up %d expired recommendations\n", deleted)
	return nil
}
