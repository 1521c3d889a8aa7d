package main

import (
	"fmt"
	"time"

	"github.com/jgoulah/energytrack/internal/publisher"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/spf13/cobra"
)

var (
	publishSince string
	publishUntil string
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish daily summaries to MQTT / Home Assistant",
	Long:  `Reads stored energy records and publishes one daily summary per date to the configured MQTT broker and/or Home Assistant.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSince, "since", "", "Only publish data since this date (YYYY-MM-DD or relative like 7d)")
	publishCmd.Flags().StringVar(&publishUntil, "until", "", "Only publish data until this date (YYYY-MM-DD)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	user := getUser(cfg)

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Get records based on --all flag
	var data []models.EnergyRecord
	if publishAll {
		data, err = db.ListRecords(user)
	} else {
		data, err = db.ListUnpublishedRecords(user)
	}
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	if len(data) == 0 {
		if publishAll {
			fmt.Printf("No records found for %s\n", user)
		} else {
			fmt.Printf("No unpublished records found for %s\n", user)
		}
		return nil
	}

	// Parse date filters if provided
	var sinceDate, untilDate *time.Time
	if publishSince != "" {
		since, err := parseDate(publishSince)
		if err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
		sinceDate = &since
	}
	if publishUntil != "" {
		until, err := parseDate(publishUntil)
		if err != nil {
			return fmt.Errorf("parsing --until date: %w", err)
		}
		untilDate = &until
	}

	// Filter by date range if specified
	filteredData := data
	if sinceDate != nil || untilDate != nil {
		filteredData = []models.EnergyRecord{}
		for _, record := range data {
			if sinceDate != nil && record.Date.Before(*sinceDate) {
				continue
			}
			if untilDate != nil && record.Date.After(*untilDate) {
				continue
			}
			filteredData = append(filteredData, record)
		}
	}

	if len(filteredData) == 0 {
		fmt.Printf("No data in date range for %s\n", user)
		return nil
	}

	// Apply limit if specified
	if publishLimit > 0 && len(filteredData) > publishLimit {
		filteredData = filteredData[:publishLimit]
		fmt.Printf("Limiting to %d records (--limit flag)\n", publishLimit)
	}

	// Publish each record's daily summary
	fmt.Printf("Publishing %d summaries for %s...\n", len(filteredData), user)
	published := 0
	for i, record := range filteredData {
		fmt.Printf("[%d/%d] Publishing %s (%.2f kWh)... ", i+1, len(filteredData),
			record.Date.Format("2006-01-02"), record.TotalConsumption)
		if err := pub.Publish(publisher.SummaryFor(record)); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		// Mark record as published in database
		if err := db.MarkPublished(record.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nTotal summaries published: %d/%d\n", published, len(filteredData))
	return nil
}
