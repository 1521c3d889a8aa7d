package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jgoulah/energytrack/internal/config"
	"github.com/jgoulah/energytrack/internal/database"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dbPath   string
	userFlag string
)

var rootCmd = &cobra.Command{
	Use:   "energytrack",
	Short: "Track daily energy consumption and get optimization recommendations",
	Long: `EnergyTrack is a CLI tool for businesses to log daily energy consumption
split across renewable and non-renewable sources. It derives totals, renewable
share, and carbon footprint for every record, rolls them up into statistics,
and generates prioritized optimization recommendations from recent usage.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "record owner (default from config)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// getUser resolves the record owner from the --user flag or config
func getUser(cfg *config.Config) string {
	if userFlag != "" {
		return userFlag
	}
	return cfg.GetDefaultUser()
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string) (time.Time, error) {
	// Try absolute date format first
	t, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return t, nil
	}

	// Try relative format (e.g., "7d" for 7 days ago)
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		daysStr := dateStr[:len(dateStr)-1]
		var days int
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err == nil {
			return time.Now().AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}

// parseRange resolves optional --since/--until values into a concrete date
// range, defaulting to all of history up to today
func parseRange(since, until string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Now()

	if since != "" {
		var err error
		if start, err = parseDate(since); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing --since date: %w", err)
		}
	}
	if until != "" {
		var err error
		if end, err = parseDate(until); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing --until date: %w", err)
		}
	}
	return start, end, nil
}
