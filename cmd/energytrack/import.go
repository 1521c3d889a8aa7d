package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgoulah/energytrack/internal/energy"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Bulk import energy records from a YAML or JSON file",
	Long: `Reads raw records from a file, normalizes each one, and inserts them in
a single transaction. If any record fails validation or collides with an
existing date, nothing is imported.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importFile is the expected file layout
type importFile struct {
	Records []importRecord `yaml:"records" json:"records"`
}

// importRecord is one raw record entry; the date is a plain YYYY-MM-DD string
type importRecord struct {
	Date               string            `yaml:"date" json:"date"`
	Sources            models.Sources    `yaml:"sources" json:"sources"`
	Peak               models.PeakWindow `yaml:"peak" json:"peak"`
	OffPeakConsumption float64           `yaml:"off_peak_consumption" json:"off_peak_consumption"`
	Notes              string            `yaml:"notes" json:"notes"`
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	user := getUser(cfg)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	var file importFile
	switch strings.ToLower(filepath.Ext(args[0])) {
	case ".json":
		err = json.Unmarshal(data, &file)
	default:
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return fmt.Errorf("parsing import file: %w", err)
	}

	if len(file.Records) == 0 {
		return fmt.Errorf("no records found in %s", args[0])
	}

	defaultStart, defaultEnd := cfg.GetPeakWindow()

	normalized := make([]models.EnergyRecord, 0, len(file.Records))
	for i, raw := range file.Records {
		rec := models.EnergyRecord{
			User:               user,
			Sources:            raw.Sources,
			Peak:               raw.Peak,
			OffPeakConsumption: raw.OffPeakConsumption,
			Notes:              raw.Notes,
		}
		if raw.Date != "" {
			if rec.Date, err = parseDate(raw.Date); err != nil {
				return fmt.Errorf("record %d: parsing date: %w", i+1, err)
			}
		}
		if rec.Peak.Start == "" {
			rec.Peak.Start = defaultStart
		}
		if rec.Peak.End == "" {
			rec.Peak.End = defaultEnd
		}

		norm, err := energy.Normalize(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		normalized = append(normalized, norm)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.InsertRecords(normalized); err != nil {
		return fmt.Errorf("import aborted, nothing was saved: %w", err)
	}

	fmt.Printf("✓ Imported %d records for %s\n", len(normalized), user)
	return nil
}
