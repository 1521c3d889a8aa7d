package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file leaves settings unset
const (
	DefaultUser      = "default"
	DefaultPeakStart = "09:00"
	DefaultPeakEnd   = "17:00"
	DefaultDays      = 30
)

// Config holds the application configuration
type Config struct {
	DefaultUser      string     `yaml:"default_user,omitempty"`
	DefaultPeakStart string     `yaml:"default_peak_start,omitempty"` // HH:MM
	DefaultPeakEnd   string     `yaml:"default_peak_end,omitempty"`   // HH:MM
	AnalysisDays     int        `yaml:"analysis_days,omitempty"`      // window for recommendations (fallback: 30)
	MQTT             MQTTConfig `yaml:"mqtt,omitempty"`
	HomeAssistant    HAConfig   `yaml:"home_assistant,omitempty"`
}

// MQTTConfig holds MQTT broker settings for summary publishing
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://yourdomain.local:5050"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.business_energy_usage"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetDefaultUser returns the configured record owner, or "default"
func (c *Config) GetDefaultUser() string {
	if c.DefaultUser != "" {
		return c.DefaultUser
	}
	return DefaultUser
}

// GetPeakWindow returns the default peak window applied when a record is
// entered without one
func (c *Config) GetPeakWindow() (start, end string) {
	start, end = c.DefaultPeakStart, c.DefaultPeakEnd
	if start == "" {
		start = DefaultPeakStart
	}
	if end == "" {
		end = DefaultPeakEnd
	}
	return start, end
}

// GetAnalysisDays returns the recommendation window size with a default of 30
func (c *Config) GetAnalysisDays() int {
	if c.AnalysisDays <= 0 {
		return DefaultDays
	}
	return c.AnalysisDays
}
