package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/energytrack/internal/config"
	"github.com/jgoulah/energytrack/pkg/models"
)

// DailySummary is the payload published for one record date
type DailySummary struct {
	User                string  `json:"user"`
	Date                string  `json:"date"` // YYYY-MM-DD
	TotalConsumption    float64 `json:"total_consumption"`
	TotalCost           float64 `json:"total_cost"`
	RenewablePercentage float64 `json:"renewable_percentage"`
	CarbonFootprint     float64 `json:"carbon_footprint"`
}

// SummaryFor builds the publishable summary for a normalized record
func SummaryFor(rec models.EnergyRecord) DailySummary {
	return DailySummary{
		User:                rec.User,
		Date:                rec.Date.Format("2006-01-02"),
		TotalConsumption:    rec.TotalConsumption,
		TotalCost:           rec.TotalCost,
		RenewablePercentage: rec.RenewablePercentage,
		CarbonFootprint:     rec.CarbonFootprint,
	}
}

// Publisher sends daily summaries to MQTT and/or Home Assistant
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig) (*Publisher, error) {
	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	var topicPrefix string

	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		// Set default topic prefix if not specified
		topicPrefix = mqttCfg.TopicPrefix
		if topicPrefix == "" {
			topicPrefix = "energytrack"
		}

		// Configure MQTT client options
		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("energytrack")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		// Create and connect client
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	if !mqttCfg.Enabled && !haCfg.Enabled {
		return nil, fmt.Errorf("neither MQTT nor Home Assistant publishing is enabled in config")
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
	}, nil
}

// HAPayload matches the Home Assistant backfill service call data
type HAPayload struct {
	EntityID    string `json:"entity_id"`
	State       string `json:"state"`
	LastChanged string `json:"last_changed"`
	LastUpdated string `json:"last_updated"`
}

// Publish sends a daily summary to every enabled destination
func (p *Publisher) Publish(summary DailySummary) error {
	if p.client != nil {
		if err := p.publishMQTT(summary); err != nil {
			return err
		}
	}
	if p.haConfig.Enabled {
		if err := p.publishHA(summary); err != nil {
			return err
		}
	}
	return nil
}

// publishMQTT sends the summary as retained JSON on <prefix>/<user>/daily
func (p *Publisher) publishMQTT(summary DailySummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	topic := fmt.Sprintf("%s/%s/daily", p.topicPrefix, summary.User)
	if token := p.client.Publish(topic, 1, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

// publishHA backfills the summary's total consumption as a sensor state via
// the Home Assistant HTTP API
func (p *Publisher) publishHA(summary DailySummary) error {
	apiURL := fmt.Sprintf("%s/api/appdaemon/backfill_state", p.haConfig.URL)

	date, err := time.Parse("2006-01-02", summary.Date)
	if err != nil {
		return fmt.Errorf("parsing summary date: %w", err)
	}
	timestamp := date.Format(time.RFC3339)

	payload := HAPayload{
		EntityID:    p.haConfig.EntityID,
		State:       fmt.Sprintf("%.2f", summary.TotalConsumption),
		LastChanged: timestamp,
		LastUpdated: timestamp,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read error response body for debugging
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
