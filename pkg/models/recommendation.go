package models

import (
	"fmt"
	"time"
)

// RecommendationType identifies which analysis produced a recommendation
type RecommendationType string

const (
	TypeEnergyMix        RecommendationType = "energy_mix"
	TypeCostOptimization RecommendationType = "cost_optimization"
	TypeCarbonReduction  RecommendationType = "carbon_reduction"
	TypePeakHourShift    RecommendationType = "peak_hour_shift"
)

// ParseRecommendationType validates a recommendation type string
func ParseRecommendationType(s string) (RecommendationType, error) {
	switch t := RecommendationType(s); t {
	case TypeEnergyMix, TypeCostOptimization, TypeCarbonReduction, TypePeakHourShift:
		return t, nil
	}
	return "", fmt.Errorf("unknown recommendation type: %q", s)
}

// Priority ranks how urgent a recommendation is
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority validates a priority string
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority: %q", s)
}

// Status is the lifecycle state of a persisted recommendation
type Status string

const (
	StatusPending     Status = "pending"
	StatusViewed      Status = "viewed"
	StatusImplemented Status = "implemented"
	StatusDismissed   Status = "dismissed"
)

// ParseStatus validates a status string
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusViewed, StatusImplemented, StatusDismissed:
		return st, nil
	}
	return "", fmt.Errorf("unknown status: %q", s)
}

// Terminal reports whether no further transitions are allowed from this status
func (s Status) Terminal() bool {
	return s == StatusImplemented || s == StatusDismissed
}

// Impact holds the quantified point estimates attached to a recommendation.
// These are heuristic projections, not guarantees.
type Impact struct {
	CostSavings      float64 `json:"cost_savings"`      // $ per month
	CarbonReduction  float64 `json:"carbon_reduction"`  // kg CO2 per month
	EnergyEfficiency float64 `json:"energy_efficiency"` // kWh per month
}

// ActionItem is one concrete step suggested by a recommendation
type ActionItem struct {
	Action    string `json:"action"`
	Impact    string `json:"impact"`    // low, medium, high
	Effort    string `json:"effort"`    // low, medium, high
	Timeframe string `json:"timeframe"` // immediate, short_term, long_term
}

// Draft is an unpersisted recommendation produced by the engine. The caller
// assigns identity and ownership before persisting.
type Draft struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    Priority           `json:"priority"`
	Impact      Impact             `json:"impact"`
	Actions     []ActionItem       `json:"actions"`
	Confidence  float64            `json:"confidence"` // heuristic score in [0,1]
	DataPoints  int                `json:"data_points"`
	WindowStart time.Time          `json:"window_start"`
	WindowEnd   time.Time          `json:"window_end"`
}

// Recommendation is a persisted recommendation with lifecycle state
type Recommendation struct {
	ID            string             `json:"id"`
	User          string             `json:"user"`
	Type          RecommendationType `json:"type"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Priority      Priority           `json:"priority"`
	Status        Status             `json:"status"`
	Impact        Impact             `json:"impact"`
	Actions       []ActionItem       `json:"actions"`
	Confidence    float64            `json:"confidence"`
	DataPoints    int                `json:"data_points"`
	WindowStart   time.Time          `json:"window_start"`
	WindowEnd     time.Time          `json:"window_end"`
	ImplementedAt time.Time          `json:"implemented_at,omitempty"`
	ExpiresAt     time.Time          `json:"expires_at"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
