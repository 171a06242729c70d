package models

import "time"

// Contribution frequencies supported by a plan.
const (
	FrequencyNone    = ""
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyCustom  = "custom"
)

// ContributionPlan describes the periodic-contribution schedule of a PAC plan.
// StartDate anchors both the contribution cadence and the dates of projected
// records.
type ContributionPlan struct {
	Amount       float64   `json:"amount"`
	Frequency    string    `json:"frequency"`
	IntervalDays int       `json:"interval_days,omitempty"` // only read when Frequency is "custom"
	StartDate    time.Time `json:"start_date"`
}

// InvestmentConfig is the full input of a projection run.
type InvestmentConfig struct {
	InitialCapital  float64          `json:"initial_capital"`
	TimeHorizonDays int              `json:"time_horizon_days"`
	DailyReturnRate float64          `json:"daily_return_rate"` // percent per day, 0.2 means 0.2%
	Contribution    ContributionPlan `json:"contribution"`
}

// DayOverrides maps a 1-based day index to a replacement value for that day
// only. For contributions, an explicit 0 suppresses a scheduled contribution.
type DayOverrides map[int]float64

// Plan is a stored investment configuration owned by a user.
type Plan struct {
	ID                    string           `json:"id"`
	UserID                int64            `json:"user_id"`
	Name                  string           `json:"name"`
	Config                InvestmentConfig `json:"config"`
	ReturnOverrides       DayOverrides     `json:"return_overrides,omitempty"`
	ContributionOverrides DayOverrides     `json:"contribution_overrides,omitempty"`
	Active                bool             `json:"active"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}
