package models

import "time"

// DailyRecord is one day of a projected capital ledger.
type DailyRecord struct {
	Day                       int       `json:"day"`
	Date                      time.Time `json:"date"`
	CapitalBeforeContribution float64   `json:"capital_before_contribution"`
	ContributionAmount        float64   `json:"contribution_amount"`
	CapitalAfterContribution  float64   `json:"capital_after_contribution"`
	AppliedReturnRate         float64   `json:"applied_return_rate"`
	InterestEarned            float64   `json:"interest_earned"`
	EndingCapital             float64   `json:"ending_capital"`
	CumulativeContributed     float64   `json:"cumulative_contributed"`
	CumulativeInterest        float64   `json:"cumulative_interest"`
	UsedOverrideReturn        bool      `json:"used_override_return"`
	UsedOverrideContribution  bool      `json:"used_override_contribution"`
}

// ProjectionSummary holds the headline figures of a projection.
type ProjectionSummary struct {
	FinalCapital       float64 `json:"final_capital"`
	TotalInvested      float64 `json:"total_invested"`
	TotalInterest      float64 `json:"total_interest"`
	TotalReturnPercent float64 `json:"total_return_percent"`
}

// ProjectionResult is the payload returned by projection endpoints.
type ProjectionResult struct {
	Records []DailyRecord     `json:"records"`
	Summary ProjectionSummary `json:"summary"`
}
