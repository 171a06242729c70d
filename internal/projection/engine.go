// Package projection implements the day-by-day compounding engine behind PAC
// plans. Projections are pure computations over an InvestmentConfig plus two
// sparse per-day override maps; they are recomputed from scratch on every
// request and never persisted.
package projection

import (
	"time"

	"github.com/mstagni/pacplan/internal/models"
)

// scheduleInterval returns the contribution cadence in days, or 0 when the
// plan never contributes on its own schedule.
func scheduleInterval(plan models.ContributionPlan) int {
	switch plan.Frequency {
	case models.FrequencyDaily:
		return 1
	case models.FrequencyWeekly:
		return 7
	case models.FrequencyMonthly:
		// Fixed 30-day interval, not calendar months. The cadence is
		// day-counted from the start date; changing it would change every
		// projected total.
		return 30
	case models.FrequencyCustom:
		if plan.IntervalDays > 0 {
			return plan.IntervalDays
		}
		return 0
	default:
		return 0
	}
}

// IsContributionDay reports whether the plan schedules a contribution on the
// given 1-based day index. The first weekly contribution lands on day 7, the
// first monthly one on day 30.
func IsContributionDay(plan models.ContributionPlan, day int) bool {
	interval := scheduleInterval(plan)
	if interval <= 0 || day <= 0 {
		return false
	}
	return day%interval == 0
}

// DayIndex converts a calendar date into the plan's 1-based day index. Dates
// before the start date or past the time horizon return 0.
func DayIndex(cfg models.InvestmentConfig, date time.Time) int {
	day := int(midnight(date).Sub(midnight(cfg.Contribution.StartDate)).Hours()/24) + 1
	if day < 1 || day > cfg.TimeHorizonDays {
		return 0
	}
	return day
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func resolveContribution(cfg models.InvestmentConfig, overrides models.DayOverrides, day int) (amount float64, overridden bool) {
	if v, ok := overrides[day]; ok {
		// Used verbatim, including 0 to skip a scheduled contribution.
		return v, true
	}
	if IsContributionDay(cfg.Contribution, day) {
		return cfg.Contribution.Amount, false
	}
	return 0, false
}

// Project runs a full projection for cfg and returns exactly
// cfg.TimeHorizonDays records in day order. A non-positive horizon yields an
// empty ledger without error; callers are expected to validate ranges before
// persisting a plan. Either override map may be nil.
//
// The arithmetic is sign-agnostic: negative rates and negative capital flow
// through unchanged (losses compound the same way), and non-finite inputs
// propagate into the output unsanitized.
func Project(cfg models.InvestmentConfig, returnOverrides, contributionOverrides models.DayOverrides) []models.DailyRecord {
	if cfg.TimeHorizonDays < 1 {
		return []models.DailyRecord{}
	}

	records := make([]models.DailyRecord, 0, cfg.TimeHorizonDays)
	capital := cfg.InitialCapital
	cumulativeContributed := cfg.InitialCapital
	cumulativeInterest := 0.0

	for day := 1; day <= cfg.TimeHorizonDays; day++ {
		contribution, contributionOverridden := resolveContribution(cfg, contributionOverrides, day)
		capitalAfter := capital + contribution

		rate := cfg.DailyReturnRate
		rateOverridden := false
		if v, ok := returnOverrides[day]; ok {
			rate = v
			rateOverridden = true
		}

		interest := capitalAfter * rate / 100
		ending := capitalAfter + interest
		cumulativeContributed += contribution
		cumulativeInterest += interest

		records = append(records, models.DailyRecord{
			Day:                       day,
			Date:                      cfg.Contribution.StartDate.AddDate(0, 0, day-1),
			CapitalBeforeContribution: capital,
			ContributionAmount:        contribution,
			CapitalAfterContribution:  capitalAfter,
			AppliedReturnRate:         rate,
			InterestEarned:            interest,
			EndingCapital:             ending,
			CumulativeContributed:     cumulativeContributed,
			CumulativeInterest:        cumulativeInterest,
			UsedOverrideReturn:        rateOverridden,
			UsedOverrideContribution:  contributionOverridden,
		})
		capital = ending
	}
	return records
}

// Summarize reduces a projected ledger to its headline figures. An empty
// ledger yields a zero summary, and the return percentage is 0 when nothing
// was invested.
func Summarize(records []models.DailyRecord) models.ProjectionSummary {
	if len(records) == 0 {
		return models.ProjectionSummary{}
	}
	last := records[len(records)-1]
	summary := models.ProjectionSummary{
		FinalCapital:  last.EndingCapital,
		TotalInvested: last.CumulativeContributed,
		TotalInterest: last.CumulativeInterest,
	}
	if summary.TotalInvested != 0 {
		summary.TotalReturnPercent = (summary.FinalCapital - summary.TotalInvested) / summary.TotalInvested * 100
	}
	return summary
}
