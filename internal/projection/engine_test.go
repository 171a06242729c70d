package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstagni/pacplan/internal/models"
)

var testStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func baseConfig(horizon int) models.InvestmentConfig {
	return models.InvestmentConfig{
		InitialCapital:  1000,
		TimeHorizonDays: horizon,
		DailyReturnRate: 10,
		Contribution: models.ContributionPlan{
			StartDate: testStart,
		},
	}
}

func TestProjectLengthAndOrder(t *testing.T) {
	for _, horizon := range []int{1, 2, 7, 30, 365, 3650} {
		records := Project(baseConfig(horizon), nil, nil)
		require.Len(t, records, horizon)
		for i, rec := range records {
			assert.Equal(t, i+1, rec.Day)
			assert.Equal(t, testStart.AddDate(0, 0, i), rec.Date)
		}
	}
}

func TestProjectEmptyForNonPositiveHorizon(t *testing.T) {
	for _, horizon := range []int{0, -1, -365} {
		records := Project(baseConfig(horizon), nil, nil)
		require.NotNil(t, records)
		assert.Empty(t, records)
	}
}

func TestProjectContinuity(t *testing.T) {
	cfg := baseConfig(90)
	cfg.Contribution.Amount = 100
	cfg.Contribution.Frequency = models.FrequencyWeekly
	returnOv := models.DayOverrides{10: -2, 40: 0}
	contribOv := models.DayOverrides{14: 0, 15: 250}

	records := Project(cfg, returnOv, contribOv)
	require.Len(t, records, 90)
	for i := 1; i < len(records); i++ {
		assert.Equal(t, records[i-1].EndingCapital, records[i].CapitalBeforeContribution,
			"day %d must start where day %d ended", i+1, i)
	}
}

func TestProjectZeroRateHoldsCapital(t *testing.T) {
	cfg := baseConfig(30)
	cfg.DailyReturnRate = 0

	for _, rec := range Project(cfg, nil, nil) {
		assert.Equal(t, 1000.0, rec.EndingCapital)
		assert.Equal(t, 0.0, rec.InterestEarned)
	}
}

func TestReturnOverridePrecedence(t *testing.T) {
	cfg := baseConfig(10)
	records := Project(cfg, models.DayOverrides{4: 2.5}, nil)
	require.Len(t, records, 10)

	assert.Equal(t, 2.5, records[3].AppliedReturnRate)
	assert.True(t, records[3].UsedOverrideReturn)
	assert.Equal(t, 10.0, records[2].AppliedReturnRate)
	assert.False(t, records[2].UsedOverrideReturn)
}

func TestContributionOverrideZeroSuppression(t *testing.T) {
	cfg := baseConfig(14)
	cfg.Contribution.Amount = 100
	cfg.Contribution.Frequency = models.FrequencyWeekly

	records := Project(cfg, nil, models.DayOverrides{7: 0})
	require.Len(t, records, 14)

	assert.Equal(t, 0.0, records[6].ContributionAmount)
	assert.True(t, records[6].UsedOverrideContribution)
	// The next scheduled day is untouched.
	assert.Equal(t, 100.0, records[13].ContributionAmount)
	assert.False(t, records[13].UsedOverrideContribution)
}

func TestCumulativeContributedMonotonic(t *testing.T) {
	cfg := baseConfig(120)
	cfg.Contribution.Amount = 50
	cfg.Contribution.Frequency = models.FrequencyMonthly

	records := Project(cfg, nil, models.DayOverrides{30: 0, 45: 75})
	prev := 0.0
	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.CumulativeContributed, prev)
		prev = rec.CumulativeContributed
	}
	assert.Equal(t, 1000.0, records[0].CumulativeContributed)
}

func TestConcreteCompounding(t *testing.T) {
	records := Project(baseConfig(2), nil, nil)
	require.Len(t, records, 2)

	assert.InDelta(t, 1000, records[0].CapitalAfterContribution, 1e-9)
	assert.InDelta(t, 100, records[0].InterestEarned, 1e-9)
	assert.InDelta(t, 1100, records[0].EndingCapital, 1e-9)

	assert.InDelta(t, 1100, records[1].CapitalBeforeContribution, 1e-9)
	assert.InDelta(t, 110, records[1].InterestEarned, 1e-9)
	assert.InDelta(t, 1210, records[1].EndingCapital, 1e-9)

	summary := Summarize(records)
	assert.InDelta(t, 1210, summary.FinalCapital, 1e-9)
	assert.InDelta(t, 1000, summary.TotalInvested, 1e-9)
	assert.InDelta(t, 210, summary.TotalInterest, 1e-9)
	assert.InDelta(t, 21, summary.TotalReturnPercent, 1e-9)
}

func TestConcreteCompoundingWithOverride(t *testing.T) {
	records := Project(baseConfig(2), models.DayOverrides{1: 0}, nil)
	require.Len(t, records, 2)

	assert.InDelta(t, 0, records[0].InterestEarned, 1e-9)
	assert.InDelta(t, 1000, records[0].EndingCapital, 1e-9)
	assert.True(t, records[0].UsedOverrideReturn)

	assert.Equal(t, 10.0, records[1].AppliedReturnRate)
	assert.InDelta(t, 100, records[1].InterestEarned, 1e-9)
	assert.InDelta(t, 1100, records[1].EndingCapital, 1e-9)
}

func TestNegativeRatesAccumulateLosses(t *testing.T) {
	cfg := baseConfig(5)
	cfg.DailyReturnRate = -1

	records := Project(cfg, nil, nil)
	require.Len(t, records, 5)
	assert.Negative(t, records[4].CumulativeInterest)
	assert.Less(t, records[4].EndingCapital, 1000.0)
	// Continuity holds through losses, no floor at zero is applied.
	for i := 1; i < len(records); i++ {
		assert.Equal(t, records[i-1].EndingCapital, records[i].CapitalBeforeContribution)
	}
}

func TestContributionCadence(t *testing.T) {
	tests := []struct {
		name     string
		plan     models.ContributionPlan
		days     []int
		expected []bool
	}{
		{
			name:     "daily hits every day",
			plan:     models.ContributionPlan{Frequency: models.FrequencyDaily},
			days:     []int{1, 2, 3, 100},
			expected: []bool{true, true, true, true},
		},
		{
			name:     "weekly hits every 7th day",
			plan:     models.ContributionPlan{Frequency: models.FrequencyWeekly},
			days:     []int{1, 6, 7, 8, 14, 21},
			expected: []bool{false, false, true, false, true, true},
		},
		{
			name:     "monthly is a fixed 30 day interval",
			plan:     models.ContributionPlan{Frequency: models.FrequencyMonthly},
			days:     []int{29, 30, 31, 60, 90},
			expected: []bool{false, true, false, true, true},
		},
		{
			name:     "custom interval",
			plan:     models.ContributionPlan{Frequency: models.FrequencyCustom, IntervalDays: 10},
			days:     []int{5, 10, 15, 20},
			expected: []bool{false, true, false, true},
		},
		{
			name:     "custom without interval never schedules",
			plan:     models.ContributionPlan{Frequency: models.FrequencyCustom},
			days:     []int{1, 10},
			expected: []bool{false, false},
		},
		{
			name:     "no frequency never schedules",
			plan:     models.ContributionPlan{},
			days:     []int{1, 7, 30},
			expected: []bool{false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, day := range tt.days {
				assert.Equal(t, tt.expected[i], IsContributionDay(tt.plan, day), "day %d", day)
			}
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, models.ProjectionSummary{}, Summarize(nil))
	assert.Equal(t, models.ProjectionSummary{}, Summarize([]models.DailyRecord{}))
}

func TestSummarizeZeroInvestedGuard(t *testing.T) {
	cfg := baseConfig(10)
	cfg.InitialCapital = 0

	summary := Summarize(Project(cfg, nil, nil))
	assert.Equal(t, 0.0, summary.TotalInvested)
	assert.Equal(t, 0.0, summary.TotalReturnPercent)
}

func TestDayIndex(t *testing.T) {
	cfg := baseConfig(30)

	assert.Equal(t, 1, DayIndex(cfg, testStart))
	assert.Equal(t, 7, DayIndex(cfg, testStart.AddDate(0, 0, 6)))
	assert.Equal(t, 30, DayIndex(cfg, testStart.AddDate(0, 0, 29)))
	assert.Equal(t, 0, DayIndex(cfg, testStart.AddDate(0, 0, -1)), "before the start date")
	assert.Equal(t, 0, DayIndex(cfg, testStart.AddDate(0, 0, 30)), "past the horizon")
}
