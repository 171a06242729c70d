package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mstagni/pacplan/internal/models"
)

func closedTrade(premium, closePrice, contracts float64) *models.Trade {
	closedAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return &models.Trade{
		Symbol:     "BTC",
		Side:       models.TradeSidePut,
		Premium:    premium,
		Contracts:  contracts,
		ClosePrice: closePrice,
		ClosedAt:   &closedAt,
		Status:     models.TradeStatusClosed,
	}
}

func TestComputeTradeStatsEmpty(t *testing.T) {
	stats := computeTradeStats(nil)
	assert.Equal(t, models.TradeStats{}, stats)
}

func TestComputeTradeStatsOpenCollateral(t *testing.T) {
	trades := []*models.Trade{
		{Side: models.TradeSidePut, Premium: 500, Contracts: 1, Collateral: 60000, Status: models.TradeStatusOpen},
		{Side: models.TradeSideCall, Premium: 300, Contracts: 2, Status: models.TradeStatusOpen},
	}

	stats := computeTradeStats(trades)
	assert.Equal(t, 2, stats.OpenTrades)
	assert.Equal(t, 0, stats.ClosedTrades)
	assert.InDelta(t, 1100, stats.PremiumCollected, 1e-9)
	assert.InDelta(t, 60000, stats.OpenCollateral, 1e-9)
	assert.Equal(t, 0.0, stats.WinRate)
}

func TestComputeTradeStatsRealizedPnL(t *testing.T) {
	trades := []*models.Trade{
		closedTrade(500, 0, 1),   // expired worthless: +500
		closedTrade(300, 450, 1), // bought back above premium: -150
		closedTrade(200, 100, 2), // partial buy-back: +200
	}

	stats := computeTradeStats(trades)
	assert.Equal(t, 3, stats.ClosedTrades)
	assert.InDelta(t, 550, stats.RealizedPnL, 1e-9)
	assert.InDelta(t, 1200, stats.PremiumCollected, 1e-9)
	assert.InDelta(t, 100.0/3*2, stats.WinRate, 1e-9)
}
