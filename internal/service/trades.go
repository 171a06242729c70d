package service

import (
	"fmt"
	"time"

	"github.com/mstagni/pacplan/internal/models"
)

// OpenTrade validates and stores a new wheel strategy position. Collateral
// defaults to strike * contracts for cash secured puts when not given.
func (s *Service) OpenTrade(userID int64, trade *models.Trade) (*models.Trade, error) {
	if trade.Symbol == "" {
		return nil, fmt.Errorf("symbol is required: %w", ErrInvalid)
	}
	if trade.Side != models.TradeSidePut && trade.Side != models.TradeSideCall {
		return nil, fmt.Errorf("unknown trade side %q: %w", trade.Side, ErrInvalid)
	}
	if trade.Strike <= 0 {
		return nil, fmt.Errorf("strike must be positive: %w", ErrInvalid)
	}
	if trade.Premium < 0 {
		return nil, fmt.Errorf("premium cannot be negative: %w", ErrInvalid)
	}
	if trade.Contracts <= 0 {
		return nil, fmt.Errorf("contracts must be positive: %w", ErrInvalid)
	}
	if _, err := s.repo.FindUserByID(userID); err != nil {
		return nil, err
	}

	trade.UserID = userID
	trade.Status = models.TradeStatusOpen
	if trade.OpenedAt.IsZero() {
		trade.OpenedAt = time.Now().UTC()
	}
	if trade.Collateral == 0 && trade.Side == models.TradeSidePut {
		trade.Collateral = trade.Strike * trade.Contracts
	}
	if err := s.repo.CreateTrade(trade); err != nil {
		return nil, err
	}

	s.log.Infof("Trade opened for user %d: %s %s @ %.2f", userID, trade.Symbol, trade.Side, trade.Strike)
	return trade, nil
}

// CloseTrade closes an open position at the given buy-back price. A price of
// 0 means the option expired worthless.
func (s *Service) CloseTrade(userID, tradeID int64, closePrice float64) (*models.Trade, error) {
	trade, err := s.repo.FindTradeByID(tradeID)
	if err != nil {
		return nil, err
	}
	if trade.UserID != userID {
		return nil, fmt.Errorf("trade does not belong to user: %w", ErrForbidden)
	}
	if trade.Status != models.TradeStatusOpen {
		return nil, fmt.Errorf("trade %d is already closed: %w", tradeID, ErrInvalid)
	}
	if closePrice < 0 {
		return nil, fmt.Errorf("close price cannot be negative: %w", ErrInvalid)
	}

	closedAt := time.Now().UTC()
	if err := s.repo.CloseTrade(tradeID, closePrice, closedAt); err != nil {
		return nil, err
	}
	trade.Status = models.TradeStatusClosed
	trade.ClosePrice = closePrice
	trade.ClosedAt = &closedAt

	s.log.Infof("Trade closed for user %d: %d @ %.2f", userID, tradeID, closePrice)
	return trade, nil
}

// ListTrades retrieves all trades of the user
func (s *Service) ListTrades(userID int64) ([]*models.Trade, error) {
	return s.repo.ListTradesByUser(userID)
}

// TradeStats aggregates the user's wheel strategy performance. Market data
// enrichment is best effort: failures are logged and the EUR fields stay
// empty.
func (s *Service) TradeStats(userID int64) (*models.TradeStats, error) {
	trades, err := s.repo.ListTradesByUser(userID)
	if err != nil {
		return nil, err
	}
	stats := computeTradeStats(trades)

	if s.spot != nil {
		price, err := s.spot.SpotPriceUSD()
		if err != nil {
			s.log.Warnf("Failed to fetch spot price: %v", err)
		} else {
			stats.SpotPriceUSD = price
		}
	}
	if s.rates != nil && stats.OpenCollateral > 0 {
		rate, err := s.rates.EURUSD()
		if err != nil {
			s.log.Warnf("Failed to fetch EUR/USD rate: %v", err)
		} else if rate > 0 {
			stats.EURUSDRate = rate
			stats.OpenCollateralEUR = stats.OpenCollateral / rate
		}
	}
	return &stats, nil
}

// computeTradeStats reduces a trade list to aggregate figures. Realized P&L
// of a closed position is (premium - close price) * contracts: selling the
// option collects the premium, closing costs the buy-back price.
func computeTradeStats(trades []*models.Trade) models.TradeStats {
	stats := models.TradeStats{}
	wins := 0
	for _, trade := range trades {
		stats.PremiumCollected += trade.Premium * trade.Contracts
		switch trade.Status {
		case models.TradeStatusOpen:
			stats.OpenTrades++
			stats.OpenCollateral += trade.Collateral
		case models.TradeStatusClosed:
			stats.ClosedTrades++
			pnl := (trade.Premium - trade.ClosePrice) * trade.Contracts
			stats.RealizedPnL += pnl
			if pnl > 0 {
				wins++
			}
		}
	}
	if stats.ClosedTrades > 0 {
		stats.WinRate = float64(wins) / float64(stats.ClosedTrades) * 100
	}
	return stats
}
