package models

import "time"

// Trade sides for the wheel strategy.
const (
	TradeSidePut  = "cash_secured_put"
	TradeSideCall = "covered_call"
)

// Trade statuses.
const (
	TradeStatusOpen   = "open"
	TradeStatusClosed = "closed"
)

// Trade represents one options position tracked for the wheel strategy.
// Premium and ClosePrice are per contract; a trade closed at 0 expired
// worthless.
type Trade struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Symbol     string     `json:"symbol"`
	Side       string     `json:"side"`
	Strike     float64    `json:"strike"`
	Premium    float64    `json:"premium"`
	Contracts  float64    `json:"contracts"`
	Collateral float64    `json:"collateral"`
	OpenedAt   time.Time  `json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	ClosePrice float64    `json:"close_price"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TradeStats aggregates a user's wheel strategy performance. The EUR fields
// are only populated when market data was available at request time.
type TradeStats struct {
	OpenTrades        int     `json:"open_trades"`
	ClosedTrades      int     `json:"closed_trades"`
	PremiumCollected  float64 `json:"premium_collected"`
	OpenCollateral    float64 `json:"open_collateral"`
	RealizedPnL       float64 `json:"realized_pnl"`
	WinRate           float64 `json:"win_rate"`
	SpotPriceUSD      float64 `json:"spot_price_usd,omitempty"`
	EURUSDRate        float64 `json:"eur_usd_rate,omitempty"`
	OpenCollateralEUR float64 `json:"open_collateral_eur,omitempty"`
}
