package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mstagni/pacplan/internal/models"
)

const tradeColumns = `id, user_id, symbol, side, strike, premium, contracts, collateral,
		opened_at, closed_at, close_price, status, created_at, updated_at`

// CreateTrade stores a new open trade
func (r *Repository) CreateTrade(trade *models.Trade) error {
	query := `
		INSERT INTO pac.trades (user_id, symbol, side, strike, premium, contracts, collateral,
			opened_at, close_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		trade.UserID, trade.Symbol, trade.Side, trade.Strike, trade.Premium,
		trade.Contracts, trade.Collateral, trade.OpenedAt, trade.Status).
		Scan(&trade.ID, &trade.CreatedAt, &trade.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

// FindTradeByID retrieves a trade by id
func (r *Repository) FindTradeByID(id int64) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM pac.trades WHERE id = $1`
	trade, err := scanTrade(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trade %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find trade: %w", err)
	}
	return trade, nil
}

// ListTradesByUser retrieves all trades of a user, newest first
func (r *Repository) ListTradesByUser(userID int64) ([]*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM pac.trades WHERE user_id = $1 ORDER BY opened_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	trades := []*models.Trade{}
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// CloseTrade marks an open trade as closed at the given price
func (r *Repository) CloseTrade(id int64, closePrice float64, closedAt time.Time) error {
	query := `
		UPDATE pac.trades
		SET status = $2, close_price = $3, closed_at = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	result, err := r.db.Exec(query, id, models.TradeStatusClosed, closePrice, closedAt)
	if err != nil {
		return fmt.Errorf("failed to close trade: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close trade: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trade %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	trade := &models.Trade{}
	var closedAt sql.NullTime
	err := row.Scan(
		&trade.ID, &trade.UserID, &trade.Symbol, &trade.Side, &trade.Strike,
		&trade.Premium, &trade.Contracts, &trade.Collateral,
		&trade.OpenedAt, &closedAt, &trade.ClosePrice, &trade.Status,
		&trade.CreatedAt, &trade.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if closedAt.Valid {
		trade.ClosedAt = &closedAt.Time
	}
	return trade, nil
}
