package ports

import (
	"context"

	"tradeJournal/internal/domain"
)

// TradeRepository defines the storage collaborator for journaled trades.
type TradeRepository interface {
	// CreateTrades persists commands sequentially and returns the created trades
	// in input order. A failed write is reported as a *PersistenceError.
	CreateTrades(ctx context.Context, cmds []domain.TradeCommand) ([]domain.Trade, error)
	// ListTradesForUser retrieves a user's trades, most recently created first.
	ListTradesForUser(ctx context.Context, userID int64) ([]domain.Trade, error)
	// FindByID retrieves a trade owned by userID.
	// Returns nil, nil if not found.
	FindByID(ctx context.Context, id, userID int64) (*domain.Trade, error)
}
