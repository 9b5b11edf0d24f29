package domain

import "time"

// Trade represents a journaled trade owned by a single user.
type Trade struct {
	ID         int64      `json:"id" yaml:"id"`                                   // Assigned by storage on creation
	UserID     int64      `json:"userId" yaml:"userId"`                           // Owner, immutable
	Symbol     string     `json:"symbol" yaml:"symbol"`                           // Traded instrument (e.g., "AAPL")
	Direction  Direction  `json:"direction" yaml:"direction"`                     // buy, sell, short or cover
	Size       float64    `json:"size" yaml:"size"`                               // Quantity traded, always > 0
	EntryPrice float64    `json:"entryPrice" yaml:"entryPrice"`                   // Always > 0
	ExitPrice  float64    `json:"exitPrice,omitempty" yaml:"exitPrice,omitempty"` // 0 while the trade is open
	Notes      string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	TradeDate  *time.Time `json:"tradeDate,omitempty" yaml:"tradeDate,omitempty"`
	Tags       []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Sentiment  string     `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" yaml:"createdAt"` // Assigned by storage, drives default ordering
}

// IsCompleted reports whether the trade has a recorded exit price.
func (t *Trade) IsCompleted() bool {
	return t.ExitPrice > 0
}

// TradeCommand is the validated, storage-ready projection of one trade to create.
type TradeCommand struct {
	UserID     int64
	Symbol     string
	Direction  Direction
	Size       float64
	EntryPrice float64
	ExitPrice  float64 // Optional, 0 when open
	Notes      string
	TradeDate  *time.Time
	Tags       []string
	Sentiment  string
}
