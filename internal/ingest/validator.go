package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

// Outcome is the result of validating one row: either an accepted command or a skip reason.
type Outcome struct {
	Line    int                 `json:"line"`
	Command domain.TradeCommand `json:"-"`                // Valid only when OK() is true
	Reason  string              `json:"reason,omitempty"` // Why the row was skipped, "" when accepted
}

// OK reports whether the row produced a command.
func (o Outcome) OK() bool {
	return o.Reason == ""
}

func skip(line int, format string, args ...interface{}) Outcome {
	return Outcome{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// parseFinite parses s as a float64 and rejects NaN and infinities.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ValidateRow converts a raw row into a TradeCommand owned by userID.
// It never fails the batch: every problem is reported as a skipped Outcome.
func ValidateRow(row RawRow, userID int64) Outcome {
	if row.IsBlank() {
		return skip(row.Line, "empty row")
	}

	symbol := row.Get(ColSymbol)
	if symbol == "" {
		return skip(row.Line, "missing symbol")
	}
	rawDirection := row.Get(ColDirection)
	if rawDirection == "" {
		return skip(row.Line, "missing direction")
	}
	direction, known := domain.ParseDirection(rawDirection)
	if !known {
		return skip(row.Line, "unknown direction %q", rawDirection)
	}

	size, ok := parseFinite(row.Get(ColSize))
	if !ok {
		return skip(row.Line, "size %q is not a number", row.Get(ColSize))
	}
	if size <= 0 {
		return skip(row.Line, "size must be positive, got %v", size)
	}

	entryPrice, ok := parseFinite(row.Get(ColEntryPrice))
	if !ok {
		return skip(row.Line, "entry price %q is not a number", row.Get(ColEntryPrice))
	}
	if entryPrice <= 0 {
		return skip(row.Line, "entry price must be positive, got %v", entryPrice)
	}

	var exitPrice float64
	if raw := row.Get(ColExitPrice); raw != "" {
		exitPrice, ok = parseFinite(raw)
		if !ok {
			return skip(row.Line, "exit price %q is not a number", raw)
		}
		if exitPrice < 0 {
			exitPrice = 0 // recorded as open
		}
	}

	return Outcome{
		Line: row.Line,
		Command: domain.TradeCommand{
			UserID:     userID,
			Symbol:     symbol,
			Direction:  direction,
			Size:       size,
			EntryPrice: entryPrice,
			ExitPrice:  exitPrice,
			Notes:      row.Get(ColNotes),
		},
	}
}

// ValidateCommand applies the row rules to a single-entry trade and normalizes its
// direction and text fields. Failures wrap ports.ErrInvalidRequest.
func ValidateCommand(cmd domain.TradeCommand) (domain.TradeCommand, error) {
	cmd.Symbol = strings.TrimSpace(cmd.Symbol)
	cmd.Notes = strings.TrimSpace(cmd.Notes)
	cmd.Sentiment = strings.TrimSpace(cmd.Sentiment)

	var problems []string
	if cmd.UserID == 0 {
		problems = append(problems, "user is required")
	}
	if cmd.Symbol == "" {
		problems = append(problems, "symbol is required")
	}
	direction, known := domain.ParseDirection(string(cmd.Direction))
	if !known {
		problems = append(problems, "direction must be one of buy, sell, short, cover")
	}
	cmd.Direction = direction
	if !(cmd.Size > 0) || math.IsInf(cmd.Size, 0) {
		problems = append(problems, "size must be a positive number")
	}
	if !(cmd.EntryPrice > 0) || math.IsInf(cmd.EntryPrice, 0) {
		problems = append(problems, "entry price must be a positive number")
	}
	if cmd.ExitPrice < 0 || math.IsNaN(cmd.ExitPrice) || math.IsInf(cmd.ExitPrice, 0) {
		problems = append(problems, "exit price must be a positive number when set")
	}

	if len(problems) > 0 {
		return cmd, fmt.Errorf("%w: %s", ports.ErrInvalidRequest, strings.Join(problems, "; "))
	}
	return cmd, nil
}
