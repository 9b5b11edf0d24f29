package ingest

import (
	"io"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

// Batch is the validated content of one upload.
type Batch struct {
	Columns  []string
	Commands []domain.TradeCommand // Accepted rows, in file order
	Skipped  []Outcome
	Warnings []string
}

// Accept is the batch guard: it returns the accepted commands in input order,
// or ports.ErrNoValidTrades when no row survived validation.
func Accept(outcomes []Outcome) ([]domain.TradeCommand, error) {
	cmds := make([]domain.TradeCommand, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			cmds = append(cmds, o.Command)
		}
	}
	if len(cmds) == 0 {
		return nil, ports.ErrNoValidTrades
	}
	return cmds, nil
}

// Parse runs the full ingestion pipeline over r for userID. A header failure
// returns a *HeaderError and nil batch. An empty result returns the batch
// (so skipped rows can still be reported) together with ports.ErrNoValidTrades.
func Parse(r io.Reader, userID int64) (*Batch, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for row := range rd.Rows() {
		outcomes = append(outcomes, ValidateRow(row, userID))
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}

	b := &Batch{Columns: rd.Columns(), Warnings: rd.Warnings()}
	for _, o := range outcomes {
		if !o.OK() {
			b.Skipped = append(b.Skipped, o)
		}
	}

	b.Commands, err = Accept(outcomes)
	if err != nil {
		return b, err
	}
	return b, nil
}
