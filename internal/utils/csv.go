package utils

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"tradeJournal/internal/domain"
)

// TradeCSVHeader is the column layout written by WriteTradesToCSV. The importer accepts it as is.
var TradeCSVHeader = []string{"symbol", "direction", "size", "entry price", "exit price", "notes"}

// WriteTradesToCSV writes trades to w in the import format. Open trades get an empty exit price.
func WriteTradesToCSV(w io.Writer, trades []domain.Trade) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(TradeCSVHeader); err != nil {
		return err
	}

	for _, t := range trades {
		exit := ""
		if t.IsCompleted() {
			exit = strconv.FormatFloat(t.ExitPrice, 'f', -1, 64)
		}
		if err := writer.Write([]string{
			t.Symbol,
			t.Direction.String(),
			strconv.FormatFloat(t.Size, 'f', -1, 64),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			exit,
			t.Notes,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTradesToFile creates filename and writes trades into it.
func WriteTradesToFile(trades []domain.Trade, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteTradesToCSV(file, trades); err != nil {
		return err
	}
	return file.Close()
}
