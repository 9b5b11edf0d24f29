package ingest

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Entry Price", "entryprice"},
		{"  Symbol ", "symbol"},
		{"DIRECTION", "direction"},
		{"\ufeffSymbol", "symbol"},
		{"Exit\tPrice", "exitprice"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeColumn(tt.in), tt.in)
	}
}

func TestNewReader_AcceptsNormalizedHeaders(t *testing.T) {
	rd, err := NewReader(strings.NewReader("Symbol, Direction ,SIZE,Entry Price\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"symbol", "direction", "size", "entryprice"}, rd.Columns())
}

func TestNewReader_MissingHeader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing string
		message string
	}{
		{
			name:    "missing size",
			input:   "Symbol,Direction,Count\nAAPL,buy,10\n",
			missing: "size",
			message: "Missing required CSV header: size. Headers found: symbol, direction, count",
		},
		{
			name:    "empty file",
			input:   "",
			missing: "symbol",
			message: "Missing required CSV header: symbol. Headers found: ",
		},
		{
			name:    "entry price missing",
			input:   "symbol,direction,size,exit price\n",
			missing: "entryprice",
			message: "Missing required CSV header: entryprice. Headers found: symbol, direction, size, exitprice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd, err := NewReader(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, rd)

			var herr *HeaderError
			require.True(t, errors.As(err, &herr))
			assert.Equal(t, tt.missing, herr.Missing)
			assert.Equal(t, tt.message, err.Error())
			assert.ErrorIs(t, err, ports.ErrMissingHeader)
		})
	}
}

func TestReader_RowsPreserveOrderAndPadRaggedRows(t *testing.T) {
	input := "symbol,direction,size,entry price,notes\n" +
		"AAPL,buy,10,150.25,first\n" +
		"GOOG,sell,5\n" +
		"TSLA,buy,20,700.00,x,extra\n"
	rd, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	var rows []RawRow
	for row := range rd.Rows() {
		rows = append(rows, row)
	}
	require.NoError(t, rd.Err())
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "AAPL", rows[0].Get(ColSymbol))
	assert.Equal(t, "first", rows[0].Get(ColNotes))
	assert.Equal(t, "GOOG", rows[1].Get(ColSymbol))
	assert.Equal(t, "", rows[1].Get(ColEntryPrice))
	assert.Equal(t, "TSLA", rows[2].Get(ColSymbol))
	assert.Len(t, rd.Warnings(), 1)
}

func TestReader_DuplicateColumnLastWins(t *testing.T) {
	input := "symbol,direction,size,entryprice,Entry Price\n" +
		"AAPL,buy,10,1,150.25\n"
	rd, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{ColSymbol, ColDirection, ColSize, ColEntryPrice}, rd.Columns())
	require.Len(t, rd.Warnings(), 1)
	assert.Contains(t, rd.Warnings()[0], "overrides position 4")

	var rows []RawRow
	for row := range rd.Rows() {
		rows = append(rows, row)
	}
	require.Len(t, rows, 1)
	assert.Equal(t, "150.25", rows[0].Get(ColEntryPrice))
}

func TestReader_RowsStopEarly(t *testing.T) {
	rd, err := NewReader(strings.NewReader("symbol,direction,size,entryprice\nA,buy,1,1\nB,buy,1,1\n"))
	require.NoError(t, err)

	count := 0
	for range rd.Rows() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func row(fields map[string]string) RawRow {
	return RawRow{Line: 7, Fields: fields}
}

func TestValidateRow(t *testing.T) {
	valid := map[string]string{"symbol": "AAPL", "direction": "BUY", "size": "10", "entryprice": "150.25"}
	with := func(k, v string) map[string]string {
		out := make(map[string]string, len(valid))
		for key, val := range valid {
			out[key] = val
		}
		out[k] = v
		return out
	}

	tests := []struct {
		name   string
		fields map[string]string
		reason string
	}{
		{name: "valid", fields: valid},
		{name: "blank row", fields: map[string]string{"symbol": "", "direction": " ", "size": "", "entryprice": ""}, reason: "empty row"},
		{name: "missing symbol", fields: with("symbol", ""), reason: "missing symbol"},
		{name: "missing direction", fields: with("direction", ""), reason: "missing direction"},
		{name: "unknown direction", fields: with("direction", "long"), reason: `unknown direction "long"`},
		{name: "size not a number", fields: with("size", "abc"), reason: `size "abc" is not a number`},
		{name: "size infinite", fields: with("size", "Inf"), reason: `size "Inf" is not a number`},
		{name: "size zero", fields: with("size", "0"), reason: "size must be positive, got 0"},
		{name: "entry price NaN", fields: with("entryprice", "NaN"), reason: `entry price "NaN" is not a number`},
		{name: "entry price negative", fields: with("entryprice", "-1"), reason: "entry price must be positive, got -1"},
		{name: "exit price garbage", fields: with("exitprice", "soon"), reason: `exit price "soon" is not a number`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ValidateRow(row(tt.fields), 42)
			assert.Equal(t, 7, out.Line)
			if tt.reason == "" {
				require.True(t, out.OK())
				return
			}
			assert.False(t, out.OK())
			assert.Equal(t, tt.reason, out.Reason)
		})
	}
}

func TestValidateRow_BuildsCommand(t *testing.T) {
	out := ValidateRow(row(map[string]string{
		"symbol": " MSFT ", "direction": "Short", "size": "15", "entryprice": "300.00",
		"exitprice": "290.5", "notes": "earnings fade",
	}), 9)

	require.True(t, out.OK())
	assert.Equal(t, domain.TradeCommand{
		UserID:     9,
		Symbol:     "MSFT",
		Direction:  domain.DirectionShort,
		Size:       15,
		EntryPrice: 300,
		ExitPrice:  290.5,
		Notes:      "earnings fade",
	}, out.Command)
}

func TestAccept(t *testing.T) {
	ok1 := Outcome{Line: 2, Command: domain.TradeCommand{Symbol: "A"}}
	bad := Outcome{Line: 3, Reason: "missing symbol"}
	ok2 := Outcome{Line: 4, Command: domain.TradeCommand{Symbol: "B"}}

	cmds, err := Accept([]Outcome{ok1, bad, ok2})
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "A", cmds[0].Symbol)
	assert.Equal(t, "B", cmds[1].Symbol)

	_, err = Accept([]Outcome{bad})
	assert.ErrorIs(t, err, ports.ErrNoValidTrades)

	_, err = Accept(nil)
	assert.ErrorIs(t, err, ports.ErrNoValidTrades)
}

func TestParse_ValidFile(t *testing.T) {
	input := "Symbol,Direction,Size,Entry Price\n" +
		"AAPL,buy,10,150.25\n" +
		"GOOG,sell,5,2800.50\n" +
		"TSLA,buy,20,700.00\n"

	b, err := Parse(strings.NewReader(input), 5)
	require.NoError(t, err)
	require.Len(t, b.Commands, 3)
	assert.Empty(t, b.Skipped)

	symbols := []string{b.Commands[0].Symbol, b.Commands[1].Symbol, b.Commands[2].Symbol}
	assert.Equal(t, []string{"AAPL", "GOOG", "TSLA"}, symbols)
	for _, c := range b.Commands {
		assert.Equal(t, int64(5), c.UserID)
	}
	assert.Equal(t, domain.DirectionSell, b.Commands[1].Direction)
	assert.Equal(t, 700.0, b.Commands[2].EntryPrice)
}

func TestParse_SkipsInvalidRowsWithoutAborting(t *testing.T) {
	input := "Symbol,Direction,Size,Entry Price\n" +
		"MSFT,buy,15,300.00\n" +
		",,,, \n" +
		"NVDA,sell,abc,550.00\n"

	b, err := Parse(strings.NewReader(input), 1)
	require.NoError(t, err)
	require.Len(t, b.Commands, 1)
	assert.Equal(t, "MSFT", b.Commands[0].Symbol)
	require.Len(t, b.Skipped, 2)
	assert.Equal(t, "empty row", b.Skipped[0].Reason)
	assert.Equal(t, 4, b.Skipped[1].Line)
}

func TestParse_NoValidTrades(t *testing.T) {
	b, err := Parse(strings.NewReader("symbol,direction,size,entryprice\nNVDA,sell,abc,550\n"), 1)
	assert.ErrorIs(t, err, ports.ErrNoValidTrades)
	require.NotNil(t, b)
	assert.Len(t, b.Skipped, 1)

	_, err = Parse(strings.NewReader("symbol,direction,size,entryprice\n"), 1)
	assert.ErrorIs(t, err, ports.ErrNoValidTrades)
}

func TestParse_MissingHeaderAbortsBeforeRows(t *testing.T) {
	b, err := Parse(strings.NewReader("Symbol,Direction,Entry Price\nAAPL,buy,1\n"), 1)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, ports.ErrMissingHeader)
	assert.Contains(t, err.Error(), "Missing required CSV header: size")
}

func TestValidateCommand(t *testing.T) {
	cmd, err := ValidateCommand(domain.TradeCommand{
		UserID: 1, Symbol: " AAPL ", Direction: "Cover", Size: 1, EntryPrice: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", cmd.Symbol)
	assert.Equal(t, domain.DirectionCover, cmd.Direction)

	_, err = ValidateCommand(domain.TradeCommand{
		UserID: 1, Symbol: "", Direction: "hold", Size: math.NaN(), EntryPrice: -3, ExitPrice: -1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
	for _, part := range []string{"symbol is required", "direction must be", "size must be", "entry price must be", "exit price must be"} {
		assert.Contains(t, err.Error(), part)
	}
}
