// Package ingest turns an uploaded CSV file into validated trade commands.
//
// The pipeline has three stages: Reader normalizes the header and yields raw rows,
// ValidateRow converts each row into an Outcome (accepted or skipped), and Accept
// applies the batch-level rule that at least one row survived.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode"

	"tradeJournal/internal/ports"
)

// Normalized names of the columns every upload must carry, in check order.
const (
	ColSymbol     = "symbol"
	ColDirection  = "direction"
	ColSize       = "size"
	ColEntryPrice = "entryprice"
	ColExitPrice  = "exitprice"
	ColNotes      = "notes"
)

// RequiredColumns lists the normalized header names checked by NewReader.
var RequiredColumns = []string{ColSymbol, ColDirection, ColSize, ColEntryPrice}

// HeaderError reports the first required column missing from an upload.
type HeaderError struct {
	Missing string
	Found   []string // Normalized header names actually present
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("Missing required CSV header: %s. Headers found: %s", e.Missing, strings.Join(e.Found, ", "))
}

func (e *HeaderError) Unwrap() error {
	return ports.ErrMissingHeader
}

// NormalizeColumn trims, lowercases and removes internal whitespace: "Entry Price" -> "entryprice".
func NormalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// RawRow is one data row keyed by normalized column name.
type RawRow struct {
	Line   int // 1-based line in the source file
	Fields map[string]string
}

// Get returns the trimmed value of col, or "" if the row has no such field.
func (r RawRow) Get(col string) string {
	return strings.TrimSpace(r.Fields[col])
}

// IsBlank reports whether every field of the row is empty.
func (r RawRow) IsBlank() bool {
	for _, v := range r.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Reader yields the data rows of a CSV upload after its header passed the required-column check.
type Reader struct {
	csv      *csv.Reader
	header   []string // Normalized, "" for ignored positions
	found    []string
	warnings []string
	err      error
}

// NewReader reads and validates the header row. A missing required column is
// returned as a *HeaderError before any data row is read.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are padded or truncated, not rejected
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rd := &Reader{csv: cr}

	record, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: reading header: %v", ports.ErrUnreadableFile, err)
	}

	// A repeated column name overrides the earlier position.
	seen := make(map[string]int, len(record))
	rd.header = make([]string, len(record))
	for i, raw := range record {
		name := NormalizeColumn(raw)
		if name == "" {
			continue
		}
		if prev, dup := seen[name]; dup {
			rd.header[prev] = ""
			rd.warnings = append(rd.warnings, fmt.Sprintf("duplicate column %q at position %d overrides position %d", name, i+1, prev+1))
		} else {
			rd.found = append(rd.found, name)
		}
		seen[name] = i
		rd.header[i] = name
	}

	for _, col := range RequiredColumns {
		if _, ok := seen[col]; !ok {
			return nil, &HeaderError{Missing: col, Found: rd.found}
		}
	}
	return rd, nil
}

// Columns returns the normalized header names in file order.
func (rd *Reader) Columns() []string {
	return rd.found
}

// Warnings returns non-fatal tokenization problems seen so far.
func (rd *Reader) Warnings() []string {
	return rd.warnings
}

// Err returns the I/O error that ended iteration early, if any.
func (rd *Reader) Err() error {
	return rd.err
}

// Rows lazily yields data rows in file order. Malformed records are recorded
// as warnings and skipped; blank rows are yielded for the validator to discard.
func (rd *Reader) Rows() iter.Seq[RawRow] {
	return func(yield func(RawRow) bool) {
		for {
			record, err := rd.csv.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var pe *csv.ParseError
				if errors.As(err, &pe) {
					rd.warnings = append(rd.warnings, pe.Error())
					continue
				}
				rd.err = fmt.Errorf("%w: %v", ports.ErrUnreadableFile, err)
				return
			}

			line, _ := rd.csv.FieldPos(0)
			row := RawRow{Line: line, Fields: make(map[string]string, len(rd.found))}
			for _, col := range rd.found {
				row.Fields[col] = ""
			}
			for i, value := range record {
				if i >= len(rd.header) {
					rd.warnings = append(rd.warnings, fmt.Sprintf("line %d: %d extra field(s) ignored", line, len(record)-len(rd.header)))
					break
				}
				if rd.header[i] != "" {
					row.Fields[rd.header[i]] = value
				}
			}

			if !yield(row) {
				return
			}
		}
	}
}
