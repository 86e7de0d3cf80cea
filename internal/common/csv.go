// Package common provides CSV reading shared by the statement parsers.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// NewReader returns an encoding/csv reader configured for card exports:
// rows may have different lengths and stray quotes are tolerated.
func NewReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// HeaderTrimmingReader is a gocsv.CSVReader that trims surrounding whitespace
// from the cells of the first record, so " 利用日 " matches a csv:"利用日" tag.
type HeaderTrimmingReader struct {
	reader     *csv.Reader
	headerSeen bool
}

// NewHeaderTrimmingReader wraps r with NewReader and header trimming.
func NewHeaderTrimmingReader(r io.Reader) *HeaderTrimmingReader {
	return &HeaderTrimmingReader{reader: NewReader(r)}
}

// Read returns the next record.
func (h *HeaderTrimmingReader) Read() ([]string, error) {
	record, err := h.reader.Read()
	if err != nil {
		return nil, err
	}
	if !h.headerSeen {
		h.headerSeen = true
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
	}
	return record, nil
}

// ReadAll returns every remaining record.
func (h *HeaderTrimmingReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := h.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// UnmarshalRows reads a header-driven CSV into a slice of TRow using its
// `csv` struct tags. Columns without a matching tag are ignored.
func UnmarshalRows[TRow any](r io.Reader) ([]TRow, error) {
	var rows []TRow
	if err := gocsv.UnmarshalCSV(NewHeaderTrimmingReader(r), &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}
	return rows, nil
}

// ReadRecords reads every record of a headerless CSV.
func ReadRecords(r io.Reader) ([][]string, error) {
	records, err := NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return records, nil
}

// Cell returns record[i], or "" when the record is too short.
func Cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
