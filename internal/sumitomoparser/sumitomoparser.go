// Package sumitomoparser parses Sumitomo Mitsui Card (SMBC) statement exports.
//
// The export has no usable header. Its first line identifies the card
// (masked number, brand, holder) and is always discarded; every following
// line is positional: date, merchant, amount, then installment columns that
// are not used.
package sumitomoparser

import (
	"fmt"
	"io"
	"strings"

	"kakeibo/internal/common"
	"kakeibo/internal/currencyutils"
	"kakeibo/internal/dateutils"
	"kakeibo/internal/logging"
	"kakeibo/internal/models"
	"kakeibo/internal/parser"
	"kakeibo/internal/parsererror"
)

// Column positions of a data row.
const (
	colDate     = 0
	colMerchant = 1
	colAmount   = 2
)

// SumitomoCSVRow is the typed view of a positional data row.
type SumitomoCSVRow struct {
	UsageDate string
	Merchant  string
	Amount    string
}

// RowFromRecord maps a raw record onto SumitomoCSVRow. Missing trailing
// cells become empty strings.
func RowFromRecord(record []string) SumitomoCSVRow {
	return SumitomoCSVRow{
		UsageDate: common.Cell(record, colDate),
		Merchant:  common.Cell(record, colMerchant),
		Amount:    common.Cell(record, colAmount),
	}
}

// Parser implements parser.Parser for Sumitomo Mitsui Card exports.
type Parser struct {
	parser.BaseParser
}

// New creates a Sumitomo parser.
func New(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(models.VendorSumitomo, logger)}
}

// Parse reads the export and returns one candidate per valid row.
func (p *Parser) Parse(r io.Reader) ([]models.Candidate, error) {
	records, err := common.ReadRecords(r)
	if err != nil {
		p.GetLogger().WithError(err).Error("Failed to read Sumitomo CSV")
		return nil, fmt.Errorf("error reading Sumitomo CSV: %w", err)
	}

	var candidates []models.Candidate
	dataRows := 0
	for i, record := range records {
		if i == 0 {
			continue
		}
		dataRows++
		if c, ok := p.convertRow(i+1, RowFromRecord(record)); ok {
			candidates = append(candidates, c)
		}
	}

	return p.Finish(candidates, dataRows)
}

func (p *Parser) convertRow(line int, row SumitomoCSVRow) (models.Candidate, bool) {
	rawDate := strings.TrimSpace(row.UsageDate)
	if rawDate == "" {
		p.SkipShape(line, "usage date is empty")
		return models.Candidate{}, false
	}
	if strings.Count(rawDate, "/") != 2 {
		p.SkipShape(line, "usage date is not YYYY/MM/DD")
		return models.Candidate{}, false
	}
	date, err := dateutils.ParseSlashDate(rawDate)
	if err != nil {
		p.SkipRow(&parsererror.ParseError{Parser: string(models.VendorSumitomo), Row: line, Field: "date", Value: row.UsageDate, Err: err})
		return models.Candidate{}, false
	}

	description := strings.TrimSpace(row.Merchant)
	if description == "" {
		p.SkipShape(line, "merchant is empty")
		return models.Candidate{}, false
	}

	magnitude, err := currencyutils.ParseMagnitude(row.Amount)
	if err != nil {
		p.SkipRow(&parsererror.ParseError{Parser: string(models.VendorSumitomo), Row: line, Field: "amount", Value: row.Amount, Err: err})
		return models.Candidate{}, false
	}

	return models.NewCandidate(models.VendorSumitomo, date, magnitude, description), true
}
