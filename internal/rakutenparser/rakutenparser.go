// Package rakutenparser parses Rakuten Card statement exports.
//
// The export is header-driven: columns are located by their Japanese labels,
// so reordered or additional columns do not matter.
package rakutenparser

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

// RakutenCSVRow is one row of a Rakuten Card export. Only UsageDate,
// Merchant and Amount are used.
type RakutenCSVRow struct {
	UsageDate     string `csv:"利用日"`
	Merchant      string `csv:"利用店名・商品名"`
	User          string `csv:"利用者"`
	PaymentMethod string `csv:"支払方法"`
	Amount        string `csv:"利用金額"`
	PaymentMonth  string `csv:"支払月"`
}

// Parser implements parser.Parser for Rakuten Card exports.
type Parser struct {
	parser.BaseParser
}

// New creates a Rakuten parser.
func New(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(models.VendorRakuten, logger)}
}

// Parse reads the export and returns one candidate per valid row.
func (p *Parser) Parse(r io.Reader) ([]models.Candidate, error) {
	rows, err := common.UnmarshalRows[RakutenCSVRow](r)
	if err != nil {
		p.GetLogger().WithError(err).Error("Failed to read Rakuten CSV")
		return nil, fmt.Errorf("error reading Rakuten CSV: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(rows))
	for i, row := range rows {
		// Line 1 is the header.
		if c, ok := p.convertRow(i+2, row); ok {
			candidates = append(candidates, c)
		}
	}

	return p.Finish(candidates, len(rows))
}

func (p *Parser) convertRow(line int, row RakutenCSVRow) (models.Candidate, bool) {
	rawDate := strings.TrimSpace(row.UsageDate)
	if strings.Count(rawDate, "/") != 2 {
		p.SkipShape(line, "usage date is not YYYY/MM/DD")
		return models.Candidate{}, false
	}
	date, err := dateutils.ParseSlashDate(rawDate)
	if err != nil {
		p.SkipRow(&parsererror.ParseError{Parser: string(models.VendorRakuten), Row: line, Field: "利用日", Value: row.UsageDate, Err: err})
		return models.Candidate{}, false
	}

	magnitude, err := currencyutils.ParseMagnitude(row.Amount, currencyutils.YenUnits...)
	if err != nil {
		p.SkipRow(&parsererror.ParseError{Parser: string(models.VendorRakuten), Row: line, Field: "利用金額", Value: row.Amount, Err: err})
		return models.Candidate{}, false
	}

	description := strings.TrimSpace(row.Merchant)
	if description == "" {
		p.SkipShape(line, "merchant is empty")
		return models.Candidate{}, false
	}

	return models.NewCandidate(models.VendorRakuten, date, magnitude, description), true
}
