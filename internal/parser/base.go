package parser

import (
	"kakeibo/internal/logging"
	"kakeibo/internal/models"
	"kakeibo/internal/parsererror"
)

// BaseParser carries the logger and the row bookkeeping common to all
// vendor parsers. Parsers embed it:
//
//	type Parser struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	vendor models.Vendor
	logger logging.Logger
}

// NewBaseParser creates a BaseParser for vendor. A nil logger gets a default
// logrus-backed one.
func NewBaseParser(vendor models.Vendor, logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseParser{
		vendor: vendor,
		logger: logger.WithField(logging.FieldVendor, string(vendor)),
	}
}

// Vendor returns the vendor tag the parser handles.
func (b *BaseParser) Vendor() models.Vendor {
	return b.vendor
}

// GetLogger returns the parser's logger.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// SkipRow logs a row rejected because of an unexpected value.
func (b *BaseParser) SkipRow(err *parsererror.ParseError) {
	b.logger.WithError(err).Warn("Skipping malformed row",
		logging.F(logging.FieldRow, err.Row),
		logging.F("field", err.Field))
}

// SkipShape logs a row that does not look like a transaction at all, such as
// a trailing summary line. These are expected and only logged at debug level.
func (b *BaseParser) SkipShape(row int, reason string) {
	b.logger.Debug("Skipping non-transaction row",
		logging.F(logging.FieldRow, row),
		logging.F(logging.FieldReason, reason))
}

// Finish applies the zero-survivor rule: an empty result is an error.
func (b *BaseParser) Finish(candidates []models.Candidate, rows int) ([]models.Candidate, error) {
	if len(candidates) == 0 {
		return nil, &parsererror.NoValidTransactionsError{Vendor: string(b.vendor), Rows: rows}
	}
	b.logger.Info("Parsed statement",
		logging.F(logging.FieldCount, len(candidates)),
		logging.F("rows", rows))
	return candidates, nil
}
