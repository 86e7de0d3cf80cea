// Package factory maps a detected vendor onto its parser.
package factory

import (
	"fmt"

	"kakeibo/internal/logging"
	"kakeibo/internal/models"
	"kakeibo/internal/parser"
	"kakeibo/internal/rakutenparser"
	"kakeibo/internal/sumitomoparser"
)

// GetParser returns a new parser for vendor.
func GetParser(vendor models.Vendor, logger logging.Logger) (parser.Parser, error) {
	switch vendor {
	case models.VendorRakuten:
		return rakutenparser.New(logger), nil
	case models.VendorSumitomo:
		return sumitomoparser.New(logger), nil
	default:
		return nil, fmt.Errorf("unknown vendor: %s", vendor)
	}
}
