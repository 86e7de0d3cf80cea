// Package currencyutils cleans statement amount cells into decimal values.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Thousands separators seen in yen statements.
var thousandsSeparators = []string{",", "，"}

// YenUnits are the currency markers some exports append or prepend.
var YenUnits = []string{"円", "¥", "￥"}

// ParseMagnitude removes thousands separators and the given unit markers from
// raw and returns the absolute value. An empty or unparseable cell is an error,
// as is a zero amount.
func ParseMagnitude(raw string, units ...string) (decimal.Decimal, error) {
	cleaned := StripAmount(raw, units...)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", raw, err)
	}
	if amount.IsZero() {
		return decimal.Zero, fmt.Errorf("amount is zero")
	}
	return amount.Abs(), nil
}

// StripAmount removes separators and units and trims whitespace.
func StripAmount(raw string, units ...string) string {
	s := raw
	for _, sep := range thousandsSeparators {
		s = strings.ReplaceAll(s, sep, "")
	}
	for _, unit := range units {
		s = strings.ReplaceAll(s, unit, "")
	}
	return strings.TrimSpace(s)
}
