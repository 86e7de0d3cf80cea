package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a parsed statement row that has not been persisted yet.
// Amount is always strictly negative: card statements only carry spending.
type Candidate struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	ExternalID  string
}

// NewCandidate builds a Candidate from a vendor, a date, a positive magnitude
// and a trimmed description, deriving the negative amount and the external id.
func NewCandidate(vendor Vendor, date time.Time, magnitude decimal.Decimal, description string) Candidate {
	abs := magnitude.Abs()
	return Candidate{
		Date:        date,
		Amount:      abs.Neg(),
		Description: description,
		ExternalID:  ExternalID(vendor, date, description, abs),
	}
}

// ISODate returns the date as YYYY-MM-DD.
func (c Candidate) ISODate() string {
	return c.Date.Format(DateLayoutISO)
}

// ExternalID derives the deduplication key of a statement row. Two rows of the
// same vendor with identical date, description and magnitude collide.
func ExternalID(vendor Vendor, date time.Time, description string, magnitude decimal.Decimal) string {
	return fmt.Sprintf("%s_%s_%s_%s", vendor, date.Format(DateLayoutISO), description, magnitude.Abs().String())
}
