// Package parser defines the statement parser contract and the behaviour
// shared by every vendor parser.
package parser

import (
	"io"

	"kakeibo/internal/models"
)

// Parser turns decoded statement text into transaction candidates.
//
// Implementations skip malformed rows with a logged warning and return
// *parsererror.NoValidTransactionsError when no row survives. Candidates are
// returned in source order.
type Parser interface {
	Parse(r io.Reader) ([]models.Candidate, error)
	Vendor() models.Vendor
}
