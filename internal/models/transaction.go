package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a persisted ledger row owned by a single user.
type Transaction struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"user_id"`
	Date        time.Time       `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Source      Source          `json:"source"`
	ExternalID  *string         `json:"external_id,omitempty"`
	CategoryID  *string         `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewTransaction is the insert payload for a transaction.
type NewTransaction struct {
	OwnerID     string
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Source      Source
	ExternalID  *string
	CategoryID  *string
}

// FromCandidate turns a parsed candidate into an insert payload.
func FromCandidate(ownerID string, vendor Vendor, c Candidate, categoryID *string) NewTransaction {
	externalID := c.ExternalID
	return NewTransaction{
		OwnerID:     ownerID,
		Date:        c.Date,
		Amount:      c.Amount,
		Description: c.Description,
		Source:      SourceForVendor(vendor),
		ExternalID:  &externalID,
		CategoryID:  categoryID,
	}
}

// ISODate returns the date as YYYY-MM-DD.
func (t Transaction) ISODate() string {
	return t.Date.Format(DateLayoutISO)
}

// Direction returns the category type a transaction belongs to by the sign
// of its amount: positive is income, zero and negative are expense.
func (t Transaction) Direction() CategoryType {
	if t.Amount.IsPositive() {
		return CategoryIncome
	}
	return CategoryExpense
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
// The date range is half-open: From <= date < To.
type TransactionFilter struct {
	From       time.Time
	To         time.Time
	CategoryID string
}

// MarshalJSON renders Date as YYYY-MM-DD.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain(t), t.ISODate()})
}
