// Package models provides the data structures shared by the import pipeline,
// the stores and the HTTP API.
package models

// Vendor identifies the card issuer whose export produced a statement.
type Vendor string

const (
	VendorRakuten  Vendor = "rakuten"
	VendorSumitomo Vendor = "sumitomo"
	VendorUnknown  Vendor = "unknown"
)

// SupportedVendors lists the vendors the sniffer can recognise, in detection order.
var SupportedVendors = []Vendor{VendorRakuten, VendorSumitomo}

// Source records where a persisted transaction came from.
type Source string

const (
	SourceRakuten  Source = "rakuten"
	SourceSumitomo Source = "sumitomo"
	SourceManual   Source = "manual"
)

// SourceForVendor maps an import vendor to its transaction source.
func SourceForVendor(v Vendor) Source {
	switch v {
	case VendorRakuten:
		return SourceRakuten
	case VendorSumitomo:
		return SourceSumitomo
	default:
		return SourceManual
	}
}

// CategoryType partitions categories into income and expense.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// Category defaults applied when a client omits them.
const (
	DefaultCategoryColor = "#6B7280"
	DefaultCategoryIcon  = "tag"
)

// DateLayoutISO is the layout of every date that leaves the parsers.
const DateLayoutISO = "2006-01-02"
