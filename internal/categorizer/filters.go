package categorizer

import "kakeibo/internal/models"

// OfType returns the categories of type t, preserving order.
func OfType(categories []models.Category, t models.CategoryType) []models.Category {
	var out []models.Category
	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// WithKeywords returns the categories that have at least one keyword,
// preserving order.
func WithKeywords(categories []models.Category) []models.Category {
	var out []models.Category
	for _, c := range categories {
		if c.HasKeywords() {
			out = append(out, c)
		}
	}
	return out
}

// ByDirection splits keyword categories by type once, for bulk passes that
// pick the candidate list per transaction from the sign of its amount.
type ByDirection map[models.CategoryType][]models.Category

// PartitionByType builds a ByDirection from categories, keeping only those
// with keywords and preserving order within each type.
func PartitionByType(categories []models.Category) ByDirection {
	parts := ByDirection{}
	for _, c := range WithKeywords(categories) {
		parts[c.Type] = append(parts[c.Type], c)
	}
	return parts
}

// For returns the candidate categories for a transaction.
func (b ByDirection) For(tx models.Transaction) []models.Category {
	return b[tx.Direction()]
}
