// Package categorizer assigns categories to transactions by keyword.
package categorizer

import (
	"strings"

	"kakeibo/internal/logging"
	"kakeibo/internal/models"
)

// KeywordClassifier matches a description against category keyword lists.
//
// Matching is case-insensitive substring containment. Categories are scanned
// in the order given and, inside each, keywords in stored order; the first
// hit wins. There is no scoring and no longest-match preference, so callers
// control precedence through ordering.
type KeywordClassifier struct {
	logger logging.Logger
}

// NewKeywordClassifier creates a KeywordClassifier.
func NewKeywordClassifier(logger logging.Logger) *KeywordClassifier {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &KeywordClassifier{logger: logger}
}

// Name identifies the classifier in logs.
func (k *KeywordClassifier) Name() string {
	return "Keyword"
}

// Match returns the id of the first category with a keyword contained in
// description. An empty description never matches.
func (k *KeywordClassifier) Match(description string, categories []models.Category) (string, bool) {
	if description == "" {
		return "", false
	}

	lowered := strings.ToLower(description)
	for _, category := range categories {
		for _, keyword := range category.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				k.logger.Debug("Transaction matched category keyword",
					logging.F("strategy", k.Name()),
					logging.F(logging.FieldDescription, description),
					logging.F(logging.FieldKeyword, keyword),
					logging.F(logging.FieldCategory, category.Name))
				return category.ID, true
			}
		}
	}
	return "", false
}
