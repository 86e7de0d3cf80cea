package models

import (
	"strings"
	"time"
)

// Category is a user-defined label. Keywords is nil when the category has
// no keywords and therefore never matches automatically.
type Category struct {
	ID        string       `json:"id" yaml:"id"`
	OwnerID   string       `json:"user_id" yaml:"-"`
	Name      string       `json:"name" yaml:"name"`
	Color     string       `json:"color" yaml:"color"`
	Icon      string       `json:"icon" yaml:"icon"`
	Type      CategoryType `json:"type" yaml:"type"`
	Keywords  []string     `json:"keywords" yaml:"keywords"`
	CreatedAt time.Time    `json:"created_at" yaml:"-"`
}

// HasKeywords reports whether the category can take part in keyword matching.
func (c Category) HasKeywords() bool {
	return len(c.Keywords) > 0
}

// NormalizeKeywords trims keywords, drops blanks and returns nil for an
// empty result so that "no keywords" has a single representation.
func NormalizeKeywords(keywords []string) []string {
	var out []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
