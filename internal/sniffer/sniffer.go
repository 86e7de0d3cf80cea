// Package sniffer decides which card issuer produced a decoded statement.
package sniffer

import (
	"regexp"
	"strings"

	"kakeibo/internal/models"
)

// Header labels that identify a Rakuten Card export.
const (
	LabelUsageDate = "利用日"
	LabelMerchant  = "利用店名"
	LabelAmount    = "利用金額"
)

var (
	// Masked card number such as 5334-91**-****-****.
	maskedCardPattern = regexp.MustCompile(`\d{4}-[\d*]{4}-[\d*]{4}-[\d*]{4}`)
	leadingDate       = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}`)
)

// Detect returns the vendor whose layout text matches, or models.VendorUnknown.
// Rakuten is checked before Sumitomo, so a file satisfying both is Rakuten.
func Detect(text string) models.Vendor {
	first, second := firstLines(text)

	if IsRakuten(first) {
		return models.VendorRakuten
	}
	if IsSumitomo(first, second) {
		return models.VendorSumitomo
	}
	return models.VendorUnknown
}

// IsRakuten reports whether header carries all three required labels.
func IsRakuten(header string) bool {
	return strings.Contains(header, LabelUsageDate) &&
		strings.Contains(header, LabelMerchant) &&
		strings.Contains(header, LabelAmount)
}

// IsSumitomo reports whether the first line carries a masked card number and
// the second line starts with a YYYY/MM/DD date.
func IsSumitomo(first, second string) bool {
	return maskedCardPattern.MatchString(first) && leadingDate.MatchString(second)
}

// FirstLine returns the first line of text without its line terminator.
func FirstLine(text string) string {
	first, _ := firstLines(text)
	return first
}

func firstLines(text string) (string, string) {
	lines := strings.SplitN(text, "\n", 3)
	first := strings.TrimSuffix(lines[0], "\r")
	second := ""
	if len(lines) > 1 {
		second = strings.TrimSuffix(lines[1], "\r")
	}
	return first, second
}
