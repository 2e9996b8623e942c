package parser

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MissingPrice is shown for items without a usable price.
const MissingPrice = "가격 정보 없음"

// FormatPrice renders a price in won using Korean digit grouping. Up to three
// fraction digits are kept.
func FormatPrice(price *float64) string {
	if price == nil || *price <= 0 || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return MissingPrice
	}
	p := message.NewPrinter(language.Korean)
	return p.Sprintf("%v원", number.Decimal(*price, number.MaxFractionDigits(3)))
}

// FormatTags renders tags as hashtags separated by two spaces.
func FormatTags(tags []string) string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = "#" + tag
	}
	return strings.Join(out, "  ")
}

// NormalizeGender maps the accepted gender spellings to "male" or "female".
// Anything else normalizes to the empty string.
func NormalizeGender(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "여성", "여자", "female", "f":
		return "female"
	case "남성", "남자", "male", "m":
		return "male"
	default:
		return ""
	}
}
