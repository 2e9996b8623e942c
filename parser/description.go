package parser

import (
	"regexp"
	"strings"
)

// tagPattern matches "#" followed by a run of non-whitespace, where
// whitespace is any Unicode space (U+3000 and NBSP included).
var tagPattern = regexp.MustCompile(`#([^\s\v\p{Z}\x{85}\x{FEFF}]+)`)

// Description is the display form of a raw "(text #tag #tag)" string.
type Description struct {
	Text string
	Tags []string
}

// ParseDescription splits a raw description into display text and hashtags.
// It never fails: an empty input yields an empty text and no tags.
func ParseDescription(description string) Description {
	cleaned := strings.TrimSpace(description)
	cleaned = strings.TrimPrefix(cleaned, "(")
	cleaned = strings.TrimSuffix(cleaned, ")")

	tags := []string{}
	for _, match := range tagPattern.FindAllStringSubmatch(cleaned, -1) {
		tags = append(tags, match[1])
	}

	return Description{
		Text: strings.TrimSpace(tagPattern.ReplaceAllString(cleaned, "")),
		Tags: tags,
	}
}

// ParseDescriptionPtr treats a nil description as absent.
func ParseDescriptionPtr(description *string) Description {
	if description == nil {
		return Description{Tags: []string{}}
	}
	return ParseDescription(*description)
}

// ExtractTags returns only the hashtags of a description.
func ExtractTags(description string) []string {
	return ParseDescription(description).Tags
}

// ExtractText returns only the display text of a description.
func ExtractText(description string) string {
	return ParseDescription(description).Text
}
