package curation

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended to every excerpt, truncated or not.
const Ellipsis = "..."

var (
	markupPattern = regexp.MustCompile(`<[^>]+>`)
	lineBreaks    = regexp.MustCompile(`[\r\n]+`)
)

// StripMarkup removes every tag-shaped substring in a single pass. Entities are
// left encoded and the result is not safe to render as trusted markup.
func StripMarkup(html string) string {
	return markupPattern.ReplaceAllString(html, "")
}

// Excerpt returns the first maxLen characters of the stripped text followed by
// Ellipsis.
func Excerpt(html string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}

	text := []rune(StripMarkup(html))
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return string(text) + Ellipsis
}

// CleanCategory drops line breaks, trims surrounding whitespace and
// NFC-normalises a category name for display.
func CleanCategory(name string) string {
	name = lineBreaks.ReplaceAllString(name, "")
	return norm.NFC.String(strings.TrimSpace(name))
}
