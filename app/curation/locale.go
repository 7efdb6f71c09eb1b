package curation

import (
	"golang.org/x/text/language"
)

// DefaultDateLayout mirrors the en-US short date a browser shows.
const DefaultDateLayout = "1/2/2006"

var dateLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, DefaultDateLayout},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Spanish, "2/1/2006"},
	{language.Japanese, "2006/1/2"},
	{language.Hindi, "2/1/2006"},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLayouts))
	for i, l := range dateLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// DateLayoutFor returns the short-date layout closest to the BCP 47 locale.
// Unknown or malformed locales fall back to DefaultDateLayout.
func DateLayoutFor(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultDateLayout
	}

	_, idx, confidence := dateMatcher.Match(tag)
	if confidence == language.No {
		return DefaultDateLayout
	}
	return dateLayouts[idx].layout
}
