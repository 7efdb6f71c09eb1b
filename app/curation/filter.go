package curation

import (
	"strings"
)

// Filter returns the articles matching both the category selector and the
// search query, in input order. The input slice is never modified.
func Filter(articles []Article, state FilterState) []Article {
	query := strings.ToLower(strings.TrimSpace(state.Query))

	filtered := make([]Article, 0, len(articles))
	for _, article := range articles {
		if !state.matchesCategory(article) {
			continue
		}
		if !matchesQuery(article, query) {
			continue
		}
		filtered = append(filtered, article)
	}

	return filtered
}

// IsUnfiltered reports whether the state lets every article through.
func (s FilterState) IsUnfiltered() bool {
	return s.allCategories() && strings.TrimSpace(s.Query) == ""
}

func (s FilterState) allCategories() bool {
	return s.Category == "" || s.Category == AllCategories
}

// Category selection is exact and case-sensitive.
func (s FilterState) matchesCategory(article Article) bool {
	return s.allCategories() || article.Category == s.Category
}

func matchesQuery(article Article, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(article.Title), query) ||
		strings.Contains(strings.ToLower(article.Content), query)
}
