package curation

import (
	"slices"
	"time"
)

// SortByRecency returns a copy of articles ordered by created_at, most recent
// first. The sort is stable: articles with equal timestamps keep their input
// order, and unparsable timestamps sink to the end.
func SortByRecency(articles []Article) []Article {
	type ranked struct {
		article Article
		at      time.Time
	}

	ranking := make([]ranked, len(articles))
	for i, article := range articles {
		ranking[i] = ranked{article: article, at: createdAt(article)}
	}

	slices.SortStableFunc(ranking, func(a, b ranked) int {
		return b.at.Compare(a.at)
	})

	sorted := make([]Article, len(ranking))
	for i, r := range ranking {
		sorted[i] = r.article
	}
	return sorted
}

// PickFeatured returns the most recently created article, or nil for an empty
// collection.
func PickFeatured(articles []Article) *Article {
	if len(articles) == 0 {
		return nil
	}

	featured := SortByRecency(articles)[0]
	return &featured
}

// Latest returns up to n of the most recently created articles.
func Latest(articles []Article, n int) []Article {
	sorted := SortByRecency(articles)
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
