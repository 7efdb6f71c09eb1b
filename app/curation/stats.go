package curation

import (
	"time"
)

// DefaultRecentWindow is how far back an article still counts as recent.
const DefaultRecentWindow = 7 * 24 * time.Hour

// Aggregate computes summary counts over the whole collection. Articles without
// a category are counted in Uncategorized instead of ByCategory, so
// sum(ByCategory)+Uncategorized always equals Total.
func Aggregate(articles []Article, now time.Time, window time.Duration) Stats {
	stats := Stats{
		Total:      len(articles),
		ByCategory: make(map[string]int),
	}

	authors := make(map[string]struct{})
	var latestAt time.Time
	haveLatest := false

	for _, article := range articles {
		if article.Category == "" {
			stats.Uncategorized++
		} else {
			stats.ByCategory[article.Category]++
		}

		authors[article.AuthorID] = struct{}{}

		at, ok := ParseTimestamp(article.CreatedAt)
		if ok && now.Sub(at) < window {
			stats.RecentCount++
		}

		// strictly later replaces, so the first of equal timestamps wins
		if !haveLatest || at.After(latestAt) {
			stats.LastCreatedAt = article.CreatedAt
			latestAt = at
			haveLatest = true
		}
	}

	stats.DistinctAuthorCount = len(authors)

	return stats
}
