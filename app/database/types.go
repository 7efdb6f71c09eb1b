package database

import (
	"time"
)

type Source struct {
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	URL           string     `json:"url"`
	Enabled       bool       `json:"enabled"`
	ArticleCount  int        `json:"article_count"`
	CategoryCount int        `json:"category_count"`
	LastSyncedAt  *time.Time `json:"last_synced_at"`
	LastError     string     `json:"last_error,omitempty"`
	LastErrorAt   *time.Time `json:"last_error_at,omitempty"`
	NextSyncAt    *time.Time `json:"next_sync_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsDue reports whether the source should be synced at now.
func (s *Source) IsDue(now time.Time) bool {
	return s.NextSyncAt == nil || !s.NextSyncAt.After(now)
}

type ExtractionStatus string

const (
	ExtractionSuccess ExtractionStatus = "success"
	ExtractionFailed  ExtractionStatus = "failed"
)

// MaxExtractionAttempts bounds how often a failing article page is retried.
const MaxExtractionAttempts = 3

type ArticleForExtraction struct {
	ID   string
	Link string
}
