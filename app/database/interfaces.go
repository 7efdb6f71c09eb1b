package database

import (
	"time"

	"github.com/lysyi3m/newsdesk/app/curation"
)

// ArticleRepository stores per-source snapshots of articles and categories.
type ArticleRepository interface {
	ReplaceSnapshot(source string, articles []curation.Article, categories []curation.Category) error
	DeleteSnapshot(source string) error

	GetArticles() ([]curation.Article, error)
	GetCategories() ([]curation.Category, error)
	GetArticle(source, id string) (*curation.Article, error)
	GetArticleCount() (int, error)

	GetArticlesForExtraction(source string, limit int) ([]ArticleForExtraction, error)
	SaveExtraction(source, articleID string, status ExtractionStatus, content, errorMsg string) error
}

// SourceRepository tracks the sync state of each configured source.
type SourceRepository interface {
	GetSource(name string) (*Source, error)
	GetSources() ([]Source, error)
	GetSourceNames() ([]string, error)

	UpsertSource(name, sourceType, url string, enabled bool) error
	DeleteSource(name string) error
	RecordSync(name string, articleCount, categoryCount int, nextSyncAt time.Time) error
	RecordFailure(name string, message string, nextSyncAt time.Time) error
}
