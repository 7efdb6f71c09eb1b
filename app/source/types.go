package source

import (
	"time"

	"github.com/lysyi3m/newsdesk/app/curation"
)

type Type string

const (
	TypeREST Type = "rest"
	TypeRSS  Type = "rss"
)

const (
	DefaultArticlesPath   = "/mecw/api/articles"
	DefaultCategoriesPath = "/mecw/api/categories"
)

type Config struct {
	Name     string   // Derived from filename (without .yml extension)
	Type     Type     `yaml:"type"`
	URL      string   `yaml:"url"`
	Settings Settings `yaml:"settings"`
}

type Settings struct {
	Enabled         bool   `yaml:"enabled"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds, 0 = every poll
	Timeout         int    `yaml:"timeout"`          // seconds
	MaxItems        int    `yaml:"max_items"`
	ExtractContent  bool   `yaml:"extract_content"` // rss only
	ArticlesPath    string `yaml:"articles_path"`   // rest only
	CategoriesPath  string `yaml:"categories_path"` // rest only
}

func (s Settings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

func (s Settings) GetRefreshInterval() time.Duration {
	if s.RefreshInterval <= 0 {
		return 0
	}
	return time.Duration(s.RefreshInterval) * time.Second
}

// Snapshot is one complete pull from a source. It replaces whatever the
// source delivered before.
type Snapshot struct {
	Articles   []curation.Article
	Categories []curation.Category
}
