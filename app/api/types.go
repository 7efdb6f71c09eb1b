package api

import (
	"github.com/lysyi3m/newsdesk/app/curation"
	"github.com/lysyi3m/newsdesk/app/database"
	"github.com/lysyi3m/newsdesk/app/feed"
	"github.com/lysyi3m/newsdesk/app/source"
	"github.com/lysyi3m/newsdesk/app/tasks"
)

type GeneratorInterface interface {
	Run(channel feed.Channel, articles []curation.Article) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	articleRepo database.ArticleRepository
	sourceRepo  database.SourceRepository
	engine      *curation.Engine
	generator   GeneratorInterface
	configCache *source.ConfigCache
	scheduler   tasks.TaskSchedulerInterface
	site        Site
}

// Site carries the public identity used in service info and feed channels.
type Site struct {
	BaseURL string
	Port    string
	Locale  string
	Version string
}

// ViewResponse is the dashboard payload for one filter state.
type ViewResponse struct {
	Filter          curation.FilterState   `json:"filter"`
	Categories      []string               `json:"categories"`
	CategoryRecords []curation.Category    `json:"category_records"`
	Stats           curation.Stats         `json:"stats"`
	LastPost        string                 `json:"last_post"`
	Featured        *curation.ArticleCard  `json:"featured"`
	Latest          []curation.ArticleCard `json:"latest"`
	Articles        []curation.ArticleCard `json:"articles"`
}

type ArticleResponse struct {
	curation.ArticleCard
	Content string `json:"content"`
	Link    string `json:"link,omitempty"`
}

type StatsResponse struct {
	curation.Stats
	LastPost string            `json:"last_post"`
	Sources  []database.Source `json:"sources"`
}

type SourceResponse struct {
	Name            string           `json:"name"`
	Type            source.Type      `json:"type"`
	URL             string           `json:"url"`
	Enabled         bool             `json:"enabled"`
	MaxItems        int              `json:"max_items"`
	RefreshInterval string           `json:"refresh_interval"`
	Timeout         string           `json:"timeout"`
	ExtractContent  bool             `json:"extract_content"`
	State           *database.Source `json:"state"`
}
