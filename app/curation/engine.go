package curation

import (
	"cmp"
	"strings"
	"time"
)

const (
	DefaultLatestCount   = 3
	DefaultExcerptLength = 110
	UnknownAuthor        = "Unknown"
	NoLastPost           = "--"
)

type Options struct {
	Now           func() time.Time
	RecentWindow  time.Duration
	LatestCount   int
	ExcerptLength int
	DateLayout    string
	Location      *time.Location
	UploadsURL    string // base URL prefixed to relative image references
}

// Engine composes the curation functions into view models. It holds no state
// beyond its options and is safe for concurrent use.
type Engine struct {
	opts      Options
	formatter Formatter
}

func NewEngine(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = DefaultRecentWindow
	}
	if opts.LatestCount <= 0 {
		opts.LatestCount = DefaultLatestCount
	}
	if opts.ExcerptLength <= 0 {
		opts.ExcerptLength = DefaultExcerptLength
	}
	opts.DateLayout = cmp.Or(opts.DateLayout, DefaultDateLayout)

	return &Engine{
		opts: opts,
		formatter: Formatter{
			Now:        opts.Now,
			DateLayout: opts.DateLayout,
			Location:   opts.Location,
		},
	}
}

// DeriveView builds the dashboard view for one snapshot and filter state.
// Inputs are not modified and every returned container is freshly allocated.
func (e *Engine) DeriveView(articles []Article, categories []Category, state FilterState) ViewModel {
	stats := Aggregate(articles, e.opts.Now(), e.opts.RecentWindow)
	stats.CategoryCount = len(categories)

	return ViewModel{
		Categories:       DistinctCategories(articles),
		CategoryRecords:  NormalizeCategories(categories),
		Filter:           state,
		FilteredArticles: Filter(articles, state),
		Stats:            stats,
		Featured:         PickFeatured(articles),
		Latest:           Latest(articles, e.opts.LatestCount),
	}
}

func (e *Engine) TimeAgo(ts string) string {
	return e.formatter.TimeAgo(ts)
}

// LastPost labels the most recent post the way the dashboard header does.
func (e *Engine) LastPost(stats Stats) string {
	if stats.LastCreatedAt == "" {
		return NoLastPost
	}
	return e.formatter.TimeAgo(stats.LastCreatedAt)
}

func (e *Engine) Card(article Article) ArticleCard {
	return ArticleCard{
		ID:        article.ID,
		Title:     article.Title,
		Category:  CleanCategory(article.Category),
		Author:    cmp.Or(article.Author, UnknownAuthor),
		Age:       e.formatter.TimeAgo(article.CreatedAt),
		Excerpt:   Excerpt(article.Content, e.opts.ExcerptLength),
		ImageURL:  e.imageURL(article.Image),
		CreatedAt: article.CreatedAt,
		Source:    article.Source,
	}
}

func (e *Engine) Cards(articles []Article) []ArticleCard {
	cards := make([]ArticleCard, len(articles))
	for i, article := range articles {
		cards[i] = e.Card(article)
	}
	return cards
}

func (e *Engine) imageURL(image string) string {
	if image == "" || e.opts.UploadsURL == "" {
		return image
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return strings.TrimRight(e.opts.UploadsURL, "/") + "/" + strings.TrimLeft(image, "/")
}
