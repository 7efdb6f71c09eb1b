package source

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/newsdesk/app/curation"
)

// RSSParser turns RSS/Atom documents into articles.
type RSSParser struct {
	gofeedParser *gofeed.Parser
}

func NewRSSParser() *RSSParser {
	return &RSSParser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses data. Items without full content fall back to their description
// unless content extraction is enabled, in which case Content stays empty so
// the extraction task can fill it in later.
func (p *RSSParser) Run(data []byte, sourceName string, settings Settings) ([]curation.Article, []curation.Category, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := feed.Items
	if settings.MaxItems > 0 && len(items) > settings.MaxItems {
		items = items[:settings.MaxItems]
	}

	articles := make([]curation.Article, 0, len(items))
	seen := make(map[string]struct{})
	categories := make([]curation.Category, 0)

	for _, item := range items {
		if item == nil {
			continue
		}
		article := p.normalizeItem(item, settings.ExtractContent)
		article.Source = sourceName
		articles = append(articles, article)

		if article.Category == "" {
			continue
		}
		if _, ok := seen[article.Category]; !ok {
			seen[article.Category] = struct{}{}
			categories = append(categories, curation.Category{ID: article.Category, Name: article.Category})
		}
	}

	return articles, categories, nil
}

func (p *RSSParser) normalizeItem(item *gofeed.Item, extractContent bool) curation.Article {
	article := curation.Article{
		ID:      cmp.Or(item.GUID, item.Link),
		Title:   strings.TrimSpace(item.Title),
		Content: item.Content,
		Link:    item.Link,
	}

	if article.Content == "" && !extractContent {
		article.Content = item.Description
	}

	for _, category := range item.Categories {
		if category = strings.TrimSpace(category); category != "" {
			article.Category = category
			break
		}
	}

	if author := firstAuthor(item); author != nil {
		article.Author = strings.TrimSpace(author.Name)
		article.AuthorID = cmp.Or(strings.TrimSpace(author.Email), article.Author)
	}

	switch {
	case item.PublishedParsed != nil:
		article.CreatedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		article.CreatedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		article.CreatedAt = cmp.Or(item.Published, item.Updated)
	}

	article.Image = itemImage(item)

	return article
}

func firstAuthor(item *gofeed.Item) *gofeed.Person {
	for _, author := range item.Authors {
		if author != nil {
			return author
		}
	}
	return item.Author
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}

	return cmp.Or(FirstImage(item.Content), FirstImage(item.Description))
}
