package source

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lysyi3m/newsdesk/app/curation"
)

// RESTClient pulls article and category snapshots from the newsroom REST API.
type RESTClient struct {
	fetcher *Fetcher
}

func NewRESTClient(fetcher *Fetcher) *RESTClient {
	return &RESTClient{fetcher: fetcher}
}

func (c *RESTClient) Fetch(ctx context.Context, config *Config) (*Snapshot, error) {
	base := strings.TrimRight(config.URL, "/")
	timeout := config.Settings.GetTimeout()

	categoryData, err := c.fetcher.Get(ctx, base+config.Settings.CategoriesPath, timeout, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	articleData, err := c.fetcher.Get(ctx, base+config.Settings.ArticlesPath, timeout, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}

	categories, err := DecodeCategories(categoryData)
	if err != nil {
		return nil, err
	}

	articles, err := DecodeArticles(articleData, config.Name)
	if err != nil {
		return nil, err
	}

	if limit := config.Settings.MaxItems; limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	return &Snapshot{Articles: articles, Categories: categories}, nil
}

type wireArticle struct {
	ID           looseString `json:"id"`
	Title        looseString `json:"title"`
	Content      looseString `json:"content"`
	Category     looseString `json:"category"`
	CategoryName looseString `json:"category_name"`
	Author       looseString `json:"author"`
	AuthorName   looseString `json:"author_name"`
	AuthorID     looseString `json:"author_id"`
	Image        looseString `json:"image"`
	CreatedAt    looseString `json:"created_at"`
}

type wireCategory struct {
	ID   looseString `json:"id"`
	Name looseString `json:"name"`
}

// DecodeArticles decodes the upstream article list. Identifiers may arrive as
// numbers or strings, and missing fields decode as empty strings.
func DecodeArticles(data []byte, sourceName string) ([]curation.Article, error) {
	var wire []wireArticle
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}

	articles := make([]curation.Article, 0, len(wire))
	for _, w := range wire {
		articles = append(articles, curation.Article{
			ID:        string(w.ID),
			Title:     string(w.Title),
			Content:   string(w.Content),
			Category:  cmp.Or(string(w.Category), string(w.CategoryName)),
			Author:    cmp.Or(string(w.Author), string(w.AuthorName)),
			AuthorID:  string(w.AuthorID),
			Image:     string(w.Image),
			CreatedAt: string(w.CreatedAt),
			Source:    sourceName,
		})
	}
	return articles, nil
}

func DecodeCategories(data []byte) ([]curation.Category, error) {
	var wire []wireCategory
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]curation.Category, 0, len(wire))
	for _, w := range wire {
		categories = append(categories, curation.Category{
			ID:   string(w.ID),
			Name: string(w.Name),
		})
	}
	return categories, nil
}

// looseString accepts JSON strings, numbers, booleans and null. Objects with a
// "name" member decode to that name.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = looseString(val)
	case float64:
		*s = looseString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		*s = looseString(strconv.FormatBool(val))
	case map[string]any:
		name, _ := val["name"].(string)
		*s = looseString(name)
	default:
		return fmt.Errorf("unsupported JSON value %s", string(data))
	}
	return nil
}
