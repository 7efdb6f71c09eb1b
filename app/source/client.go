package source

import (
	"context"
	"fmt"
)

// Puller fetches a complete snapshot from one configured source.
type Puller interface {
	Fetch(ctx context.Context, config *Config) (*Snapshot, error)
}

var _ Puller = (*Client)(nil)
var _ Puller = (*RESTClient)(nil)

// Client dispatches to the REST or RSS implementation by source type.
type Client struct {
	fetcher *Fetcher
	rest    *RESTClient
	rss     *RSSParser
}

func NewClient(fetcher *Fetcher) *Client {
	return &Client{
		fetcher: fetcher,
		rest:    NewRESTClient(fetcher),
		rss:     NewRSSParser(),
	}
}

func (c *Client) Fetch(ctx context.Context, config *Config) (*Snapshot, error) {
	switch config.Type {
	case TypeREST:
		return c.rest.Fetch(ctx, config)
	case TypeRSS:
		data, err := c.fetcher.Get(ctx, config.URL, config.Settings.GetTimeout(), "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch feed: %w", err)
		}
		articles, categories, err := c.rss.Run(data, config.Name, config.Settings)
		if err != nil {
			return nil, err
		}
		return &Snapshot{Articles: articles, Categories: categories}, nil
	default:
		return nil, fmt.Errorf("unsupported source type %q", config.Type)
	}
}
