package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/lysyi3m/newsdesk/app/source"
)

var (
	ErrTaskPending   = errors.New("task already queued")
	ErrQueueFull     = errors.New("task queue is full")
	ErrUnknownSource = errors.New("unknown source")
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the HTTP API.
//
//	scheduler := NewScheduler(configCache, articleRepo, sourceRepo, client, fetcher, extractor, interval, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.RefreshSource("newsroom")
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	RefreshSource(name string) error
}

// ConfigProvider is the read side of source.ConfigCache.
type ConfigProvider interface {
	GetConfig(name string) (*source.Config, error)
	GetConfigs() map[string]*source.Config
	GetEnabledConfigs() map[string]*source.Config
	Generation() uint64
}

var _ ConfigProvider = (*source.ConfigCache)(nil)

// PageFetcher downloads article pages for content extraction.
type PageFetcher interface {
	Get(ctx context.Context, url string, timeout time.Duration, accept string) ([]byte, error)
}

var _ PageFetcher = (*source.Fetcher)(nil)

type Extractor interface {
	Run(data []byte, pageURL string) (string, error)
}

var _ Extractor = (*source.ContentExtractor)(nil)
