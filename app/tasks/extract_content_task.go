package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/newsdesk/app/database"
	"github.com/lysyi3m/newsdesk/app/source"
)

// ExtractContentTask fills in the body of RSS articles that arrived without
// content by fetching the linked page and running it through readability.
type ExtractContentTask struct {
	Task
	SourceConfig     *source.Config
	fetcher          PageFetcher
	contentExtractor Extractor
	articleRepo      database.ArticleRepository
}

func NewExtractContentTask(sourceConfig *source.Config, fetcher PageFetcher, contentExtractor Extractor, articleRepo database.ArticleRepository) *ExtractContentTask {
	return &ExtractContentTask{
		Task:             NewTask(TaskTypeExtractContent, sourceConfig.Name),
		SourceConfig:     sourceConfig,
		fetcher:          fetcher,
		contentExtractor: contentExtractor,
		articleRepo:      articleRepo,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.ExtractContent {
		slog.Debug("Content extraction disabled for source", "source", t.SourceName)
		return nil
	}

	items, err := t.articleRepo.GetArticlesForExtraction(t.SourceName, t.SourceConfig.Settings.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to get articles for content extraction: %w", err)
	}

	if len(items) == 0 {
		slog.Debug("No articles need content extraction", "source", t.SourceName)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		content, err := t.extract(ctx, item)
		if err != nil {
			slog.Error("Failed to extract content for article", "article_id", item.ID, "url", item.Link, "error", err)
			errorCount++

			if err := t.articleRepo.SaveExtraction(t.SourceName, item.ID, database.ExtractionFailed, "", err.Error()); err != nil {
				slog.Error("Failed to update content extraction status", "article_id", item.ID, "error", err)
			}
			continue
		}

		if err := t.articleRepo.SaveExtraction(t.SourceName, item.ID, database.ExtractionSuccess, content, ""); err != nil {
			return fmt.Errorf("failed to store extracted content: %w", err)
		}
		successCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extract(ctx context.Context, item database.ArticleForExtraction) (string, error) {
	data, err := t.fetcher.Get(ctx, item.Link, t.SourceConfig.Settings.GetTimeout(), "text/html")
	if err != nil {
		return "", fmt.Errorf("failed to fetch article page: %w", err)
	}

	content, err := t.contentExtractor.Run(data, item.Link)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	slog.Debug("Content extracted successfully", "article_id", item.ID, "url", item.Link, "content_length", len(content))
	return content, nil
}
