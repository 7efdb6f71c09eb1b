package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/newsdesk/app/database"
	"github.com/lysyi3m/newsdesk/app/source"
)

// SyncSourceTask pulls a full snapshot from one source and replaces the
// stored one. On failure the previous snapshot stays in place. The source
// configuration is read when the task runs, so a source removed or disabled
// while the task waited is never written back.
type SyncSourceTask struct {
	Task
	configs     ConfigProvider
	puller      source.Puller
	articleRepo database.ArticleRepository
	sourceRepo  database.SourceRepository
}

func NewSyncSourceTask(sourceName string, configs ConfigProvider, puller source.Puller, articleRepo database.ArticleRepository, sourceRepo database.SourceRepository) *SyncSourceTask {
	return &SyncSourceTask{
		Task:        NewTask(TaskTypeSyncSource, sourceName),
		configs:     configs,
		puller:      puller,
		articleRepo: articleRepo,
		sourceRepo:  sourceRepo,
	}
}

func (t *SyncSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sourceConfig, err := t.configs.GetConfig(t.SourceName)
	if err != nil {
		slog.Debug("Source no longer configured, skipping", "source", t.SourceName)
		return nil
	}

	if !sourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	err = t.sourceRepo.UpsertSource(t.SourceName, string(sourceConfig.Type), sourceConfig.URL, true)
	if err != nil {
		return fmt.Errorf("failed to register source: %w", err)
	}

	nextSyncAt := time.Now().UTC().Add(sourceConfig.Settings.GetRefreshInterval())

	snapshot, err := t.puller.Fetch(ctx, sourceConfig)
	if err != nil {
		if recordErr := t.sourceRepo.RecordFailure(t.SourceName, err.Error(), nextSyncAt); recordErr != nil {
			slog.Error("Failed to record sync failure", "source", t.SourceName, "error", recordErr)
		}
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	err = t.articleRepo.ReplaceSnapshot(t.SourceName, snapshot.Articles, snapshot.Categories)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	err = t.sourceRepo.RecordSync(t.SourceName, len(snapshot.Articles), len(snapshot.Categories), nextSyncAt)
	if err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"articles", len(snapshot.Articles),
		"categories", len(snapshot.Categories))

	return nil
}
