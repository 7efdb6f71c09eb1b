package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/newsdesk/app/database"
)

// SyncSourceConfigsTask mirrors the loaded source configurations into the
// sources table. Sources whose configuration file is gone are deleted together
// with their snapshot.
type SyncSourceConfigsTask struct {
	Task
	configs     ConfigProvider
	articleRepo database.ArticleRepository
	sourceRepo  database.SourceRepository
}

func NewSyncSourceConfigsTask(configs ConfigProvider, articleRepo database.ArticleRepository, sourceRepo database.SourceRepository) *SyncSourceConfigsTask {
	return &SyncSourceConfigsTask{
		Task:        NewTask(TaskTypeSyncSourceConfigs, ""),
		configs:     configs,
		articleRepo: articleRepo,
		sourceRepo:  sourceRepo,
	}
}

func (t *SyncSourceConfigsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	configs := t.configs.GetConfigs()

	for name, config := range configs {
		err := t.sourceRepo.UpsertSource(name, string(config.Type), config.URL, config.Settings.Enabled)
		if err != nil {
			return fmt.Errorf("failed to sync source config %s: %w", name, err)
		}
	}

	names, err := t.sourceRepo.GetSourceNames()
	if err != nil {
		return fmt.Errorf("failed to list stored sources: %w", err)
	}

	removed := 0
	for _, name := range names {
		if _, ok := configs[name]; ok {
			continue
		}
		if err := t.articleRepo.DeleteSnapshot(name); err != nil {
			return fmt.Errorf("failed to delete snapshot of %s: %w", name, err)
		}
		if err := t.sourceRepo.DeleteSource(name); err != nil {
			return fmt.Errorf("failed to delete source %s: %w", name, err)
		}
		removed++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"sources", len(configs),
		"removed", removed)

	return nil
}
