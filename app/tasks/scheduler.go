package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/newsdesk/app/database"
	"github.com/lysyi3m/newsdesk/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	taskTimeout   = 5 * time.Minute
	maxRetryDelay = 30 * time.Second
	queueSize     = 300
)

type Scheduler struct {
	configs          ConfigProvider
	articleRepo      database.ArticleRepository
	sourceRepo       database.SourceRepository
	puller           source.Puller
	fetcher          PageFetcher
	contentExtractor Extractor
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface

	mu         sync.Mutex
	pending    map[string]struct{}
	generation uint64
	synced     bool
}

func NewScheduler(configs ConfigProvider, articleRepo database.ArticleRepository,
	sourceRepo database.SourceRepository, puller source.Puller, fetcher PageFetcher,
	contentExtractor Extractor, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount <= 0 {
		workerCount = 1
	}

	return &Scheduler{
		configs:          configs,
		articleRepo:      articleRepo,
		sourceRepo:       sourceRepo,
		puller:           puller,
		fetcher:          fetcher,
		contentExtractor: contentExtractor,
		interval:         interval,
		workerCount:      workerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, queueSize),
		pending:          make(map[string]struct{}),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

// Stop cancels in-flight tasks and waits for the workers to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// EnqueueTask queues a task without blocking. It fails with ErrTaskPending
// when the same kind of task for the same source is already waiting or
// running, and with ErrQueueFull when the queue has no room.
func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	key := taskKey(task)

	s.mu.Lock()
	if _, ok := s.pending[key]; ok {
		s.mu.Unlock()
		return ErrTaskPending
	}
	s.pending[key] = struct{}{}
	s.mu.Unlock()

	if err := s.push(task); err != nil {
		s.release(task)
		return err
	}
	return nil
}

// RefreshSource queues an immediate sync of one configured source.
func (s *Scheduler) RefreshSource(name string) error {
	if _, err := s.configs.GetConfig(name); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}

	return s.EnqueueTask(NewSyncSourceTask(name, s.configs, s.puller, s.articleRepo, s.sourceRepo))
}

func (s *Scheduler) push(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Scheduler) release(task TaskInterface) {
	s.mu.Lock()
	delete(s.pending, taskKey(task))
	s.mu.Unlock()
}

func (s *Scheduler) enqueueTasks() {
	if generation := s.configs.Generation(); !s.synced || generation != s.generation {
		if err := s.EnqueueTask(NewSyncSourceConfigsTask(s.configs, s.articleRepo, s.sourceRepo)); err != nil {
			slog.Warn("Failed to enqueue SyncSourceConfigsTask", "error", err)
		} else {
			s.generation = generation
			s.synced = true
		}
	}

	sourceConfigs := s.configs.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	now := time.Now().UTC()

	for _, sourceConfig := range sourceConfigs {
		stored, err := s.sourceRepo.GetSource(sourceConfig.Name)
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", sourceConfig.Name, "error", err)
			continue
		}

		if stored != nil && !stored.IsDue(now) {
			slog.Debug("Source not due for sync yet", "source", sourceConfig.Name, "next_sync_at", stored.NextSyncAt)
		} else {
			s.enqueueLogged(NewSyncSourceTask(sourceConfig.Name, s.configs, s.puller, s.articleRepo, s.sourceRepo))
		}

		if sourceConfig.Settings.ExtractContent && stored != nil && stored.LastSyncedAt != nil {
			s.enqueueLogged(NewExtractContentTask(sourceConfig, s.fetcher, s.contentExtractor, s.articleRepo))
		}
	}
}

func (s *Scheduler) enqueueLogged(task TaskInterface) {
	err := s.EnqueueTask(task)
	switch {
	case err == nil:
	case errors.Is(err, ErrTaskPending):
		slog.Debug("Task already queued", "type", string(task.GetType()), "source", task.GetSourceName())
	default:
		slog.Warn("Failed to enqueue task", "type", string(task.GetType()), "source", task.GetSourceName(), "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		s.release(task)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.release(task)
		return
	}

	task.IncrementRetryCount()
	retryDelay := retryDelayFor(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// the task keeps its pending slot while it waits for the retry
	go func() {
		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.release(task)
		case <-timer.C:
			if retryErr := s.push(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				s.release(task)
			}
		}
	}()
}

// retryDelayFor doubles from one second and is capped at maxRetryDelay.
func retryDelayFor(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	if retryCount > 6 {
		return maxRetryDelay
	}
	return min(time.Duration(1<<uint(retryCount-1))*time.Second, maxRetryDelay)
}
