package tasks

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lysyi3m/newsdesk/app/curation"
	"github.com/lysyi3m/newsdesk/app/source"
)

func newTestScheduler(configs *MockConfigProvider, puller *MockPuller) (*Scheduler, *MockArticleRepository, *MockSourceRepository) {
	articleRepo := NewMockArticleRepository()
	sourceRepo := NewMockSourceRepository()
	scheduler := NewScheduler(configs, articleRepo, sourceRepo, puller, &MockPageFetcher{}, &MockExtractor{}, 20*time.Millisecond, 2)
	return scheduler, articleRepo, sourceRepo
}

func TestScheduler_EnqueueTaskDeduplicates(t *testing.T) {
	scheduler, articleRepo, sourceRepo := newTestScheduler(NewMockConfigProvider(), &MockPuller{})
	config := testSourceConfig("newsroom")

	first := NewSyncSourceTask(config.Name, NewMockConfigProvider(config), &MockPuller{}, articleRepo, sourceRepo)
	if err := scheduler.EnqueueTask(first); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	second := NewSyncSourceTask(config.Name, NewMockConfigProvider(config), &MockPuller{}, articleRepo, sourceRepo)
	if err := scheduler.EnqueueTask(second); !errors.Is(err, ErrTaskPending) {
		t.Errorf("Expected ErrTaskPending, got %v", err)
	}

	// a different task type for the same source is not a duplicate
	extract := NewExtractContentTask(config, &MockPageFetcher{}, &MockExtractor{}, articleRepo)
	if err := scheduler.EnqueueTask(extract); err != nil {
		t.Errorf("Expected no error for different task type, got %v", err)
	}
}

func TestScheduler_EnqueueTaskQueueFull(t *testing.T) {
	scheduler, articleRepo, sourceRepo := newTestScheduler(NewMockConfigProvider(), &MockPuller{})

	for i := range queueSize {
		task := NewSyncSourceTask(fmt.Sprintf("source-%d", i), NewMockConfigProvider(), &MockPuller{}, articleRepo, sourceRepo)
		if err := scheduler.EnqueueTask(task); err != nil {
			t.Fatalf("Expected no error filling queue, got: %v", err)
		}
	}

	overflow := NewSyncSourceTask("overflow", NewMockConfigProvider(), &MockPuller{}, articleRepo, sourceRepo)
	if err := scheduler.EnqueueTask(overflow); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}

	// the rejected task must not hold a pending slot
	scheduler.release(NewSyncSourceTask("source-0", NewMockConfigProvider(), &MockPuller{}, articleRepo, sourceRepo))
	<-scheduler.taskQueue
	if err := scheduler.EnqueueTask(overflow); err != nil {
		t.Errorf("Expected overflow task to be accepted once there is room, got %v", err)
	}
}

func TestScheduler_RefreshSourceUnknown(t *testing.T) {
	scheduler, _, _ := newTestScheduler(NewMockConfigProvider(), &MockPuller{})

	if err := scheduler.RefreshSource("ghost"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Expected ErrUnknownSource, got %v", err)
	}
}

func TestScheduler_SyncsDueSources(t *testing.T) {
	puller := &MockPuller{snapshot: &source.Snapshot{
		Articles: []curation.Article{{ID: "1", Title: "Hello"}},
	}}
	configs := NewMockConfigProvider(testSourceConfig("newsroom"))
	scheduler, articleRepo, sourceRepo := newTestScheduler(configs, puller)

	scheduler.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s, _ := sourceRepo.GetSource("newsroom"); s != nil && s.LastSyncedAt != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	// several ticks pass; the refresh interval keeps the source from resyncing
	time.Sleep(100 * time.Millisecond)
	scheduler.Stop()

	articles, ok := articleRepo.snapshot("newsroom")
	if !ok || len(articles) != 1 {
		t.Fatalf("Expected synced snapshot, got %v", articles)
	}
	if puller.callCount() != 1 {
		t.Errorf("Expected exactly one fetch, got %d", puller.callCount())
	}
}

func TestScheduler_RefreshSourceBypassesSchedule(t *testing.T) {
	puller := &MockPuller{snapshot: &source.Snapshot{}}
	configs := NewMockConfigProvider(testSourceConfig("newsroom"))
	scheduler, _, sourceRepo := newTestScheduler(configs, puller)

	next := time.Now().Add(time.Hour)
	sourceRepo.UpsertSource("newsroom", "rest", "http://localhost:5000", true)
	sourceRepo.RecordSync("newsroom", 0, 0, next)

	scheduler.Start()
	defer scheduler.Stop()

	if err := scheduler.RefreshSource("newsroom"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for puller.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if puller.callCount() != 1 {
		t.Errorf("Expected refresh to fetch once, got %d", puller.callCount())
	}
}

func TestRetryDelayFor(t *testing.T) {
	tests := map[int]time.Duration{
		0:  time.Second,
		1:  time.Second,
		2:  2 * time.Second,
		3:  4 * time.Second,
		5:  16 * time.Second,
		6:  maxRetryDelay,
		40: maxRetryDelay,
	}

	for retry, expected := range tests {
		if got := retryDelayFor(retry); got != expected {
			t.Errorf("retryDelayFor(%d): expected %v, got %v", retry, expected, got)
		}
	}
}
