package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lysyi3m/newsdesk/app/curation"
	"github.com/lysyi3m/newsdesk/app/database"
	"github.com/lysyi3m/newsdesk/app/source"
)

type MockArticleRepository struct {
	mu          sync.Mutex
	snapshots   map[string][]curation.Article
	categories  map[string][]curation.Category
	extractions map[string]database.ExtractionStatus
	contents    map[string]string
	pending     []database.ArticleForExtraction
	err         error
}

var _ database.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		snapshots:   make(map[string][]curation.Article),
		categories:  make(map[string][]curation.Category),
		extractions: make(map[string]database.ExtractionStatus),
		contents:    make(map[string]string),
	}
}

func (m *MockArticleRepository) ReplaceSnapshot(src string, articles []curation.Article, categories []curation.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snapshots[src] = articles
	m.categories[src] = categories
	return nil
}

func (m *MockArticleRepository) DeleteSnapshot(src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, src)
	delete(m.categories, src)
	return nil
}

func (m *MockArticleRepository) GetArticles() ([]curation.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []curation.Article
	for _, articles := range m.snapshots {
		all = append(all, articles...)
	}
	return all, nil
}

func (m *MockArticleRepository) GetCategories() ([]curation.Category, error) {
	return nil, nil
}

func (m *MockArticleRepository) GetArticle(src, id string) (*curation.Article, error) {
	return nil, nil
}

func (m *MockArticleRepository) GetArticleCount() (int, error) {
	articles, _ := m.GetArticles()
	return len(articles), nil
}

func (m *MockArticleRepository) GetArticlesForExtraction(src string, limit int) ([]database.ArticleForExtraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending, nil
}

func (m *MockArticleRepository) SaveExtraction(src, articleID string, status database.ExtractionStatus, content, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractions[articleID] = status
	m.contents[articleID] = content
	return nil
}

func (m *MockArticleRepository) snapshot(src string) ([]curation.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	articles, ok := m.snapshots[src]
	return articles, ok
}

type MockSourceRepository struct {
	mu      sync.Mutex
	sources map[string]*database.Source
}

var _ database.SourceRepository = (*MockSourceRepository)(nil)

func NewMockSourceRepository() *MockSourceRepository {
	return &MockSourceRepository{sources: make(map[string]*database.Source)}
}

func (m *MockSourceRepository) GetSource(name string) (*database.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[name]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *MockSourceRepository) GetSources() ([]database.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sources []database.Source
	for _, s := range m.sources {
		sources = append(sources, *s)
	}
	return sources, nil
}

func (m *MockSourceRepository) GetSourceNames() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.sources {
		names = append(names, name)
	}
	return names, nil
}

func (m *MockSourceRepository) UpsertSource(name, sourceType, url string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[name]
	if !ok {
		s = &database.Source{Name: name}
		m.sources[name] = s
	}
	s.Type, s.URL, s.Enabled = sourceType, url, enabled
	return nil
}

func (m *MockSourceRepository) DeleteSource(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sources, name)
	return nil
}

func (m *MockSourceRepository) RecordSync(name string, articleCount, categoryCount int, nextSyncAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[name]
	if !ok {
		return fmt.Errorf("source '%s' not found", name)
	}
	now := time.Now().UTC()
	s.ArticleCount, s.CategoryCount = articleCount, categoryCount
	s.LastSyncedAt, s.NextSyncAt, s.LastError = &now, &nextSyncAt, ""
	return nil
}

func (m *MockSourceRepository) RecordFailure(name string, message string, nextSyncAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[name]
	if !ok {
		return fmt.Errorf("source '%s' not found", name)
	}
	now := time.Now().UTC()
	s.LastError, s.LastErrorAt, s.NextSyncAt = message, &now, &nextSyncAt
	return nil
}

type MockPuller struct {
	mu       sync.Mutex
	snapshot *source.Snapshot
	err      error
	calls    int
	lastURL  string
}

var _ source.Puller = (*MockPuller)(nil)

func (m *MockPuller) Fetch(ctx context.Context, config *source.Config) (*source.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastURL = config.URL
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func (m *MockPuller) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type MockPageFetcher struct {
	pages map[string]string
}

func (m *MockPageFetcher) Get(ctx context.Context, url string, timeout time.Duration, accept string) ([]byte, error) {
	page, ok := m.pages[url]
	if !ok {
		return nil, errors.New("HTTP error: 404 Not Found")
	}
	return []byte(page), nil
}

type MockExtractor struct{}

func (m *MockExtractor) Run(data []byte, pageURL string) (string, error) {
	return "<p>" + string(data) + "</p>", nil
}

type MockConfigProvider struct {
	mu         sync.Mutex
	configs    map[string]*source.Config
	generation uint64
}

var _ ConfigProvider = (*MockConfigProvider)(nil)

func NewMockConfigProvider(configs ...*source.Config) *MockConfigProvider {
	m := &MockConfigProvider{configs: make(map[string]*source.Config), generation: 1}
	for _, c := range configs {
		m.configs[c.Name] = c
	}
	return m
}

func (m *MockConfigProvider) GetConfig(name string) (*source.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[name]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", name)
	}
	return c, nil
}

func (m *MockConfigProvider) GetConfigs() map[string]*source.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	configs := make(map[string]*source.Config, len(m.configs))
	for k, v := range m.configs {
		configs[k] = v
	}
	return configs
}

func (m *MockConfigProvider) GetEnabledConfigs() map[string]*source.Config {
	enabled := make(map[string]*source.Config)
	for k, v := range m.GetConfigs() {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (m *MockConfigProvider) set(config *source.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[config.Name] = config
	m.generation++
}

func (m *MockConfigProvider) remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.configs, name)
	m.generation++
}

func (m *MockConfigProvider) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

func testSourceConfig(name string) *source.Config {
	return &source.Config{
		Name: name,
		Type: source.TypeREST,
		URL:  "http://localhost:5000",
		Settings: source.Settings{
			Enabled:         true,
			RefreshInterval: 3600,
			Timeout:         5,
		},
	}
}
