package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type ConfigCache struct {
	sourcesDir string
	cache      map[string]*Config
	generation uint64
	mu         sync.RWMutex
}

func NewConfigCache(sourcesDir string) *ConfigCache {
	return &ConfigCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

// Run (re)loads every *.yml file. Sources whose file disappeared are dropped,
// and a missing directory leaves no sources at all.
func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.sourcesDir); os.IsNotExist(err) {
		cc.mu.Lock()
		cc.cache = make(map[string]*Config)
		cc.generation++
		cc.mu.Unlock()
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	loaded := make(map[string]*Config, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.loadFile(name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}
		loaded[name] = config

		slog.Debug("Source configuration loaded", "source", name, "type", config.Type, "enabled", config.Settings.Enabled)
	}

	cc.mu.Lock()
	cc.cache = loaded
	cc.generation++
	cc.mu.Unlock()

	return nil
}

// LoadConfig reads a single source file and stores it in the cache.
func (cc *ConfigCache) LoadConfig(name string) (*Config, error) {
	config, err := cc.loadFile(name)
	if err != nil {
		return nil, err
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Name] = config
	cc.generation++

	return config, nil
}

func (cc *ConfigCache) GetConfig(name string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	config, ok := cc.cache[name]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", name)
	}
	return config, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabled := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

// Generation changes every time the set of loaded configurations is replaced.
func (cc *ConfigCache) Generation() uint64 {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.generation
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

// Watch reloads the cache whenever files in the sources directory change.
// Bursts of events are debounced. It blocks until ctx is done.
func (cc *ConfigCache) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cc.sourcesDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cc.sourcesDir, err)
	}

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".yml") && filepath.Clean(ev.Name) != filepath.Clean(cc.sourcesDir) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(200 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Source watcher error", "error", err)
		case <-debounce.C:
			if err := cc.Run(); err != nil {
				slog.Error("Failed to reload source configurations", "error", err)
				continue
			}
			slog.Info("Source configurations reloaded", "count", cc.GetConfigCount())
		}
	}
}

func (cc *ConfigCache) loadFile(name string) (*Config, error) {
	configFile := filepath.Join(cc.sourcesDir, name+".yml")

	config, err := parseConfig(configFile)
	if err != nil {
		return nil, err
	}
	config.Name = name

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	return config, nil
}

func parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Type == "" {
		config.Type = TypeREST
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30
	}
	if config.Settings.MaxItems == 0 {
		config.Settings.MaxItems = 200
	}
	if config.Type == TypeREST {
		if config.Settings.ArticlesPath == "" {
			config.Settings.ArticlesPath = DefaultArticlesPath
		}
		if config.Settings.CategoriesPath == "" {
			config.Settings.CategoriesPath = DefaultCategoriesPath
		}
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	var verr ValidationError

	if config.Name == "" {
		verr.Add("name", "is required")
	}

	if config.URL == "" {
		verr.Add("url", "is required")
	} else if u, err := url.Parse(config.URL); err != nil || u.Scheme == "" || u.Host == "" {
		verr.Add("url", "must be an absolute URL")
	}

	switch config.Type {
	case TypeREST, TypeRSS:
	default:
		verr.Add("type", fmt.Sprintf("unknown source type %q", config.Type))
	}

	nonNegative := map[string]int{
		"settings.refresh_interval": config.Settings.RefreshInterval,
		"settings.timeout":          config.Settings.Timeout,
		"settings.max_items":        config.Settings.MaxItems,
	}
	for field, value := range nonNegative {
		if value < 0 {
			verr.Add(field, "must be non-negative")
		}
	}

	if config.Settings.ExtractContent && config.Type != TypeRSS {
		verr.Add("settings.extract_content", "is only supported for rss sources")
	}

	if verr.HasAny() {
		return verr
	}
	return nil
}
