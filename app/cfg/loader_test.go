package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.GetPollInterval() != 2*time.Second {
		t.Errorf("Expected poll interval 2s, got %v", cfg.GetPollInterval())
	}
	if cfg.GetRecentWindow() != 7*24*time.Hour {
		t.Errorf("Expected recent window of 7 days, got %v", cfg.GetRecentWindow())
	}
	if cfg.LatestCount != 3 {
		t.Errorf("Expected latest count 3, got %d", cfg.LatestCount)
	}
	if cfg.ExcerptLength != 110 {
		t.Errorf("Expected excerpt length 110, got %d", cfg.ExcerptLength)
	}
	if cfg.Locale != "en-US" {
		t.Errorf("Expected locale 'en-US', got '%s'", cfg.Locale)
	}
}

func TestLoadArgsOverrides(t *testing.T) {
	t.Setenv("LATEST_COUNT", "5")

	cfg, err := LoadArgs([]string{"--port", "9090", "--poll-interval", "10", "--debug"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.GetPollInterval() != 10*time.Second {
		t.Errorf("Expected poll interval 10s, got %v", cfg.GetPollInterval())
	}
	if cfg.LatestCount != 5 {
		t.Errorf("Expected latest count from environment 5, got %d", cfg.LatestCount)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadArgsInvalid(t *testing.T) {
	if _, err := LoadArgs([]string{"--worker-count", "many"}); err == nil {
		t.Error("Expected error for non-numeric worker count")
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Cfg{PollInterval: 0, RecentWindow: -1}

	if cfg.GetPollInterval() != 2*time.Second {
		t.Errorf("Expected default poll interval 2s, got %v", cfg.GetPollInterval())
	}
	if cfg.GetRecentWindow() != 7*24*time.Hour {
		t.Errorf("Expected default recent window, got %v", cfg.GetRecentWindow())
	}
}
