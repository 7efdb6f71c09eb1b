package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/newsdesk.db" description:"SQLite database file"`

	// Application configuration
	SourcesDir   string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for source syncing"`
	PollInterval int    `long:"poll-interval" env:"POLL_INTERVAL" default:"2" description:"Source polling interval in seconds"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`
	Watch        bool   `long:"watch" env:"WATCH_SOURCES" description:"Reload source configurations when files change"`

	// Curation
	RecentWindow  int    `long:"recent-window" env:"RECENT_WINDOW" default:"168" description:"Window in hours for counting recent articles"`
	LatestCount   int    `long:"latest-count" env:"LATEST_COUNT" default:"3" description:"Number of latest articles on the dashboard"`
	ExcerptLength int    `long:"excerpt-length" env:"EXCERPT_LENGTH" default:"110" description:"Excerpt length in characters"`
	UploadsURL    string `long:"uploads-url" env:"UPLOADS_URL" description:"Base URL for relative article images"`
	Locale        string `long:"locale" env:"LOCALE" default:"en-US" description:"Locale for absolute dates (BCP 47)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Newsdesk/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads an optional .env file, then flags and environment. It returns
// nil, nil when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

func LoadArgs(args []string) (*Cfg, error) {
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:        raw.DBPath,
		SourcesDir:    raw.SourcesDir,
		Port:          raw.Port,
		BaseUrl:       raw.BaseUrl,
		WorkerCount:   raw.WorkerCount,
		PollInterval:  raw.PollInterval,
		APIAccessKey:  raw.APIAccessKey,
		Watch:         raw.Watch,
		RecentWindow:  raw.RecentWindow,
		LatestCount:   raw.LatestCount,
		ExcerptLength: raw.ExcerptLength,
		UploadsURL:    raw.UploadsURL,
		Locale:        raw.Locale,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
