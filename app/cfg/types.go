package cfg

import (
	"time"
)

type Cfg struct {
	// Storage
	DBPath string

	// Application configuration
	SourcesDir   string
	Port         string
	BaseUrl      string
	WorkerCount  int
	PollInterval int // seconds
	APIAccessKey string
	Watch        bool

	// Curation
	RecentWindow  int // hours
	LatestCount   int
	ExcerptLength int
	UploadsURL    string
	Locale        string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

func (c *Cfg) GetPollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollInterval) * time.Second
}

func (c *Cfg) GetRecentWindow() time.Duration {
	if c.RecentWindow <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.RecentWindow) * time.Hour
}
