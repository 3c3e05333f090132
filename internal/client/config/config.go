package config

import "time"

// Config holds runtime settings for the Uni Yatwon CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend HTTP API; endpoint paths are
//     appended to it.
//   - SessionDBPath: path of the local SQLite file holding the persisted
//     session.
//   - PushDeviceToken: optional device token registered for push
//     notifications after sign-in.
//   - NotiCheckInterval: how often the background watcher polls for new
//     notifications. Zero disables polling.
//
// Units: NotiCheckInterval is a time.Duration (e.g., 2*time.Minute).
type Config struct {
	APIBaseURL        string
	SessionDBPath     string
	PushDeviceToken   string
	NotiCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.uniyatwon.com"
	c.SessionDBPath = "yatwon.db"
	c.PushDeviceToken = ""
	c.NotiCheckInterval = 2 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
