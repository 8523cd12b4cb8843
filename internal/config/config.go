// Package config assembles runtime settings for the papersync client.
// Sources are layered: defaults, then environment (.env aware), then an
// optional JSON file, then command-line flags — later sources win.
package config

import "time"

// Config holds runtime settings for the papersync client.
type Config struct {
	// ServerEndpointAddr is the base URL of the document service,
	// e.g. "https://docs.example.com".
	ServerEndpointAddr string

	// DatabasePath is the SQLite file backing the local document store.
	DatabasePath string

	// OnlineCheckInterval is how often the client probes server reachability.
	OnlineCheckInterval time.Duration

	// RequestTimeout bounds every single remote call.
	RequestTimeout time.Duration

	// MaxDeleteAttempts bounds remote delete retries for a tombstone.
	MaxDeleteAttempts int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "papersync.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.MaxDeleteAttempts = 5
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if provided) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
