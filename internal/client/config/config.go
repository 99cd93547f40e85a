package config

import "time"

// Config holds runtime settings for the Lockbox CLI.
//
// Fields:
//   - DatabaseDSN: path or DSN of the local SQLite vault database.
//   - InactivityCheckInterval: how often the session manager compares idle
//     time against the per-account threshold.
//
// Per-account timeouts (inactivity, clipboard clear) live in the account
// settings, not here.
type Config struct {
	DatabaseDSN             string
	InactivityCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "vault.db"
	c.InactivityCheckInterval = 10 * time.Second
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
