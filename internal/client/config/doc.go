// Package config loads runtime configuration for the Lockbox CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path or DSN of the local vault database
//	-i int      inactivity check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "database_dsn": "vault.db",
//	  "inactivity_check_interval": "10s"
//	}
//
// Primary API
//
//   - type Config                     — holds DatabaseDSN and InactivityCheckInterval
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Per-account behaviour such as the inactivity timeout or the clipboard
// clear delay is stored with the account itself, not in this package.
package config
