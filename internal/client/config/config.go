package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the TaskCrew CLI.
//
// Fields:
//   - BaseURL: root of the REST API, no trailing slash required.
//   - DatabaseDSN: sqlite DSN of the local session database.
//   - RequestTimeout: client-wide timeout for a single HTTP request.
type Config struct {
	BaseURL        string
	DatabaseDSN    string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.DatabaseDSN = "taskcrew.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (a local .env file is honored if present), a JSON file (if
// given) and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// parseEnv overlays Config with values from environment variables:
//
//	TASKCREW_API_URL  — base URL of the API
//	TASKCREW_DB       — local database DSN
//
// A .env file in the working directory is loaded first; missing files are
// fine, real environment variables win over .env entries.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("TASKCREW_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TASKCREW_DB"); v != "" {
		cfg.DatabaseDSN = v
	}
}
