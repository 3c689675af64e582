package infra

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds the full application configuration. Secrets can be
// overridden via environment variables after the file is loaded.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Telegram struct {
		Token string `yaml:"token"`
	} `yaml:"telegram"`

	Finance struct {
		BaseURL     string `yaml:"base_url"`
		TimeoutSec  int    `yaml:"timeout_sec"`
		CacheTTLMin int    `yaml:"cache_ttl_min"`
	} `yaml:"finance"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (set KURSBOT_TOKEN)")
	}

	if !hasPrefix(c.Finance.BaseURL, "http://") && !hasPrefix(c.Finance.BaseURL, "https://") {
		return fmt.Errorf("invalid finance base URL: %s", c.Finance.BaseURL)
	}
	if c.Finance.TimeoutSec <= 0 {
		return fmt.Errorf("finance timeout must be positive")
	}
	if c.Finance.CacheTTLMin <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}

	return nil
}

// CacheTTL is the freshness window for the rate snapshot.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Finance.CacheTTLMin) * time.Minute
}

// FetchTimeout bounds a single provider call.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Finance.TimeoutSec) * time.Second
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment variable overrides when present.
func overrideWithEnv(cfg *Config) {
	if token := os.Getenv("KURSBOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if url := os.Getenv("KURSBOT_FINANCE_URL"); url != "" {
		cfg.Finance.BaseURL = url
	}
	if path := os.Getenv("KURSBOT_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
}
