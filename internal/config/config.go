// Package config loads park-terminal settings from YAML with environment overrides
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// APIKeyEnv is the environment variable holding the NPS API key
	APIKeyEnv = "NPS_API_KEY"

	DefaultBaseURL   = "https://developer.nps.gov/api/v1"
	DefaultUserAgent = "ParkTerminal/1.0 (github.com/ngmaloney/park-terminal)"
)

// ErrMissingAPIKey is reported when no NPS API key is configured
var ErrMissingAPIKey = errors.New("no NPS API key set")

type NPS struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"` // overridden by NPS_API_KEY
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type Server struct {
	ListenAddress string        `yaml:"listen_address"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
}

type Storage struct {
	DBPath string `yaml:"db_path"`
}

type Boundaries struct {
	// Source is a .shp, a .zip containing one, or an http(s) URL to a zip.
	// Empty disables boundary lookups.
	Source string `yaml:"source"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
	File   string `yaml:"file"`   // empty logs to stderr
}

type Config struct {
	NPS        NPS        `yaml:"nps"`
	Server     Server     `yaml:"server"`
	Storage    Storage    `yaml:"storage"`
	Boundaries Boundaries `yaml:"boundaries"`
	Log        Log        `yaml:"log"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		NPS: NPS{
			BaseURL:   DefaultBaseURL,
			Timeout:   30 * time.Second,
			UserAgent: DefaultUserAgent,
		},
		Server: Server{
			ListenAddress: ":8080",
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  15 * time.Second,
			IdleTimeout:   60 * time.Second,
		},
		Storage: Storage{
			DBPath: "data/park-terminal.db",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path skips the file.
// NPS_API_KEY, when set, replaces the key from the file.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		c.NPS.APIKey = key
	}
	c.applyDefaults()
	return c, nil
}

// applyDefaults fills zero values left by a partial YAML file
func (c *Config) applyDefaults() {
	d := Default()
	if c.NPS.BaseURL == "" {
		c.NPS.BaseURL = d.NPS.BaseURL
	}
	c.NPS.BaseURL = strings.TrimRight(c.NPS.BaseURL, "/")
	if c.NPS.Timeout <= 0 {
		c.NPS.Timeout = d.NPS.Timeout
	}
	if c.NPS.UserAgent == "" {
		c.NPS.UserAgent = d.NPS.UserAgent
	}
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = d.Server.ListenAddress
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = d.Server.IdleTimeout
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = d.Storage.DBPath
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate reports configuration problems. A missing API key is not fatal for
// startup; callers log it and every upstream call then fails with ErrMissingAPIKey.
func (c Config) Validate() error {
	if c.NPS.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
