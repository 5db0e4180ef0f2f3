package config

import (
	"fmt"
	"time"
)

// S3 selects the optional S3 download sink. An empty Bucket means
// downloads go to DownloadDir.
type S3 struct {
	Bucket          string `json:"bucket" yaml:"bucket"`
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	Prefix          string `json:"prefix" yaml:"prefix"`
}

// Config holds runtime settings for the SecureVision client.
//
// Fields:
//   - BaseURL: root of the backend HTTP API, e.g. http://localhost:8000.
//   - StreamURL: livestream websocket URL; derived from BaseURL when empty.
//   - DownloadDir: local directory for downloaded items.
//   - SurfaceDir: directory the livestream surface writes frames to.
//   - JournalDSN: sqlite DSN of the gallery cleanup journal.
//   - LogLevel: debug, info, warn or error.
//   - ShutdownTimeout: how long exit waits for background cleanup.
type Config struct {
	BaseURL         string
	StreamURL       string
	DownloadDir     string
	SurfaceDir      string
	JournalDSN      string
	LogLevel        string
	ShutdownTimeout time.Duration
	S3              S3
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8000"
	c.StreamURL = ""
	c.DownloadDir = "downloads"
	c.SurfaceDir = "livestream"
	c.JournalDSN = "securevision.db"
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
	c.S3 = S3{}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
