package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/securevision/internal/flagx"
	"github.com/dmitrijs2005/securevision/internal/timex"
)

// FileConfig is the DTO for config files. Pointers tell an absent key from
// an empty one so a file only overrides what it names.
type FileConfig struct {
	BaseURL         *string         `json:"base_url" yaml:"base_url"`
	StreamURL       *string         `json:"stream_url" yaml:"stream_url"`
	DownloadDir     *string         `json:"download_dir" yaml:"download_dir"`
	SurfaceDir      *string         `json:"surface_dir" yaml:"surface_dir"`
	JournalDSN      *string         `json:"journal_dsn" yaml:"journal_dsn"`
	LogLevel        *string         `json:"log_level" yaml:"log_level"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	S3              *S3             `json:"s3" yaml:"s3"`
}

// parseFile overlays cfg with the file named by -c or -config. Files ending
// in .yaml or .yml are read as YAML, everything else as JSON.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}
	return loadFile(cfg, path)
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.BaseURL, fc.BaseURL)
	set(&cfg.StreamURL, fc.StreamURL)
	set(&cfg.DownloadDir, fc.DownloadDir)
	set(&cfg.SurfaceDir, fc.SurfaceDir)
	set(&cfg.JournalDSN, fc.JournalDSN)
	set(&cfg.LogLevel, fc.LogLevel)
	if fc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	if fc.S3 != nil {
		cfg.S3 = *fc.S3
	}
}
