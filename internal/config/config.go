// Package config loads and validates docfind configuration.
//
// Configuration is read from .docfind.yaml in the corpus root when present;
// every field has a working default so a config file is never required.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/docfind/docfind/internal/errors"
)

// ConfigFileName is the per-corpus configuration file name.
const ConfigFileName = ".docfind.yaml"

// Config represents the complete docfind configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Cache     CacheConfig     `yaml:"cache"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Scan      ScanConfig      `yaml:"scan"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CacheConfig configures the persistent document cache.
type CacheConfig struct {
	// Dir is the cache directory. Empty means ~/.docfind.
	Dir string `yaml:"dir"`
}

// IngestConfig configures per-document processing limits.
type IngestConfig struct {
	// DeadlineSeconds is the nominal per-file processing deadline.
	DeadlineSeconds int `yaml:"deadline_seconds"`
	// MemoryLimitMB is the allowed memory growth during one ingestion.
	MemoryLimitMB int `yaml:"memory_limit_mb"`
	// MaxPDFPages caps how many pages are extracted from a PDF.
	MaxPDFPages int `yaml:"max_pdf_pages"`
}

// ScanConfig configures the batch scanner.
type ScanConfig struct {
	// Workers overrides the computed worker-pool size when > 0.
	Workers int `yaml:"workers"`
	// MinBatchSize and MaxBatchSize bound how many files form one batch.
	MinBatchSize int `yaml:"min_batch_size"`
	MaxBatchSize int `yaml:"max_batch_size"`
	// MaxPathDepth is the deepest resolved path accepted during enumeration.
	MaxPathDepth int `yaml:"max_path_depth"`
}

// SegmenterConfig configures word segmentation.
type SegmenterConfig struct {
	// DictPath points to a sego dictionary file. Empty selects the
	// dictionary-free unicode segmenter.
	DictPath string `yaml:"dict_path"`
}

// LoggingConfig configures the log sink.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Cache:   CacheConfig{Dir: DefaultCacheDir()},
		Ingest: IngestConfig{
			DeadlineSeconds: 180,
			MemoryLimitMB:   1024,
			MaxPDFPages:     50,
		},
		Scan: ScanConfig{
			Workers:      0,
			MinBatchSize: 10,
			MaxBatchSize: 20,
			MaxPathDepth: 20,
		},
		Segmenter: SegmenterConfig{DictPath: ""},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// DefaultCacheDir returns the default cache directory (~/.docfind).
// Falls back to the temp directory if the home directory is unavailable.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".docfind")
	}
	return filepath.Join(home, ".docfind")
}

// Load reads configuration for the given corpus root. Defaults are applied
// first, then .docfind.yaml overrides when the file exists.
func Load(root string) (*Config, error) {
	cfg := NewConfig()

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("parse %s: %v", ConfigFileName, err), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants, filling gaps with defaults
// where a zero value is acceptable.
func (c *Config) Validate() error {
	d := NewConfig()

	if c.Cache.Dir == "" {
		c.Cache.Dir = d.Cache.Dir
	}
	if c.Ingest.DeadlineSeconds <= 0 {
		c.Ingest.DeadlineSeconds = d.Ingest.DeadlineSeconds
	}
	if c.Ingest.MemoryLimitMB <= 0 {
		c.Ingest.MemoryLimitMB = d.Ingest.MemoryLimitMB
	}
	if c.Ingest.MaxPDFPages <= 0 {
		c.Ingest.MaxPDFPages = d.Ingest.MaxPDFPages
	}
	if c.Scan.MinBatchSize <= 0 {
		c.Scan.MinBatchSize = d.Scan.MinBatchSize
	}
	if c.Scan.MaxBatchSize <= 0 {
		c.Scan.MaxBatchSize = d.Scan.MaxBatchSize
	}
	if c.Scan.MinBatchSize > c.Scan.MaxBatchSize {
		return errors.Newf(errors.ErrCodeConfigInvalid,
			"scan.min_batch_size (%d) exceeds scan.max_batch_size (%d)",
			c.Scan.MinBatchSize, c.Scan.MaxBatchSize)
	}
	if c.Scan.Workers < 0 {
		return errors.Newf(errors.ErrCodeConfigInvalid,
			"scan.workers must not be negative (got %d)", c.Scan.Workers)
	}
	if c.Scan.MaxPathDepth <= 0 {
		c.Scan.MaxPathDepth = d.Scan.MaxPathDepth
	}
	if c.Segmenter.DictPath != "" {
		if _, err := os.Stat(c.Segmenter.DictPath); err != nil {
			return errors.Newf(errors.ErrCodeConfigInvalid,
				"segmenter.dict_path not readable: %s", c.Segmenter.DictPath)
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	return nil
}

// CacheDBPath returns the sqlite database path inside the cache directory.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Cache.Dir, "document_cache.db")
}
