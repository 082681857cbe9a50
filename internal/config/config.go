// Package config loads the pixvec CLI configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/pixvec/codec"
	"github.com/hupe1980/pixvec/raster"
)

// Store kinds.
const (
	StoreLocal = "local"
	StoreS3    = "s3"
	StoreMinIO = "minio"
)

// Config defines runtime settings for the CLI.
type Config struct {
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	Limit   int    `yaml:"limit"`
	Workers int    `yaml:"workers"`
	MaxRows int    `yaml:"maxRows"`
	Format  string `yaml:"format"`
	Scale   int    `yaml:"scale"`
	Codec   string `yaml:"codec"`

	MemoryLimitBytes   int64 `yaml:"memoryLimitBytes"`
	IOLimitBytesPerSec int64 `yaml:"ioLimitBytesPerSec"`

	Store Store `yaml:"store"`
}

// Store selects the blob store datasets are read from and galleries written to.
type Store struct {
	Kind   string `yaml:"kind"`
	Root   string `yaml:"root"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`

	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Secure    bool   `yaml:"secure"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Limit:     5,
		Format:    "png",
		Scale:     1,
		Codec:     "go-json",
		Store: Store{
			Kind: StoreLocal,
			Root: ".",
		},
	}
}

// LoadConfig loads configuration from a YAML file and environment overrides.
// An empty path skips the file. The result is not validated: callers apply their
// own overrides first and then call Validate.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"PIXVEC_LOG_LEVEL":        &c.LogLevel,
		"PIXVEC_LOG_FORMAT":       &c.LogFormat,
		"PIXVEC_FORMAT":           &c.Format,
		"PIXVEC_CODEC":            &c.Codec,
		"PIXVEC_STORE":            &c.Store.Kind,
		"PIXVEC_STORE_ROOT":       &c.Store.Root,
		"PIXVEC_BUCKET":           &c.Store.Bucket,
		"PIXVEC_PREFIX":           &c.Store.Prefix,
		"PIXVEC_REGION":           &c.Store.Region,
		"PIXVEC_MINIO_ENDPOINT":   &c.Store.Endpoint,
		"PIXVEC_MINIO_ACCESS_KEY": &c.Store.AccessKey,
		"PIXVEC_MINIO_SECRET_KEY": &c.Store.SecretKey,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PIXVEC_LIMIT":    &c.Limit,
		"PIXVEC_WORKERS":  &c.Workers,
		"PIXVEC_MAX_ROWS": &c.MaxRows,
		"PIXVEC_SCALE":    &c.Scale,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
			*dst = n
		}
	}

	int64s := map[string]*int64{
		"PIXVEC_MEMORY_LIMIT": &c.MemoryLimitBytes,
		"PIXVEC_IO_LIMIT":     &c.IOLimitBytesPerSec,
	}
	for key, dst := range int64s {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("PIXVEC_MINIO_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse PIXVEC_MINIO_SECURE: %w", err)
		}
		c.Store.Secure = secure
	}

	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if _, err := raster.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		errs = append(errs, fmt.Errorf("unknown codec %q", c.Codec))
	}
	if c.Scale < 1 || c.Scale > raster.MaxScale {
		errs = append(errs, fmt.Errorf("scale %d out of range [1, %d]", c.Scale, raster.MaxScale))
	}
	if c.MemoryLimitBytes < 0 || c.IOLimitBytesPerSec < 0 {
		errs = append(errs, errors.New("resource limits must not be negative"))
	}

	switch c.Store.Kind {
	case StoreLocal:
		if c.Store.Root == "" {
			errs = append(errs, errors.New("local store needs a root"))
		}
	case StoreS3:
		if c.Store.Bucket == "" {
			errs = append(errs, errors.New("s3 store needs a bucket"))
		}
	case StoreMinIO:
		if c.Store.Bucket == "" || c.Store.Endpoint == "" {
			errs = append(errs, errors.New("minio store needs a bucket and an endpoint"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q", c.Store.Kind))
	}

	return errors.Join(errs...)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}

// DefaultConfigPath returns the default location for the CLI config file.
func DefaultConfigPath() string {
	if path := os.Getenv("PIXVEC_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pixvec", "config.yaml")
}
