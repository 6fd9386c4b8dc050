// Package config loads roadmapcore settings from an optional YAML file with
// ROADMAP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage drivers for the durable document slot.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageFile     = "file"
)

// Blob drivers for exports and the file slot.
const (
	BlobFilesystem = "fs"
	BlobMemory     = "memory"
	BlobS3         = "s3"
)

// Metrics exporters.
const (
	ExporterPrometheus = "prometheus"
	ExporterExpvar     = "expvar"
)

// DefaultStorageKey is the slot key used when none is configured.
const DefaultStorageKey = "roadmap-planner-2026"

// Storage selects and configures the slot backend.
type Storage struct {
	Driver      string `yaml:"driver"`
	Key         string `yaml:"key"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// S3 configures the S3 blob driver.
type S3 struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// Blob selects and configures the blob backend.
type Blob struct {
	Driver string `yaml:"driver"`
	FSRoot string `yaml:"fs_root"`
	S3     S3     `yaml:"s3"`
}

// Metrics configures the prometheus collectors.
type Metrics struct {
	Exporter  string `yaml:"exporter"`
	Namespace string `yaml:"namespace"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `yaml:"level"`
}

// Config is the full roadmapcore configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Blob    Blob    `yaml:"blob"`
	Metrics Metrics `yaml:"metrics"`
	Log     Log     `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:      StorageSQLite,
			Key:         DefaultStorageKey,
			SQLitePath:  "roadmap.db",
			RedisURL:    "redis://localhost:6379/0",
			RedisPrefix: "roadmap:",
		},
		Blob: Blob{
			Driver: BlobFilesystem,
			FSRoot: "./blobdata",
			S3:     S3{Region: "us-east-1"},
		},
		Metrics: Metrics{Exporter: ExporterPrometheus, Namespace: "roadmap"},
		Log:     Log{Level: "info"},
	}
}

// Load reads path (skipped when empty or missing), applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv(os.Getenv)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML data on top of the defaults without consulting the
// environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Storage.Driver, "ROADMAP_STORAGE_DRIVER")
	set(&c.Storage.Key, "ROADMAP_STORAGE_KEY")
	set(&c.Storage.SQLitePath, "ROADMAP_SQLITE_PATH")
	set(&c.Storage.PostgresDSN, "ROADMAP_POSTGRES_DSN")
	set(&c.Storage.RedisURL, "ROADMAP_REDIS_URL")
	set(&c.Storage.RedisPrefix, "ROADMAP_REDIS_PREFIX")
	set(&c.Blob.Driver, "ROADMAP_BLOB_DRIVER")
	set(&c.Blob.FSRoot, "ROADMAP_BLOB_FS_ROOT")
	set(&c.Blob.S3.Bucket, "ROADMAP_BLOB_S3_BUCKET")
	set(&c.Blob.S3.Region, "ROADMAP_BLOB_S3_REGION")
	set(&c.Blob.S3.Endpoint, "ROADMAP_BLOB_S3_ENDPOINT")
	set(&c.Blob.S3.AccessKey, "ROADMAP_BLOB_S3_ACCESS_KEY")
	set(&c.Blob.S3.SecretKey, "ROADMAP_BLOB_S3_SECRET_KEY")
	if v := getenv("ROADMAP_BLOB_S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Blob.S3.PathStyle = b
		}
	}
	set(&c.Metrics.Exporter, "ROADMAP_METRICS_EXPORTER")
	set(&c.Metrics.Namespace, "ROADMAP_METRICS_NAMESPACE")
	set(&c.Log.Level, "ROADMAP_LOG_LEVEL")
}

func (c *Config) normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Storage.Key = strings.TrimSpace(c.Storage.Key)
	if c.Storage.Key == "" {
		c.Storage.Key = DefaultStorageKey
	}
	c.Blob.Driver = strings.ToLower(strings.TrimSpace(c.Blob.Driver))
	c.Metrics.Exporter = strings.ToLower(strings.TrimSpace(c.Metrics.Exporter))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite, StorageFile:
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres driver")
		}
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case BlobFilesystem, BlobMemory:
	case BlobS3:
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}
	switch c.Metrics.Exporter {
	case ExporterPrometheus, ExporterExpvar:
	default:
		return fmt.Errorf("unknown metrics exporter %q", c.Metrics.Exporter)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}
