package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ROADMAP_STORAGE_DRIVER", "")
	t.Setenv("ROADMAP_METRICS_EXPORTER", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageSQLite || cfg.Storage.Key != DefaultStorageKey {
		t.Fatalf("unexpected defaults %+v", cfg.Storage)
	}
	if cfg.Blob.Driver != BlobFilesystem {
		t.Fatalf("unexpected blob driver %s", cfg.Blob.Driver)
	}
	if cfg.Metrics.Exporter != ExporterPrometheus {
		t.Fatalf("unexpected exporter %s", cfg.Metrics.Exporter)
	}
}

func TestExporterFromEnv(t *testing.T) {
	t.Setenv("ROADMAP_METRICS_EXPORTER", " Expvar ")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Metrics.Exporter != ExporterExpvar {
		t.Fatalf("expected expvar exporter, got %q", cfg.Metrics.Exporter)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roadmap.yaml")
	body := `
storage:
  driver: Redis
  redis_url: redis://cache:6379/1
blob:
  driver: s3
  s3:
    bucket: exports
    path_style: true
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ROADMAP_STORAGE_KEY", "team-a")
	t.Setenv("ROADMAP_BLOB_S3_REGION", "eu-north-1")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageRedis || cfg.Storage.RedisURL != "redis://cache:6379/1" {
		t.Fatalf("yaml storage not applied: %+v", cfg.Storage)
	}
	if cfg.Storage.Key != "team-a" {
		t.Fatalf("env key override missing, got %s", cfg.Storage.Key)
	}
	if cfg.Storage.RedisPrefix != "roadmap:" {
		t.Fatalf("default prefix lost, got %q", cfg.Storage.RedisPrefix)
	}
	if !cfg.Blob.S3.PathStyle || cfg.Blob.S3.Bucket != "exports" || cfg.Blob.S3.Region != "eu-north-1" {
		t.Fatalf("unexpected s3 config %+v", cfg.Blob.S3)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %s", cfg.Log.Level)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown storage":   "storage:\n  driver: etcd\n",
		"postgres no dsn":   "storage:\n  driver: postgres\n",
		"s3 without bucket": "blob:\n  driver: s3\n",
		"unknown blob":      "blob:\n  driver: gcs\n",
		"bad level":         "log:\n  level: loud\n",
		"unknown exporter":  "metrics:\n  exporter: statsd\n",
		"not yaml":          "storage: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(body)); err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}

func TestApplyEnvIgnoresBadBool(t *testing.T) {
	cfg := Default()
	cfg.applyEnv(func(key string) string {
		if key == "ROADMAP_BLOB_S3_PATH_STYLE" {
			return "sometimes"
		}
		return ""
	})
	if cfg.Blob.S3.PathStyle {
		t.Fatalf("invalid bool must be ignored")
	}
}

func TestBlankKeyFallsBackToDefault(t *testing.T) {
	cfg, err := Parse([]byte("storage:\n  key: '  '\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Storage.Key != DefaultStorageKey {
		t.Fatalf("expected default key, got %q", cfg.Storage.Key)
	}
}
