package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(sentimentBackendEnv, "")
	t.Setenv(sentimentKeyEnv, "")
	t.Setenv(databaseDSNEnv, "")

	cfg := Load()

	if cfg.Sentiment.Backend != BackendLexicon {
		t.Fatalf("default backend should be lexicon, got %q", cfg.Sentiment.Backend)
	}
	if cfg.Sentiment.BatchSize != 10 {
		t.Fatalf("default batch size should be 10, got %d", cfg.Sentiment.BatchSize)
	}
	if cfg.Pipeline.MinTextLen != 15 {
		t.Fatalf("default min text length should be 15, got %d", cfg.Pipeline.MinTextLen)
	}
	if len(cfg.Sources) != 3 {
		t.Fatalf("expected 3 default sources, got %d", len(cfg.Sources))
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("default timezone should be UTC, got %s", cfg.Scheduler.Location())
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
logging:
  level: debug
pipeline:
  rawDir: /var/agency/raw
  minTextLen: 25
sentiment:
  backend: remote
  batchSize: 5
agency:
  searchTerms: ["licensing board"]
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(sentimentBackendEnv, "")
	t.Setenv(sentimentKeyEnv, "")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("file level not applied, got %q", cfg.Logging.Level)
	}
	if cfg.Pipeline.RawDir != "/var/agency/raw" {
		t.Fatalf("file rawDir not applied, got %q", cfg.Pipeline.RawDir)
	}
	if cfg.Pipeline.MinTextLen != 25 {
		t.Fatalf("file minTextLen not applied, got %d", cfg.Pipeline.MinTextLen)
	}
	if cfg.Sentiment.Backend != BackendRemote {
		t.Fatalf("file backend not applied, got %q", cfg.Sentiment.Backend)
	}
	if cfg.Sentiment.BatchSize != 5 {
		t.Fatalf("file batch size not applied, got %d", cfg.Sentiment.BatchSize)
	}

	// unset fields keep their defaults
	if cfg.Pipeline.CanonicalPath != "data/interim/mentions_clean.csv" {
		t.Fatalf("unset canonicalPath lost its default, got %q", cfg.Pipeline.CanonicalPath)
	}
	if len(cfg.Agency.SearchTerms) != 1 || cfg.Agency.SearchTerms[0] != "licensing board" {
		t.Fatalf("file search terms not applied, got %v", cfg.Agency.SearchTerms)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
sentiment:
  backend: lexicon
  apiKey: file-key
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(sentimentBackendEnv, "remote")
	t.Setenv(sentimentKeyEnv, "env-key")
	t.Setenv(databaseDSNEnv, "postgres://pulse@localhost/pulse")

	cfg := Load()

	if cfg.Sentiment.Backend != BackendRemote {
		t.Fatalf("env backend should win over file, got %q", cfg.Sentiment.Backend)
	}
	if cfg.Sentiment.APIKey != "env-key" {
		t.Fatalf("env api key should win over file, got %q", cfg.Sentiment.APIKey)
	}
	if cfg.Database.DSN != "postgres://pulse@localhost/pulse" {
		t.Fatalf("env dsn not applied, got %q", cfg.Database.DSN)
	}
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(sentimentBackendEnv, "")
	t.Setenv(sentimentKeyEnv, "")
	t.Setenv(databaseDSNEnv, "")

	cfg := Load()

	if cfg.Sentiment.Backend != BackendLexicon {
		t.Fatalf("missing file should fall back to defaults, got %q", cfg.Sentiment.Backend)
	}
}

func TestSentimentTimeout(t *testing.T) {
	t.Parallel()

	if got := (SentimentConfig{}).Timeout(); got != 60*time.Second {
		t.Fatalf("zero timeout should default to 60s, got %s", got)
	}
	if got := (SentimentConfig{TimeoutSeconds: 5}).Timeout(); got != 5*time.Second {
		t.Fatalf("explicit timeout ignored, got %s", got)
	}
}

func TestBindTimezoneRejectsUnknown(t *testing.T) {
	t.Parallel()

	cfg := Config{Scheduler: SchedulerConfig{Timezone: "Mars/Olympus"}}
	cfg.bindTimezone()

	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unknown timezone should revert to UTC, got %s", cfg.Scheduler.Location())
	}
}
