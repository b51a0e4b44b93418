package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDriverEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(llmAPIKeyEnv, "")
	t.Setenv(llmModelEnv, "")
	t.Setenv(llmEndpointEnv, "")

	cfg := Load()

	if cfg.Database.Driver != "postgres" {
		t.Errorf("default driver = %q", cfg.Database.Driver)
	}
	if cfg.Refresh.IntervalDuration() != 30*time.Minute {
		t.Errorf("default interval = %s", cfg.Refresh.IntervalDuration())
	}
	if cfg.Refresh.FeedDelayDuration() != time.Second {
		t.Errorf("default feed delay = %s", cfg.Refresh.FeedDelayDuration())
	}
	if cfg.LLM.Model != "deepseek-chat" {
		t.Errorf("default model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "" {
		t.Errorf("default api key must be empty, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
database:
  driver: sqlite
  dsn: news.db
refresh:
  interval: 5m
llm:
  model: file-model
logging:
  level: debug
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDriverEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(llmAPIKeyEnv, "secret")
	t.Setenv(llmModelEnv, "env-model")
	t.Setenv(llmEndpointEnv, "")

	cfg := Load()

	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "news.db" {
		t.Errorf("file override lost: %+v", cfg.Database)
	}
	if cfg.Refresh.IntervalDuration() != 5*time.Minute {
		t.Errorf("interval = %s", cfg.Refresh.IntervalDuration())
	}
	// File left feedDelay unset; the default survives the merge.
	if cfg.Refresh.FeedDelayDuration() != time.Second {
		t.Errorf("feed delay = %s", cfg.Refresh.FeedDelayDuration())
	}
	if cfg.LLM.Model != "env-model" {
		t.Errorf("env must win over file, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "secret" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
}

func TestParseDurationRejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"nonsense", time.Minute},
		{"-5s", time.Minute},
		{"90s", 90 * time.Second},
	}
	for _, c := range cases {
		if got := parseDuration(c.value, time.Minute); got != c.want {
			t.Errorf("parseDuration(%q) = %s, want %s", c.value, got, c.want)
		}
	}
}
