package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	_ = os.Unsetenv("TASKFLOW_HTTP_PORT")
	_ = os.Unsetenv("TASKFLOW_SQLITE_PATH")
	_ = os.Unsetenv("TASKFLOW_MAX_BATCH_SIZE")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8080 || cfg.SQLitePath != "./data/telemetry.db" || cfg.MaxBatchSize != 500 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Environment != EnvDevelopment {
		t.Fatalf("unexpected default environment: %s", cfg.Environment)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	_ = os.Setenv("TASKFLOW_HTTP_PORT", "9191")
	_ = os.Setenv("TASKFLOW_TASK_API_URL", "http://tasks.internal:8000")
	defer func() {
		_ = os.Unsetenv("TASKFLOW_HTTP_PORT")
		_ = os.Unsetenv("TASKFLOW_TASK_API_URL")
	}()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 9191 {
		t.Fatalf("port env override failed, got %d", cfg.HTTPPort)
	}
	if cfg.TaskAPIURL != "http://tasks.internal:8000" {
		t.Fatalf("task api env override failed, got %s", cfg.TaskAPIURL)
	}
}

func TestConfigLoad_RejectsBadBatchSize(t *testing.T) {
	_ = os.Setenv("TASKFLOW_MAX_BATCH_SIZE", "0")
	defer func() { _ = os.Unsetenv("TASKFLOW_MAX_BATCH_SIZE") }()

	if _, err := New(); err == nil {
		t.Fatalf("expected error for MAX_BATCH_SIZE=0")
	}
}

func TestConfigForTesting(t *testing.T) {
	cfg := NewForTesting()
	if !cfg.IsTesting() {
		t.Fatalf("expected testing environment")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("testing config should validate: %v", err)
	}
}
