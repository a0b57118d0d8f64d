package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Backend.URL != "http://localhost:8100" {
		t.Errorf("Backend.URL = %q, want the local backend default", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Backend.Timeout = %v, want 10s", cfg.Backend.Timeout)
	}
	if cfg.Port != 8501 {
		t.Errorf("Port = %d, want 8501", cfg.Port)
	}
	if cfg.ToolsDir != "agent-resources/tools" {
		t.Errorf("ToolsDir = %q", cfg.ToolsDir)
	}
	if cfg.OTEL.Enabled {
		t.Error("OTEL must be disabled by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MYMCP_BACKEND_URL", "http://backend:9000")
	t.Setenv("MYMCP_PORT", "3000")
	t.Setenv("MYMCP_OTEL_ENABLED", "true")
	t.Setenv("MYMCP_OTEL_ENDPOINT", "collector:4317")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Backend.URL != "http://backend:9000" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "collector:4317" {
		t.Errorf("OTEL = %+v", cfg.OTEL)
	}
}
