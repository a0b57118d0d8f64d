package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backend holds connection settings for the MyMCP backend API.
type Backend struct {
	URL     string        `envconfig:"MYMCP_BACKEND_URL" default:"http://localhost:8100"`
	Timeout time.Duration `envconfig:"MYMCP_BACKEND_TIMEOUT" default:"10s"`
}

// OTEL holds the optional metrics exporter configuration.
type OTEL struct {
	Enabled  bool   `envconfig:"MYMCP_OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"MYMCP_OTEL_ENDPOINT"`
	Insecure bool   `envconfig:"MYMCP_OTEL_INSECURE" default:"false"`
}

// Console holds configuration for the web console.
type Console struct {
	Backend      Backend
	OTEL         OTEL
	Port         int    `envconfig:"MYMCP_PORT" default:"8501"`
	ToolsDir     string `envconfig:"MYMCP_TOOLS_DIR" default:"agent-resources/tools"`
	ExtensionDir string `envconfig:"MYMCP_EXTENSION_DIR" default:"extension"`
}

// Load loads console configuration from environment variables.
func Load() (*Console, error) {
	var cfg Console
	if err := envconfig.Process("", &cfg.Backend); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.OTEL); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
