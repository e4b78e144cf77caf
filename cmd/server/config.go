package main

import (
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/config"
)

// loadAppConfig reads the configuration from the environment and the
// optional config file, reporting what was loaded at startup.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	// Only the presence of the database URL is logged, never its value.
	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}

	return cfg, nil
}
