// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command insights starts the AleutianInsights HTTP server.
//
// This is the main entry point for the containerized insights service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - INSIGHTS_PORT: HTTP server port (default: 12230)
//   - INSIGHTS_API_KEY: Bearer token for the v1 API (default: disabled)
//   - INSIGHTS_SESSION_TTL: Idle session lifetime, e.g. "24h" (default: 24h)
//   - INSIGHTS_SWEEP_INTERVAL: Expiry sweep cadence, e.g. "10m" (default: 10m)
//   - INSIGHTS_LOG_DIR: Log file directory (default: stderr only)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: aleutian-otel-collector:4317)
//   - GIN_MODE: Gin framework mode (debug, release, test)
//
// # Usage
//
//	# Build
//	go build -o insights ./cmd/insights
//
//	# Run
//	./insights
//
//	# Or via container
//	podman-compose up insights
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/AleutianAI/AleutianInsights/pkg/logging"
	"github.com/AleutianAI/AleutianInsights/services/insights"
)

func main() {
	// Setup structured logging
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(getEnvString("INSIGHTS_LOG_LEVEL", "INFO")),
		LogDir:  os.Getenv("INSIGHTS_LOG_DIR"),
		Service: "insights",
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// Build configuration from environment variables
	cfg := insights.Config{
		Port:          getEnvInt("INSIGHTS_PORT", 12230),
		APIKey:        os.Getenv("INSIGHTS_API_KEY"),
		OTelEndpoint:  getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "aleutian-otel-collector:4317"),
		GinMode:       os.Getenv("GIN_MODE"),
		SessionTTL:    getEnvDuration("INSIGHTS_SESSION_TTL", 24*time.Hour),
		SweepInterval: getEnvDuration("INSIGHTS_SWEEP_INTERVAL", 10*time.Minute),
	}

	slog.Info("Starting insights",
		"port", cfg.Port,
		"session_ttl", cfg.SessionTTL,
		"auth_enabled", cfg.APIKey != "",
	)

	svc, err := insights.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create insights service: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Insights error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
