// Command slogx-demo simulates backend traffic and streams the resulting
// logs, giving a connected viewer something to watch.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/binhonglee/slogx"
	"github.com/binhonglee/slogx/internal/config"
	"github.com/binhonglee/slogx/internal/logging"
)

type user struct {
	ID   int
	Name string
	Role string
}

var users = []user{
	{ID: 1, Name: "Alice", Role: "admin"},
	{ID: 2, Name: "Bob", Role: "editor"},
	{ID: 3, Name: "Charlie", Role: "viewer"},
}

var endpoints = []string{"/api/login", "/api/dashboard", "/api/settings", "/api/data"}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if err := slogx.Init(slogx.Config{
		Enabled:     cfg.StreamEnabled,
		Port:        cfg.StreamPort,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		slog.Error("Failed to start log stream", "error", err)
		os.Exit(1)
	}

	slog.Info("Simulating backend traffic", "service", cfg.ServiceName, "stream_enabled", cfg.StreamEnabled)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(1500 * time.Millisecond)
	defer ticker.Stop()

	requestCount := 0
	for {
		select {
		case <-sigCh:
			slog.Info("Shutting down")
			return
		case <-ticker.C:
			requestCount++
			emit(requestCount)
		}
	}
}

func emit(requestCount int) {
	u := users[rand.Intn(len(users))]
	endpoint := endpoints[rand.Intn(len(endpoints))]

	switch r := rand.Float64(); {
	case r < 0.3:
		slogx.Info(fmt.Sprintf("Request completed: %s", endpoint))
	case r < 0.55:
		slogx.Info(fmt.Sprintf("Incoming request: %s", endpoint), map[string]any{
			"method":     "GET",
			"ip":         "192.168.1.42",
			"request_id": fmt.Sprintf("req_%d", requestCount),
		})
	case r < 0.7:
		slogx.Debug("User context loaded", u, map[string]any{
			"event": "cache_hit",
			"key":   fmt.Sprintf("user:%d", u.ID),
			"ttl":   3600,
		})
	case r < 0.85:
		slogx.Warn("Query took longer than expected", map[string]any{
			"duration_ms":  450,
			"threshold_ms": 200,
		})
	case r < 0.95:
		slogx.Info("Batch processed", []any{1, "two", map[string]int{"three": 3}, nil, true})
	default:
		slogx.Error("Critical failure", errors.New("database connection lost"))
	}
}
