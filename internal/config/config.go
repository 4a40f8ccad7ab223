package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultDatabaseURL is used when POTTY_DATABASE_URL is unset.
const DefaultDatabaseURL = "sqlite://pottyapi.db"

type Config struct {
	DatabaseURL string // POTTY_DATABASE_URL (default "sqlite://pottyapi.db")
	HTTPAddr    string // POTTY_HTTP_ADDR (default ":8080")
	GRPCAddr    string // POTTY_GRPC_ADDR (default ":9090"; "-" disables)
	NATSURL     string // POTTY_NATS_URL (optional, empty = no events)

	// Webhook delivery
	WebhookTimeout     time.Duration // POTTY_WEBHOOK_TIMEOUT (default 30s)
	WebhookConcurrency int           // POTTY_WEBHOOK_CONCURRENCY (default 1 = sequential)

	// Logging
	LogLevel  slog.Level // POTTY_LOG_LEVEL (debug, info, warn, error; default info)
	LogFormat string     // POTTY_LOG_FORMAT (text, json; default text)

	// Sync settings
	SyncInterval   time.Duration // POTTY_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // POTTY_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // POTTY_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // POTTY_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // POTTY_SYNC_S3_KEY (default "potties/backup.jsonl")
	SyncGitRepo    string        // POTTY_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // POTTY_SYNC_GIT_FILE (default "potties.jsonl")
	SyncGitBranch  string        // POTTY_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    envOrDefault("POTTY_DATABASE_URL", DefaultDatabaseURL),
		HTTPAddr:       envOrDefault("POTTY_HTTP_ADDR", ":8080"),
		GRPCAddr:       envOrDefault("POTTY_GRPC_ADDR", ":9090"),
		NATSURL:        os.Getenv("POTTY_NATS_URL"),
		LogFormat:      envOrDefault("POTTY_LOG_FORMAT", "text"),
		SyncS3Bucket:   os.Getenv("POTTY_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("POTTY_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("POTTY_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("POTTY_SYNC_S3_KEY", "potties/backup.jsonl"),
		SyncGitRepo:    os.Getenv("POTTY_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("POTTY_SYNC_GIT_FILE", "potties.jsonl"),
		SyncGitBranch:  envOrDefault("POTTY_SYNC_GIT_BRANCH", "main"),
	}
	if c.GRPCAddr == "-" {
		c.GRPCAddr = ""
	}

	var err error
	if c.WebhookTimeout, err = durationEnv("POTTY_WEBHOOK_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if c.WebhookTimeout <= 0 {
		return nil, fmt.Errorf("POTTY_WEBHOOK_TIMEOUT must be positive")
	}
	if c.SyncInterval, err = durationEnv("POTTY_SYNC_INTERVAL", "3m"); err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(envOrDefault("POTTY_WEBHOOK_CONCURRENCY", "1"))
	if err != nil {
		return nil, fmt.Errorf("POTTY_WEBHOOK_CONCURRENCY: %w", err)
	}
	if n < 1 {
		return nil, fmt.Errorf("POTTY_WEBHOOK_CONCURRENCY must be at least 1, got %d", n)
	}
	c.WebhookConcurrency = n

	if err := c.LogLevel.UnmarshalText([]byte(envOrDefault("POTTY_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("POTTY_LOG_LEVEL: %w", err)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return nil, fmt.Errorf("POTTY_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	return c, nil
}

// NewLogger builds the process logger described by the config.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func durationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
