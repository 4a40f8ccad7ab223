package config

import (
	"log/slog"
	"testing"
	"time"
)

// syncEnvVars lists all sync-related env vars that must be cleared between tests.
var syncEnvVars = []string{
	"POTTY_SYNC_INTERVAL", "POTTY_SYNC_S3_BUCKET", "POTTY_SYNC_S3_ENDPOINT",
	"POTTY_SYNC_S3_REGION", "POTTY_SYNC_S3_KEY", "POTTY_SYNC_GIT_REPO",
	"POTTY_SYNC_GIT_FILE", "POTTY_SYNC_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"POTTY_DATABASE_URL", "POTTY_GRPC_ADDR", "POTTY_HTTP_ADDR", "POTTY_NATS_URL",
		"POTTY_WEBHOOK_TIMEOUT", "POTTY_WEBHOOK_CONCURRENCY", "POTTY_LOG_LEVEL", "POTTY_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	for _, key := range syncEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantDB       string
		wantGRPCAddr string
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:         "Defaults",
			env:          map[string]string{},
			wantDB:       DefaultDatabaseURL,
			wantGRPCAddr: ":9090",
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"POTTY_DATABASE_URL": "postgres://db:5432/potties",
				"POTTY_GRPC_ADDR":    ":5050",
				"POTTY_HTTP_ADDR":    ":3000",
				"POTTY_NATS_URL":     "nats://localhost:4222",
			},
			wantDB:       "postgres://db:5432/potties",
			wantGRPCAddr: ":5050",
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
		{
			name:         "GRPCDisabled",
			env:          map[string]string{"POTTY_GRPC_ADDR": "-"},
			wantDB:       DefaultDatabaseURL,
			wantGRPCAddr: "",
			wantHTTPAddr: ":8080",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.wantDB {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.wantDB)
			}
			if cfg.GRPCAddr != tc.wantGRPCAddr {
				t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, tc.wantGRPCAddr)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoad_WebhookAndLogging(t *testing.T) {
	clearAllEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WebhookTimeout != 30*time.Second {
		t.Errorf("WebhookTimeout = %v, want 30s", cfg.WebhookTimeout)
	}
	if cfg.WebhookConcurrency != 1 {
		t.Errorf("WebhookConcurrency = %d, want 1", cfg.WebhookConcurrency)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
		t.Errorf("log = %v/%q, want INFO/text", cfg.LogLevel, cfg.LogFormat)
	}

	t.Setenv("POTTY_WEBHOOK_TIMEOUT", "5s")
	t.Setenv("POTTY_WEBHOOK_CONCURRENCY", "8")
	t.Setenv("POTTY_LOG_LEVEL", "debug")
	t.Setenv("POTTY_LOG_FORMAT", "JSON")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WebhookTimeout != 5*time.Second || cfg.WebhookConcurrency != 8 {
		t.Errorf("webhook = %v/%d", cfg.WebhookTimeout, cfg.WebhookConcurrency)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("log = %v/%q, want DEBUG/json", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.NewLogger() == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	for _, tc := range []struct {
		key, value string
	}{
		{"POTTY_WEBHOOK_TIMEOUT", "soon"},
		{"POTTY_WEBHOOK_TIMEOUT", "-1s"},
		{"POTTY_WEBHOOK_CONCURRENCY", "many"},
		{"POTTY_WEBHOOK_CONCURRENCY", "0"},
		{"POTTY_LOG_LEVEL", "verbose"},
		{"POTTY_LOG_FORMAT", "xml"},
		{"POTTY_SYNC_INTERVAL", "invalid"},
	} {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearAllEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_SyncDefaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SyncInterval != 3*time.Minute {
		t.Errorf("SyncInterval = %v, want 3m", cfg.SyncInterval)
	}
	if cfg.SyncS3Bucket != "" {
		t.Errorf("SyncS3Bucket = %q, want empty", cfg.SyncS3Bucket)
	}
	if cfg.SyncS3Region != "us-east-1" {
		t.Errorf("SyncS3Region = %q, want %q", cfg.SyncS3Region, "us-east-1")
	}
	if cfg.SyncS3Key != "potties/backup.jsonl" {
		t.Errorf("SyncS3Key = %q, want %q", cfg.SyncS3Key, "potties/backup.jsonl")
	}
	if cfg.SyncGitRepo != "" {
		t.Errorf("SyncGitRepo = %q, want empty", cfg.SyncGitRepo)
	}
	if cfg.SyncGitFile != "potties.jsonl" {
		t.Errorf("SyncGitFile = %q, want %q", cfg.SyncGitFile, "potties.jsonl")
	}
	if cfg.SyncGitBranch != "main" {
		t.Errorf("SyncGitBranch = %q, want %q", cfg.SyncGitBranch, "main")
	}
}

func TestLoad_SyncCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("POTTY_SYNC_INTERVAL", "10m")
	t.Setenv("POTTY_SYNC_S3_BUCKET", "my-bucket")
	t.Setenv("POTTY_SYNC_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("POTTY_SYNC_S3_REGION", "eu-west-1")
	t.Setenv("POTTY_SYNC_S3_KEY", "custom/key.jsonl")
	t.Setenv("POTTY_SYNC_GIT_REPO", "/tmp/repo")
	t.Setenv("POTTY_SYNC_GIT_FILE", "data.jsonl")
	t.Setenv("POTTY_SYNC_GIT_BRANCH", "develop")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SyncInterval != 10*time.Minute {
		t.Errorf("SyncInterval = %v, want 10m", cfg.SyncInterval)
	}
	if cfg.SyncS3Bucket != "my-bucket" || cfg.SyncS3Endpoint != "http://minio:9000" ||
		cfg.SyncS3Region != "eu-west-1" || cfg.SyncS3Key != "custom/key.jsonl" {
		t.Errorf("S3 settings = %+v", cfg)
	}
	if cfg.SyncGitRepo != "/tmp/repo" || cfg.SyncGitFile != "data.jsonl" || cfg.SyncGitBranch != "develop" {
		t.Errorf("git settings = %+v", cfg)
	}
}

func TestLoad_SyncDisabled(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("POTTY_SYNC_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %v, want 0", cfg.SyncInterval)
	}
}
