package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/potties/internal/backup"
	"github.com/alfredjeanlab/potties/internal/config"
	"github.com/alfredjeanlab/potties/internal/events"
	"github.com/alfredjeanlab/potties/internal/metrics"
	"github.com/alfredjeanlab/potties/internal/notify"
	"github.com/alfredjeanlab/potties/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the potty HTTP and gRPC servers",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// serve does not talk to a remote server.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := cfg.NewLogger()
		slog.SetDefault(logger)

		store, backend, err := openStore(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		logger.Info("store opened", "backend", backend)

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (POTTY_NATS_URL not set)")
		}

		m := metrics.New()
		dispatcher := notify.New(store, notify.Config{
			Timeout:     cfg.WebhookTimeout,
			Concurrency: cfg.WebhookConcurrency,
			Logger:      logger,
			Metrics:     m,
		})
		pottyServer := server.NewPottyServer(store, server.Options{
			Publisher: publisher,
			Notifier:  dispatcher,
			Metrics:   m,
			Logger:    logger,
		})

		// gRPC carries only the health service; it is optional.
		var grpcStop func()
		if cfg.GRPCAddr != "" {
			grpcServer, healthServer := server.NewGRPCServer(logger, m)
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				publisher.Close()
				store.Close()
				return err
			}
			go func() {
				logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
				if err := grpcServer.Serve(lis); err != nil {
					logger.Error("gRPC server error", "error", err)
				}
			}()
			grpcStop = func() {
				healthServer.Shutdown()
				grpcServer.GracefulStop()
			}
		}

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           pottyServer.NewHTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		httpServer.RegisterOnShutdown(pottyServer.CloseStreams)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "error", err)
			}
		}()

		scheduler := startBackups(cfg, store, logger)

		logger.Info("potty server started",
			"http_addr", cfg.HTTPAddr,
			"grpc_addr", cfg.GRPCAddr,
			"webhook_timeout", cfg.WebhookTimeout,
			"webhook_concurrency", cfg.WebhookConcurrency,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("backup scheduler stopped")
		}
		if grpcStop != nil {
			grpcStop()
			logger.Info("gRPC server stopped")
		}

		// In-flight PATCHes may still be fanning out; give them the webhook
		// timeout plus a margin.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.WebhookTimeout+10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "error", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// startBackups builds the configured destinations and starts the scheduler.
// It returns nil when backups are disabled or no destination is configured.
func startBackups(cfg *config.Config, src backup.Source, logger *slog.Logger) *backup.Scheduler {
	if cfg.SyncInterval <= 0 {
		return nil
	}

	var dests []backup.Destination
	if cfg.SyncS3Bucket != "" {
		s3Dest, err := backup.NewS3Destination(context.Background(), backup.S3Options{
			Bucket:   cfg.SyncS3Bucket,
			Key:      cfg.SyncS3Key,
			Region:   cfg.SyncS3Region,
			Endpoint: cfg.SyncS3Endpoint,
		})
		if err != nil {
			logger.Error("failed to create S3 backup destination", "error", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("backup S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
		}
	}
	if cfg.SyncGitRepo != "" {
		dests = append(dests, backup.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch))
		logger.Info("backup git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
	}
	if len(dests) == 0 {
		return nil
	}

	scheduler := backup.NewScheduler(src, dests, cfg.SyncInterval, logger)
	scheduler.Start()
	logger.Info("backup scheduler started", "interval", cfg.SyncInterval)
	return scheduler
}
