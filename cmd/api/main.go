package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/shopfront/internal/config"
	"github.com/shopfront/shopfront/internal/infra"
	"github.com/shopfront/shopfront/internal/logging"
	"github.com/shopfront/shopfront/internal/media"
	"github.com/shopfront/shopfront/internal/payments"
	"github.com/shopfront/shopfront/internal/routes"
	"github.com/shopfront/shopfront/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	format := logging.FormatJSON
	if cfg.IsDevelopment() {
		format = logging.FormatText
		displayAppname(cfg.AppName)
	}
	logger := logging.New(cfg.LogLevel, format)
	slog.SetDefault(logger)

	ctx := context.Background()
	deps := routes.Deps{Cfg: cfg, Logger: logger}

	if cfg.MongoURL != "" {
		client, err := infra.NewMongoClient(ctx, cfg.MongoURL)
		if err != nil {
			logger.Error("connect mongodb", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("disconnect mongodb", "error", err)
			}
		}()
		deps.Mongo = client.Database(cfg.MongoDatabase)
	}

	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.AppName)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		deps.DB = db
	}

	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
	}

	if cfg.S3.Enabled() {
		client, err := infra.NewS3Client(ctx, cfg.S3)
		if err != nil {
			logger.Error("configure s3", "error", err)
			os.Exit(1)
		}
		deps.Media = media.NewS3Uploader(client, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.PublicBaseURL)
	}

	if cfg.StripeSecretKey != "" {
		deps.Processor = payments.NewStripeProcessor(cfg.StripeSecretKey)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, using static payment processor")
	}

	srv, err := server.New(deps)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Address(), "env", cfg.AppEnv)
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}

func displayAppname(appname string) {
	banner := figure.NewFigure(appname, "cybermedium", true)
	banner.Print()
	fmt.Println()
}
