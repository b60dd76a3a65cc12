// Package main runs the standalone calendar reconciler worker. It can be
// deployed separately from the API server when cleanup volume warrants it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meetbook/backend/config"
	"github.com/meetbook/backend/internal/calendar"
	"github.com/meetbook/backend/internal/worker"
	"github.com/meetbook/backend/pkg/queue"
	"github.com/meetbook/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.Google.CredentialsFile == "" {
		logger.Fatal("GOOGLE_CREDENTIALS_FILE is required for the reconciler worker")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	calSvc, err := calendar.NewGoogleService(ctx, cfg.Google.CredentialsFile, cfg.Google.CalendarID,
		time.Duration(cfg.Google.CalendarTimeoutSec)*time.Second)
	if err != nil {
		logger.Fatal("calendar", zap.Error(err))
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	reconciler := worker.NewReconciler(calSvc, jobQueue, logger)

	go reconciler.Run(ctx)
	logger.Info("calendar reconciler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
