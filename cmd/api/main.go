package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-employee/internal/app"
	"go-employee/internal/bootstrap"
	"go-employee/internal/config"
	"go-employee/internal/observability"
	"go-employee/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Otel, "api")
	if err != nil {
		logger.Fatal("init tracing failed", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	router, cleanup, err := app.BuildApp(cfg, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	if err := bootstrap.RunHTTPServer(
		ctx,
		router,
		bootstrap.ServerConfig{
			Port:         cfg.HTTP.Port,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		bootstrap.NewStdoutAuditLogger(logger),
	); err != nil {
		logger.Error("http server stopped with error", zap.Error(err))
	}
}
