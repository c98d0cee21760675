package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/osa911/formrelay/internal/config"
	"github.com/osa911/formrelay/internal/logging"
	"github.com/osa911/formrelay/internal/server"
	"github.com/osa911/formrelay/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Configure and get logger
	if err := logging.InitLogger(cfg.LogConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := logging.GetGlobalLogger()

	logger.Info("Starting formrelay %s in %s mode", version.Version, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = server.Run(ctx, cfg)
	stop()

	if err != nil {
		logger.Error("Server stopped with error: %v", err)
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}
