// Package main implements the entry point for the heartserve service, an
// HTTP inference service for a pre-trained heart-disease classifier.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/heartserve/audit"
	"github.com/c360/heartserve/config"
	"github.com/c360/heartserve/health"
	"github.com/c360/heartserve/metric"
	"github.com/c360/heartserve/model"
	"github.com/c360/heartserve/server"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "heartserve"
)

const shutdownTimeout = 30 * time.Second

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if cliCfg.ShowVersion {
		printVersion()
		return nil
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyCLIOverrides(cfg, cliCfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		logger.Info("Configuration is valid")
		return nil
	}

	// Fail fast: a missing, corrupt, or schema-drifted artifact must stop
	// startup before the listener opens.
	predictor, err := model.Load(cfg.Model.Path)
	if err != nil {
		return fmt.Errorf("load model artifact: %w", err)
	}
	logger.Info("Model artifact loaded",
		"path", cfg.Model.Path,
		"model_version", predictor.ModelVersion(),
		"trees", predictor.TreeCount(),
		"training_accuracy", predictor.Accuracy(),
	)

	auditLog, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer func() {
		if err := auditLog.Close(); err != nil {
			logger.Warn("Audit log close failed", "error", err)
		}
	}()
	logger.Info("Audit log open", "path", cfg.Audit.Path)

	registry := metric.NewRegistry()
	registry.Metrics().SetModelLoaded(true)

	monitor := health.NewMonitor()
	monitor.UpdateHealthy("model", "artifact loaded")
	monitor.UpdateHealthy("audit", "audit log writable")

	srv := server.New(cfg, logger, registry, predictor, auditLog, monitor)

	return runWithSignalHandling(srv, logger)
}

// applyCLIOverrides lets flags win over file and environment values
func applyCLIOverrides(cfg *config.Config, cliCfg *CLIConfig) {
	if cliCfg.Addr != "" {
		cfg.Server.Addr = cliCfg.Addr
	}
	if cliCfg.LogLevel != "" {
		cfg.Log.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Log.Format = cliCfg.LogFormat
	}
}

// runWithSignalHandling serves until SIGINT/SIGTERM, then drains within
// the shutdown timeout.
func runWithSignalHandling(srv *server.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
