package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Bond-009/siderite/internal/auth"
	"github.com/Bond-009/siderite/internal/config"
	"github.com/Bond-009/siderite/internal/server"
)

const defaultConfigPath = "config/server.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := defaultConfigPath
	if p := os.Getenv("SIDERITE_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadServer(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("siderite starting",
		"bind", cfg.BindAddress,
		"port", cfg.Port,
		"online_mode", cfg.OnlineMode,
		"max_players", cfg.MaxPlayers)

	var validator auth.Validator = auth.OfflineValidator{}
	if cfg.OnlineMode {
		validator = auth.NewSessionServiceValidator(auth.DefaultSessionServiceURL)
	}

	srv, err := server.New(cfg, validator)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.RunAuthenticator(gctx); err != nil {
			return fmt.Errorf("authenticator: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := srv.RunScheduler(gctx); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("acceptor: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// parseLogLevel converts a string log level to slog.Level, defaulting
// to Info for an empty or unrecognized value.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
