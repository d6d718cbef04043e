// flashmock - an in-memory Redis stand-in for tests
//
// Usage:
//
//	flashmock [flags]
//
// Flags:
//
//	-config string      JSON config file (default: none)
//	-addr string        Server address (default ":6379")
//	-http string        Inspection API address (default: disabled)
//	-seed string        JSON seed file loaded at startup
//	-maxclients int     Maximum number of clients (default 10000)
//	-timeout duration   Client idle timeout (default 0 = no timeout)
//	-poll duration      Blocking command poll interval (default 50ms)
//	-loglevel string    Log level: debug, info, warn, error (default "info")
//	-version            Show version and exit
//
// Flags given on the command line override the config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/flashdb/flashmock/internal/config"
	"github.com/flashdb/flashmock/internal/engine"
	"github.com/flashdb/flashmock/internal/server"
	"github.com/flashdb/flashmock/internal/version"
	"github.com/flashdb/flashmock/internal/web"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	addr := flag.String("addr", ":6379", "Server address")
	httpAddr := flag.String("http", "", "Inspection API address (empty = disabled)")
	seedFile := flag.String("seed", "", "JSON seed file")
	maxClients := flag.Int("maxclients", 10000, "Maximum number of clients")
	timeout := flag.Duration("timeout", 0, "Client idle timeout (0 = no timeout)")
	poll := flag.Duration("poll", 0, "Blocking command poll interval")
	logLevel := flag.String("loglevel", "info", "Log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flashmock v%s (redis %s, built %s)\n", version.Version, version.RedisCompat, version.BuildTime)
		return
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "flashmock: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Only flags set explicitly override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "seed":
			cfg.SeedFile = *seedFile
		case "maxclients":
			cfg.MaxClients = *maxClients
		case "timeout":
			cfg.ReadTimeout = config.Duration(*timeout)
		case "poll":
			cfg.PollInterval = config.Duration(*poll)
		case "loglevel":
			cfg.LogLevel = *logLevel
		}
	})

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "flashmock: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithPollInterval(cfg.PollInterval.Std()),
		engine.WithEventBuffer(cfg.EventBuffer),
	}
	if cfg.HotKeys > 0 {
		opts = append(opts, engine.WithHotKeys(cfg.HotKeys))
	}
	if cfg.SeedFile != "" {
		seed, err := config.LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		logger.Info("seed loaded", "file", cfg.SeedFile, "keys", len(seed))
		opts = append(opts, engine.WithSeed(seed))
	}

	e, err := engine.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr != "" {
		webSrv := web.New(cfg.HTTPAddr, e, logger)
		go func() {
			if err := webSrv.Start(ctx); err != nil {
				logger.Error("inspection API stopped", "err", err)
			}
		}()
	}

	srv := server.NewWithConfig(cfg.Addr, e, logger, server.Config{
		MaxClients:  cfg.MaxClients,
		ReadTimeout: cfg.ReadTimeout.Std(),
	})
	logger.Info("flashmock starting", "version", version.Version, "addr", cfg.Addr, "max_clients", cfg.MaxClients)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("flashmock shutdown complete")
	return nil
}
