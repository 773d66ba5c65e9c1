package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/cli"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/engine"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/iocli"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/config"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/telemetry"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config file")
	serverURL := flag.String("server", "", "Server URL (overrides config)")
	dbPath := flag.String("db", "", "Path to local database (overrides config)")
	offline := flag.Bool("offline", false, "Work without the backend")
	jsonOut := flag.Bool("json", false, "Print raw results as JSON")
	flag.Usage = func() {
		cli.New(nil, iocli.NewStdio(), cli.Options{}).PrintUsage()
	}

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		return 0
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *offline {
		cfg.Offline = true
	}

	// Логи в stderr, чтобы не мешать выводу команд
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry.Settings(Version))
	if err != nil {
		logger.Error("Failed to set up telemetry", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	eng, err := engine.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error("Failed to close engine", "error", err)
		}
	}()

	c := cli.New(eng, iocli.NewStdio(), cli.Options{JSON: *jsonOut})
	if err := c.Run(ctx, args); err != nil {
		if errors.Is(err, cli.ErrUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printVersion() {
	fmt.Printf("POS Sync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
