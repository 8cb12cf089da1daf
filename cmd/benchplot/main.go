package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/benchplot/internal/apperr"
	"github.com/DjordjeVuckovic/benchplot/internal/experiment"
	"github.com/DjordjeVuckovic/benchplot/internal/pg"
	"github.com/DjordjeVuckovic/benchplot/internal/report"
	"github.com/DjordjeVuckovic/benchplot/internal/table"
	"github.com/DjordjeVuckovic/benchplot/pkg/config/env"
)

func main() {
	if err := env.LoadDotEnv(os.Getenv("ENV"), ".env"); err != nil {
		slog.Error("Failed to load environment", "error", err)
		os.Exit(apperr.ExitFailure)
	}

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(apperr.ExitValidation)
	}

	level, err := cfg.slogLevel()
	if err != nil {
		slog.Error("Invalid flags", "error", err)
		os.Exit(apperr.ExitValidation)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("Run failed", "error", err)
		stop()
		os.Exit(apperr.ExitCode(err))
	}
}

func run(ctx context.Context, cfg cliConfig, stdout io.Writer) error {
	suite, err := loadSuite(cfg)
	if err != nil {
		return err
	}

	if cfg.List {
		for _, name := range suite.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	opts := []experiment.Option{
		experiment.WithDataDir(cfg.DataDir),
		experiment.WithOutputDir(cfg.OutputDir),
	}
	if cfg.Strict {
		opts = append(opts, experiment.WithPolicy(table.PolicyStrict))
	}
	if cfg.PgConnStr != "" {
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.PgConnStr})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		opts = append(opts, experiment.WithDB(pool))
	}

	results, err := experiment.New(opts...).RunAll(ctx, suite, cfg.onlyNames())
	if err != nil {
		return err
	}

	outDir := suite.OutputDir
	if cfg.OutputDir != "" {
		outDir = cfg.OutputDir
	}
	rpt := report.Generate(results, report.Meta{Suite: suite.Name, OutputDir: outDir})
	report.WriteTable(rpt, stdout)

	if cfg.ManifestPath != "" {
		if err := report.WriteJSON(rpt, cfg.ManifestPath); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		slog.Info("Report written", "path", cfg.ManifestPath)
	}
	return nil
}

func loadSuite(cfg cliConfig) (*experiment.Suite, error) {
	if cfg.SuitePath != "" {
		s, err := experiment.LoadFromFile(cfg.SuitePath)
		if err != nil {
			return nil, fmt.Errorf("load suite: %w", err)
		}
		return s, nil
	}
	return experiment.Preset(cfg.Preset)
}
