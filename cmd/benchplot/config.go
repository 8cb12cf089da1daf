package main

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/benchplot/internal/experiment"
	"github.com/DjordjeVuckovic/benchplot/pkg/config/env"
)

const (
	envPgDSN     = "BENCHPLOT_PG_DSN"
	envOutputDir = "BENCHPLOT_OUTPUT_DIR"
	envDataDir   = "BENCHPLOT_DATA_DIR"
)

type cliConfig struct {
	SuitePath    string
	Preset       string
	DataDir      string
	OutputDir    string
	Only         string
	ManifestPath string
	PgConnStr    string
	Strict       bool
	List         bool
	LogLevel     string
}

// parseFlags reads command line flags. Unset flags fall back to the
// BENCHPLOT_* environment variables.
func parseFlags(fs *flag.FlagSet, args []string) (cliConfig, error) {
	cfg := cliConfig{}

	fs.StringVar(&cfg.SuitePath, "suite", "", "Path to experiment suite YAML (overrides -preset)")
	fs.StringVar(&cfg.Preset, "preset", experiment.PresetAll, "Built-in suite: "+strings.Join(experiment.PresetNames(), ", "))
	fs.StringVar(&cfg.DataDir, "data", env.String(envDataDir, "."), "Directory relative CSV paths are resolved against")
	fs.StringVar(&cfg.OutputDir, "out", env.String(envOutputDir, ""), "Output directory for charts (default: suite output_dir)")
	fs.StringVar(&cfg.Only, "only", "", "Run only these experiments, comma-separated")
	fs.StringVar(&cfg.ManifestPath, "manifest", "", "Write a JSON run report to this path")
	fs.StringVar(&cfg.PgConnStr, "pg", env.String(envPgDSN, ""), "PostgreSQL connection string for postgres sources")
	fs.BoolVar(&cfg.Strict, "strict", false, "Fail on the first non-numeric cell instead of dropping the row")
	fs.BoolVar(&cfg.List, "list", false, "List experiments of the selected suite and exit")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c cliConfig) onlyNames() []string {
	if c.Only == "" {
		return nil
	}
	parts := strings.Split(c.Only, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func (c cliConfig) slogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
