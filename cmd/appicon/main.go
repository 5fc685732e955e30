package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	_ "github.com/jo-hoe/appicon/internal/commands"
	"github.com/jo-hoe/appicon/internal/commandstructure"
	"github.com/jo-hoe/appicon/internal/common"
	"github.com/jo-hoe/appicon/internal/config"
	"github.com/jo-hoe/appicon/internal/generator"
	"github.com/jo-hoe/appicon/internal/sizetable"
)

// ErrAssetsFailed is returned when at least one asset could not be written.
var ErrAssetsFailed = errors.New("some assets failed")

func getConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}

	// Then check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Default to config/config.yaml in current working directory if present
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	path := filepath.Join(cwd, "config", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func loadConfig(flags *appiconFlags) (*config.Config, error) {
	var cfg *config.Config
	configPath := getConfigPath(flags.config)
	if configPath == "" {
		slog.Info("no config file found, using built-in configuration")
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		slog.Info("loaded config", "path", configPath, "targets", len(loaded.Targets))
		cfg = loaded
	}

	if flags.source != "" {
		cfg.Source = config.SourceConfig{Path: flags.source}
	}
	if flags.workersSet {
		cfg.Workers = flags.workers
	}
	if flags.allowPartial {
		cfg.AllowPartial = true
	}
	return cfg, nil
}

type job struct {
	target   config.TargetConfig
	table    sizetable.Table
	pipeline *commandstructure.CommandInvoker
}

// prepareJobs builds every table and pipeline before anything is rendered.
func prepareJobs(cfg *config.Config) ([]job, error) {
	jobs := make([]job, 0, len(cfg.Targets))
	for _, target := range cfg.Targets {
		table, err := target.Table()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrConfigInvalid, err)
		}
		pipeline, err := target.Pipeline(commandstructure.DefaultRegistry)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrConfigInvalid, err)
		}
		jobs = append(jobs, job{target: target, table: table, pipeline: pipeline})
	}
	return jobs, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger, err := common.NewLogger(stderr, flags.logLevel, flags.logFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS env,
	// in which case the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		slog.Debug(fmt.Sprintf(format, args...))
	}))

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	jobs, err := prepareJobs(cfg)
	if err != nil {
		return err
	}

	// A missing or unreadable source aborts before any output exists
	src, err := cfg.Source.LoadSource()
	if err != nil {
		return err
	}

	total := &generator.Report{Source: src.Name()}
	for _, j := range jobs {
		slog.Info("generating target",
			"target", j.target.Name,
			"preset", j.target.Preset,
			"output_dir", j.target.OutputDir,
			"entries", len(j.table),
			"processors", j.pipeline.Len())

		report, err := generator.NewGenerator(cfg.Workers, j.pipeline).Generate(src, j.table, j.target.OutputDir)
		if err != nil {
			return fmt.Errorf("target %s: %w", j.target.Name, err)
		}
		total.Merge(report)
	}

	if err := total.Write(stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if total.Failed() > 0 {
		if cfg.AllowPartial {
			slog.Warn("some assets failed, continuing because partial results are allowed",
				"failed", total.Failed())
			return nil
		}
		return fmt.Errorf("%w: %w", ErrAssetsFailed, total.Err())
	}
	return nil
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil && !errors.Is(err, ErrAssetsFailed) && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCodeFor(err))
}
