package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/jo-hoe/appicon/internal/common"
	"github.com/jo-hoe/appicon/internal/generator"
	"github.com/jo-hoe/appicon/internal/sizetable"
	"github.com/jo-hoe/appicon/internal/source"
)

var (
	ErrUsage        = errors.New("usage error")
	ErrAssetsFailed = errors.New("some placeholder icons failed")
)

// output is one file of a placeholder design.
type output struct {
	mode     source.Mode
	fileName string
}

// layout describes what a design writes by default.
type layout struct {
	outputDir string
	outputs   []output
}

var layouts = map[string]layout{
	source.DesignTrend: {
		outputDir: "assets/logo",
		outputs: []output{
			{mode: source.ModeFull, fileName: "app_icon.png"},
			{mode: source.ModeForeground, fileName: "app_icon_foreground.png"},
		},
	},
	source.DesignChart: {
		outputDir: ".",
		outputs: []output{
			{mode: source.ModeForeground, fileName: "icon.png"},
		},
	},
}

type placeholderFlags struct {
	design    string
	out       string
	size      int
	logLevel  string
	logFormat string
}

func parseFlags(args []string, stderr io.Writer) (*placeholderFlags, error) {
	fs := flag.NewFlagSet("placeholder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &placeholderFlags{}

	fs.StringVar(&f.design, "design", source.DesignTrend, "placeholder design: trend, chart")
	fs.StringVarP(&f.out, "out", "o", "", "output directory (default depends on design)")
	fs.IntVar(&f.size, "size", 0, "icon size in pixels (0 = native design size)")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", common.LogFormatAuto, "log format: auto, text, json")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: placeholder [flags]")
		fmt.Fprintln(stderr, "Draws a placeholder app icon from primitive shapes.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	if f.size < 0 {
		return nil, fmt.Errorf("%w: size must not be negative, got %d", ErrUsage, f.size)
	}
	if _, ok := layouts[f.design]; !ok {
		return nil, fmt.Errorf("%w: unknown design %q, expected one of %v", ErrUsage, f.design, source.Designs())
	}
	return f, nil
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

	l := layouts[flags.design]
	outputDir := flags.out
	if outputDir == "" {
		outputDir = l.outputDir
	}

	total := &generator.Report{Source: flags.design, BaseDir: outputDir}
	for _, o := range l.outputs {
		src, err := source.NewProceduralSource(flags.design, o.mode)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}

		size := flags.size
		if size == 0 {
			size = src.DesignSize()
		}

		table := sizetable.Table{{ID: src.Name(), Size: size, Path: o.fileName}}
		report, err := generator.Generate(src, table, outputDir)
		if err != nil {
			return err
		}
		total.Merge(report)
	}

	if err := total.Write(stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if total.Failed() > 0 {
		return fmt.Errorf("%w: %w", ErrAssetsFailed, total.Err())
	}
	return nil
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, ErrUsage), errors.Is(err, common.ErrInvalidLogOption):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		if !errors.Is(err, ErrAssetsFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
