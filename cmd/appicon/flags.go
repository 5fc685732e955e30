package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/jo-hoe/appicon/internal/common"
)

// ErrUsage marks invalid command line input.
var ErrUsage = errors.New("usage error")

type appiconFlags struct {
	config       string
	source       string
	workers      int
	workersSet   bool
	allowPartial bool
	logLevel     string
	logFormat    string
}

// parseFlags parses args without the program name.
func parseFlags(args []string, stderr io.Writer) (*appiconFlags, error) {
	fs := flag.NewFlagSet("appicon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &appiconFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file path (default: $CONFIG_PATH, then ./config/config.yaml, then built-in)")
	fs.StringVarP(&f.source, "source", "s", "", "source image, overrides the configured source")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers per target (0 = auto)")
	fs.BoolVar(&f.allowPartial, "allow-partial", false, "exit 0 even when some assets failed")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", common.LogFormatAuto, "log format: auto, text, json")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: appicon [flags]")
		fmt.Fprintln(stderr, "Renders one source image into every configured app icon size.")
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
	if f.workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative, got %d", ErrUsage, f.workers)
	}
	f.workersSet = fs.Changed("workers")

	return f, nil
}
