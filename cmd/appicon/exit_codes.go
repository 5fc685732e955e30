package main

import (
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/jo-hoe/appicon/internal/common"
	"github.com/jo-hoe/appicon/internal/config"
	"github.com/jo-hoe/appicon/internal/source"
)

// Exit codes for the appicon CLI.
const (
	ExitSuccess       = 0 // Every asset written
	ExitPartial       = 1 // At least one asset failed, or an unexpected error
	ExitUsage         = 2 // Invalid flags, config or source file
	ExitMissingSource = 3 // Source file not found
)

// exitCodeFor maps an error returned by run to the process exit code.
func exitCodeFor(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}

	if errors.Is(err, source.ErrMissingSource) {
		return ExitMissingSource
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, common.ErrInvalidLogOption) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, source.ErrInvalidSource) {
		return ExitUsage
	}

	return ExitPartial
}
