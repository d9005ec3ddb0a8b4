// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"panama-core/flux"
	"panama-core/table"
	"panama-core/weights"

	"panama/internal/clibase"
	"panama/internal/config"
	"panama/internal/runner"
	"panama/internal/spectrum"
	"panama/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitEmpty    = 1
	ExitUsage    = 2
	ExitIO       = 3
	ExitCanceled = 130
)

// ErrEmpty is returned by commands that ran fine but produced nothing.
var ErrEmpty = errors.New("nothing produced")

var usageErrors = []error{
	clibase.ErrUsage,
	config.ErrConfig,
	runner.ErrConfig,
	table.ErrConfig,
	flux.ErrConfig,
	flux.ErrInvalidSpecies,
	weights.ErrConfig,
	spectrum.ErrConfig,
}

// IsUsage reports whether err stems from bad flags or configuration.
func IsUsage(err error) bool {
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Code maps a command error onto an exit code and reports it on stderr.
// Broken pipes count as success.
func Code(err error, stderr io.Writer) int {
	switch {
	case err == nil, writers.IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, ErrEmpty):
		return ExitEmpty
	case IsUsage(err):
		fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	fmt.Fprintln(stderr, "error:", err)
	return ExitIO
}
