// internal/clibase/common.go
package clibase

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"panama/internal/cliutil"
)

// ErrUsage marks bad command-line input.
var ErrUsage = errors.New("usage")

// Usagef returns an ErrUsage-wrapped error.
func Usagef(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, a...)...)
}

// Global holds the persistent flags of the root command.
type Global struct {
	Debug bool
	Quiet bool
}

// RegisterGlobal wires the persistent flags onto fs.
func RegisterGlobal(fs *pflag.FlagSet, g *Global) {
	fs.BoolVar(&g.Debug, "debug", false, "log debug messages")
	fs.BoolVarP(&g.Quiet, "quiet", "q", false, "suppress non-essential warnings and progress")
}

// Output selects the serialization of a command's result.
type Output struct {
	Format string
	Out    string
}

// RegisterOutput wires --format/-f and --out/-o onto fs.
func RegisterOutput(fs *pflag.FlagSet, o *Output, formats []string) {
	fs.StringVarP(&o.Format, "format", "f", "tsv", "output format: "+strings.Join(formats, " | "))
	fs.StringVarP(&o.Out, "out", "o", "-", "output path ('-' = stdout)")
}

// ValidateOutput rejects formats outside formats.
func ValidateOutput(o *Output, formats []string) error {
	if !slices.Contains(formats, o.Format) {
		return Usagef("invalid --format %q (valid: %s)", o.Format, strings.Join(formats, ", "))
	}
	if o.Out == "" {
		return Usagef("--out must not be empty")
	}
	return nil
}

// Common holds the flags shared by every command that reads DAT files.
type Common struct {
	Output
	Inputs    []string
	Threads   int
	MaxEvents int
}

// Register wires the shared input flags onto fs.
func Register(fs *pflag.FlagSet, c *Common, formats []string) {
	RegisterOutput(fs, &c.Output, formats)
	fs.IntVarP(&c.Threads, "threads", "t", 0, "files decoded concurrently (0=all CPUs)")
	fs.IntVar(&c.MaxEvents, "max-events", 0, "stop after this many events (0=all)")
}

// AfterParse expands glob positionals into Inputs, then runs shared
// validation.
func AfterParse(c *Common, posArgs []string, formats []string) error {
	exp, err := cliutil.ExpandPositionals(posArgs)
	if err != nil {
		return Usagef("%v", err)
	}
	c.Inputs = append(c.Inputs, exp...)
	return Validate(c, formats)
}

// Validate applies the invariants shared by all reading commands.
func Validate(c *Common, formats []string) error {
	if len(c.Inputs) == 0 {
		return Usagef("at least one DAT file is required")
	}
	if slices.Contains(c.Inputs, "-") {
		return Usagef("reading DAT files from stdin is not supported")
	}
	if c.Threads < 0 {
		return Usagef("--threads must be >= 0")
	}
	if c.MaxEvents < 0 {
		return Usagef("--max-events must be >= 0")
	}
	return ValidateOutput(&c.Output, formats)
}
