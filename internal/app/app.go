// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"panama/internal/appcore"
	"panama/internal/clibase"
	"panama/internal/cmdutil"
	"panama/internal/logging"
	"panama/internal/version"
)

// env is the state shared by the commands of one invocation.
type env struct {
	stdout, stderr io.Writer
	global         clibase.Global
	log            *zap.Logger
}

func (e *env) warnf(format string, a ...any) {
	cmdutil.Warnf(e.stderr, e.global.Quiet, format, a...)
}

// writeTo streams fn's output to path, or to stdout for "-".
func (e *env) writeTo(path string, fn func(io.Writer) error) error {
	w, closeOut, err := cmdutil.OpenOutput(path, e.stdout)
	if err != nil {
		return err
	}
	err = fn(w)
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}

const rootDesc = `Convert CORSIKA 7 particle files into run, event and particle tables,
reconstruct EHIST ancestry, classify prompt leptons, re-weight showers to
cosmic-ray flux models and drive parallel simulator runs.`

// NewRootCmd builds the command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	e := &env{stdout: stdout, stderr: stderr, log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "panama",
		Short:         "CORSIKA post-processing toolkit",
		Long:          clibase.Long("panama", rootDesc),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.log = logging.New(logging.Level(e.global.Debug, e.global.Quiet), stderr)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = e.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return clibase.Usagef("unknown command %q", args[0])
			}
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("panama version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clibase.Usagef("%v", err)
	})
	root.CompletionOptions.DisableDefaultCmd = true
	clibase.RegisterGlobal(root.PersistentFlags(), &e.global)

	root.AddCommand(
		newConvertCmd(e),
		newWeightsCmd(e),
		newSpectrumCmd(e),
		newFluxCmd(e),
		newRunCmd(e),
		newVersionCmd(e),
	)
	return root
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(e.stdout, "panama version %s\n", version.Version)
			return err
		},
	}
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return clibase.Usagef("unexpected argument %q", args[0])
	}
	return nil
}

// RunContext executes argv and returns the process exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	root := NewRootCmd(outw, stderr)
	root.SetArgs(argv)

	err := root.ExecuteContext(ctx)
	if e := outw.Flush(); err == nil {
		err = e
	}
	code := appcore.Code(err, stderr)
	if code == appcore.ExitUsage {
		fmt.Fprintln(stderr, "Run 'panama --help' for usage.")
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
