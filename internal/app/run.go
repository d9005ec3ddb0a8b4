// internal/app/run.go
package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"panama/internal/cli"
	"panama/internal/clibase"
	"panama/internal/config"
	"panama/internal/runner"
	"panama/internal/runutil"
)

func newRunCmd(e *env) *cobra.Command {
	o := &cli.RunOptions{}
	cmd := &cobra.Command{
		Use:   "run [flags] [TEMPLATE]",
		Short: "Run the simulator in parallel jobs",
		Long: clibase.Long("panama run", `
Splits the showers of every primary over --jobs simulator processes, each in
its own working directory, and reports progress. TEMPLATE is a steering card
with the placeholders {run_idx} {first_event_idx} {n_show} {dir} {seed_1}
{seed_2} {primary}. Primaries run one after another.

Defaults come from $CORSIKA_PATH and $TMP_DIR, then the --config file, then
the flags.`),
		Example: clibase.Examples(
			"panama run -p 2212=1000 -p 1000260560=500 -j 8 card.tmpl",
			"panama run -c runs.yaml --seed 42 --save-stdout",
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if o.Config != "" {
				var err error
				if cfg, err = config.Load(o.Config); err != nil {
					return err
				}
			}
			if err := o.Apply(cfg, cmd.Flags().Changed, args); err != nil {
				return err
			}
			return runSimulator(cmd.Context(), e, o, cfg)
		},
	}
	o.Register(cmd.Flags())
	return cmd
}

func runSimulator(ctx context.Context, e *env, o *cli.RunOptions, cfg *config.Runner) error {
	cfg.UniqueTmpDir()
	if o.WriteConfig != "" {
		if err := cfg.Save(o.WriteConfig); err != nil {
			return err
		}
	}
	r, err := runner.New(*cfg, e.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Clean(); err != nil {
			e.log.Warn("could not remove job directories", zap.Error(err))
		}
	}()

	if !e.global.Quiet {
		r.OnProgress = func(p runner.Progress) {
			fmt.Fprint(e.stderr, "\r"+runutil.FormatProgress(p))
			if p.Finished {
				fmt.Fprintln(e.stderr)
			}
		}
	}
	e.log.Info("starting simulator",
		zap.String("corsika", cfg.Corsika),
		zap.String("output", cfg.Output),
		zap.Int("jobs", cfg.Jobs),
		zap.Int("primaries", len(cfg.Primaries)))
	return r.Run(ctx)
}
