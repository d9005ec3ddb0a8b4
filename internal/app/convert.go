// internal/app/convert.go
package app

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"panama/internal/appcore"
	"panama/internal/cli"
	"panama/internal/clibase"
	"panama/internal/cmdutil"
	"panama/internal/writers"
)

func newConvertCmd(e *env) *cobra.Command {
	o := &cli.ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert [flags] DAT...",
		Short: "Convert DAT files into run, event and particle tables",
		Long: clibase.Long("panama convert", `
Reads every DAT file (plain or gzip) and writes the merged tables. Stream
formats write the selected tables to --out; sqlite writes all three tables
into the database at --out.`),
		Example: clibase.Examples(
			"panama convert DAT000001 DAT000002 > particles.tsv",
			"panama convert --mother-columns --table particles -f jsonl 'output/DAT*'",
			"panama convert --flux h3a -f sqlite -o showers.db output/DAT*",
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return runConvert(cmd.Context(), e, o)
		},
	}
	o.Register(cmd.Flags())
	return cmd
}

func runConvert(ctx context.Context, e *env, o *cli.ConvertOptions) error {
	t, err := cmdutil.ReadTables(ctx, &o.Common, o.TableOptions(), e.log)
	if err != nil {
		return err
	}
	p := &writers.Payload{Tables: t, Select: o.Select()}
	if o.Enabled() {
		if p.Weights, err = cmdutil.Weights(t, &o.Weighting, e.stderr, e.global.Quiet); err != nil {
			return err
		}
	}

	if writers.IsFileFormat(o.Format) {
		err = writers.WriteTables(o.Format, nil, o.Out, p)
	} else {
		err = e.writeTo(o.Out, func(w io.Writer) error {
			return writers.WriteTables(o.Format, w, "", p)
		})
	}
	if err != nil {
		return err
	}
	if t.Events.Len() == 0 {
		e.warnf("no events in %d input file(s)", len(o.Inputs))
		return appcore.ErrEmpty
	}
	return nil
}
