// internal/app/weights.go
package app

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"panama-core/table"

	"panama/internal/appcore"
	"panama/internal/cli"
	"panama/internal/clibase"
	"panama/internal/cmdutil"
	"panama/internal/writers"
	"panama/pkg/api"
)

func newWeightsCmd(e *env) *cobra.Command {
	o := &cli.WeightsOptions{}
	cmd := &cobra.Command{
		Use:   "weights [flags] DAT...",
		Short: "Compute per-event weights against a cosmic-ray flux model",
		Long: clibase.Long("panama weights", `
Weights re-weight showers simulated with a power law E^slope to the chosen
flux model, in 1/(m^2 s sr) per event. Events whose energy range matches no
run get an empty (tsv) or null (jsonl) weight.`),
		Example: clibase.Examples(
			"panama weights --flux h3a output/DAT*",
			"panama weights --flux gsf:GSF_spline.dat --group 1000020040=2:2 --group 1000260560=3:28 output/DAT*",
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return runWeights(cmd.Context(), e, o)
		},
	}
	o.Register(cmd.Flags())
	return cmd
}

var weightHeader = []string{"run_number", "event_number", "particle_id", "total_energy", "weight"}

func weightRows(et *table.EventTable, w []float64) writers.Rows {
	return writers.Func{
		Columns: weightHeader,
		N:       et.Len(),
		CellsFn: func(i int) []string {
			return []string{
				strconv.Itoa(et.RunNumber[i]), strconv.Itoa(et.EventNumber[i]), strconv.Itoa(et.ParticleID[i]),
				writers.FormatFloat(et.TotalEnergy[i]), writers.FormatFloat(w[i]),
			}
		},
		ValueFn: func(i int) any {
			return api.WeightV1{
				Table: api.TableWeights, RunNumber: et.RunNumber[i], EventNumber: et.EventNumber[i],
				ParticleID: et.ParticleID[i], TotalEnergy: et.TotalEnergy[i], Weight: api.Finite(w[i]),
			}
		},
	}
}

func runWeights(ctx context.Context, e *env, o *cli.WeightsOptions) error {
	t, err := cmdutil.ReadTables(ctx, &o.Common, table.Options{}, e.log)
	if err != nil {
		return err
	}
	w, err := cmdutil.Weights(t, &o.Weighting, e.stderr, e.global.Quiet)
	if err != nil {
		return err
	}
	err = e.writeTo(o.Out, func(out io.Writer) error {
		return writers.WriteSections(o.Format, out, writers.Section{Name: api.TableWeights, Rows: weightRows(t.Events, w)})
	})
	if err != nil {
		return err
	}
	if t.Events.Len() == 0 {
		e.warnf("no events in %d input file(s)", len(o.Inputs))
		return appcore.ErrEmpty
	}
	return nil
}
