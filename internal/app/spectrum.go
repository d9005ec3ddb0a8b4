// internal/app/spectrum.go
package app

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"panama-core/pdg"
	"panama-core/table"

	"panama/internal/appcore"
	"panama/internal/cli"
	"panama/internal/clibase"
	"panama/internal/cmdutil"
	"panama/internal/spectrum"
	"panama/internal/writers"
	"panama/pkg/api"
)

func newSpectrumCmd(e *env) *cobra.Command {
	o := &cli.SpectrumOptions{}
	cmd := &cobra.Command{
		Use:   "spectrum [flags] DAT...",
		Short: "Histogram the weighted primary energy and fit its spectral index",
		Long: clibase.Long("panama spectrum", `
Fills log10(E/GeV) of every primary with its flux weight, divides each bin
by its width in GeV and fits the power-law index of the result. With the
right weights the index reproduces the one of the flux model.`),
		Example: clibase.Examples(
			"panama spectrum --flux h3a --primary 2212 output/DAT*",
			"panama spectrum --unweighted --bins 20 --log-emin 3 --log-emax 5 output/DAT*",
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return runSpectrum(cmd.Context(), e, o)
		},
	}
	o.Register(cmd.Flags())
	return cmd
}

var binHeader = []string{"log10_energy_low", "log10_energy_high", "entries", "value", "error"}

func binRows(bins []spectrum.Bin) writers.Rows {
	return writers.Func{
		Columns: binHeader,
		N:       len(bins),
		CellsFn: func(i int) []string {
			b := bins[i]
			return []string{
				writers.FormatFloat(b.Low), writers.FormatFloat(b.High), strconv.Itoa(b.Entries),
				writers.FormatFloat(b.Value), writers.FormatFloat(b.Error),
			}
		},
		ValueFn: func(i int) any {
			b := bins[i]
			return api.BinV1{Table: api.TableSpectrum, Low: b.Low, High: b.High, Entries: b.Entries, Value: b.Value, Error: b.Error}
		},
	}
}

func runSpectrum(ctx context.Context, e *env, o *cli.SpectrumOptions) error {
	t, err := cmdutil.ReadTables(ctx, &o.Common, table.Options{}, e.log)
	if err != nil {
		return err
	}
	et := t.Events
	w := make([]float64, et.Len())
	if o.Enabled() {
		if w, err = cmdutil.Weights(t, &o.Weighting, e.stderr, e.global.Quiet); err != nil {
			return err
		}
	} else {
		floats.AddConst(1, w)
	}

	var energies, weights []float64
	cid, _ := pdg.ToCorsika(pdg.ID(o.Primary))
	for i := range et.TotalEnergy {
		if o.Primary != 0 && et.ParticleID[i] != cid {
			continue
		}
		energies = append(energies, et.TotalEnergy[i])
		weights = append(weights, w[i])
	}
	if len(energies) == 0 {
		e.warnf("no events to histogram")
		return appcore.ErrEmpty
	}

	res, err := spectrum.Compute(energies, weights, spectrum.Options{Bins: o.Bins, Min: o.LogEMin, Max: o.LogEMax})
	if err != nil {
		return err
	}
	if n := res.Underflow + res.Overflow; n > 0 {
		e.warnf("%d of %d events outside the histogram range", n, len(energies))
	}
	e.log.Info("fitted spectral index",
		zap.Float64("slope", res.Slope),
		zap.Float64("error", res.SlopeErr),
		zap.Int("events", len(energies)))

	return e.writeTo(o.Out, func(out io.Writer) error {
		return writers.WriteSections(o.Format, out, writers.Section{Name: api.TableSpectrum, Rows: binRows(res.Bins)})
	})
}
