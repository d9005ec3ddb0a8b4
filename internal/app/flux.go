// internal/app/flux.go
package app

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"panama-core/flux"
	"panama-core/pdg"

	"panama/internal/cli"
	"panama/internal/clibase"
	"panama/internal/writers"
	"panama/pkg/api"
)

func newFluxCmd(e *env) *cobra.Command {
	o := &cli.FluxOptions{}
	cmd := &cobra.Command{
		Use:   "flux [flags]",
		Short: "Evaluate a flux model on a log-spaced energy grid",
		Long: clibase.Long("panama flux", `
Prints the differential flux in 1/(m^2 s sr GeV) of every requested species.
Models: `+strings.Join(flux.Names(), ", ")+`.`),
		Example: clibase.Examples(
			"panama flux --model h3a --species 2212,1000020040",
			"panama flux --model tig --total --nucleons -f jsonl",
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return runFlux(e, o)
		},
	}
	o.Register(cmd.Flags())
	return cmd
}

type fluxPoint struct {
	id     pdg.ID
	energy float64
	flux   float64
}

func fluxRows(model string, pts []fluxPoint) writers.Rows {
	return writers.Func{
		Columns: []string{"model", "pdgid", "energy", "flux"},
		N:       len(pts),
		CellsFn: func(i int) []string {
			p := pts[i]
			return []string{model, strconv.Itoa(int(p.id)), writers.FormatFloat(p.energy), writers.FormatFloat(p.flux)}
		},
		ValueFn: func(i int) any {
			p := pts[i]
			return api.FluxV1{Table: api.TableFlux, Model: model, PDGID: int(p.id), Energy: p.energy, Flux: api.Finite(p.flux)}
		},
	}
}

func runFlux(e *env, o *cli.FluxOptions) error {
	model, err := flux.ByName(o.Model)
	if err != nil {
		return err
	}
	energies := floats.LogSpan(make([]float64, o.Points), o.EMin, o.EMax)

	species := model.Valid()
	if len(o.Species) > 0 {
		species = make([]pdg.ID, 0, len(o.Species))
		for _, s := range o.Species {
			species = append(species, pdg.ID(s))
		}
	}

	var pts []fluxPoint
	add := func(id pdg.ID, values []float64) {
		for i, v := range values {
			pts = append(pts, fluxPoint{id, energies[i], v})
		}
	}
	for _, id := range species {
		values, err := model.Flux(id, energies, true)
		if err != nil {
			return err
		}
		add(id, values)
	}
	if o.Total {
		add(0, model.TotalFlux(energies))
	}
	if o.Nucleons {
		p, n := model.TotalProtonAndNeutronFlux(energies)
		add(pdg.Proton, p)
		add(pdg.Neutron, n)
	}

	return e.writeTo(o.Out, func(out io.Writer) error {
		return writers.WriteSections(o.Format, out, writers.Section{Name: api.TableFlux, Rows: fluxRows(model.Name(), pts)})
	})
}
