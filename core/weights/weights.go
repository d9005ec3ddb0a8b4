// Package weights computes Monte-Carlo importance weights that re-weight
// showers simulated with a power-law energy spectrum E^slope to a physical
// cosmic-ray flux model. Weights are in 1/(m^2 s sr) per event.
package weights

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"panama-core/column"
	"panama-core/flux"
	"panama-core/pdg"
	"panama-core/table"
)

// ErrConfig marks inputs that cannot be re-weighted.
var ErrConfig = errors.New("weights: invalid configuration")

// ZRange is an inclusive atomic number range.
type ZRange struct {
	Min, Max int
}

// Options select the target flux.
type Options struct {
	// ProtonOnly zeroes all primaries except protons, which are weighted
	// to the all-nucleon flux of the model.
	ProtonOnly bool
	// Groups maps a simulated primary to the model elements it stands for.
	Groups map[pdg.ID]ZRange
}

// Interval is a simulated energy range (Low, High] in GeV.
type Interval struct {
	Low, High float64
}

func (iv Interval) String() string { return fmt.Sprintf("(%g, %g]", iv.Low, iv.High) }

// Overlaps reports whether two ranges share more than a boundary.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Low < o.High && o.Low < iv.High
}

// Norm integrates E^slope over the interval.
func (iv Interval) Norm(slope float64) float64 {
	if slope == -1 {
		return math.Log(iv.High / iv.Low)
	}
	ep := slope + 1
	return (math.Pow(iv.High, ep) - math.Pow(iv.Low, ep)) / ep
}

// Intervals returns the distinct energy ranges of the run table in
// ascending order and rejects overlapping ones.
func Intervals(runs *table.RunTable) ([]Interval, error) {
	seen := make(map[Interval]bool)
	var out []Interval
	for i := range runs.RunNumber {
		iv := Interval{runs.EnergyMin[i], runs.EnergyMax[i]}
		if !seen[iv] {
			seen[iv] = true
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Low != out[j].Low {
			return out[i].Low < out[j].Low
		}
		return out[i].High < out[j].High
	})
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[i].Overlaps(out[j]) {
				return nil, fmt.Errorf("%w: the energy intervals %s and %s overlap and cannot be re-weighted", ErrConfig, out[i], out[j])
			}
		}
	}
	return out, nil
}

// Slope returns the single energy slope of the run table.
func Slope(runs *table.RunTable) (float64, error) {
	slopes := column.Unique(runs.Slope)
	switch len(slopes) {
	case 1:
		return slopes[0], nil
	case 0:
		return 0, fmt.Errorf("%w: no runs to take the energy slope from", ErrConfig)
	}
	return 0, fmt.Errorf("%w: multiple energy slopes %v cannot be re-weighted", ErrConfig, slopes)
}

// Compute returns one weight per event table row:
//
//	w = target(E) / (n * E^slope / N)
//
// where n counts the events of the same primary and energy interval and N
// normalises the sampling density over the interval. Events whose energy
// range matches no run get NaN.
func Compute(runs *table.RunTable, events *table.EventTable, model *flux.Model, opts Options) ([]float64, error) {
	if opts.ProtonOnly && opts.Groups != nil {
		return nil, fmt.Errorf("%w: if proton_only is set, groups must be nil", ErrConfig)
	}
	slope, err := Slope(runs)
	if err != nil {
		return nil, err
	}
	intervals, err := Intervals(runs)
	if err != nil {
		return nil, err
	}

	w := column.Const(events.Len(), math.NaN())
	primaries := column.Unique(events.ParticleID)
	for _, iv := range intervals {
		norm := iv.Norm(slope)
		for _, pid := range primaries {
			var rows []int
			for i := range events.ParticleID {
				if events.ParticleID[i] == pid && events.EnergyMin[i] == iv.Low && events.EnergyMax[i] == iv.High {
					rows = append(rows, i)
				}
			}
			if len(rows) == 0 {
				continue
			}
			energy := column.Gather(events.TotalEnergy, rows)
			target, err := targetFlux(model, pdg.FromCorsika(pid), energy, opts)
			if err != nil {
				return nil, err
			}
			n := float64(len(rows))
			for k, i := range rows {
				w[i] = target[k] / (n * math.Pow(energy[k], slope) / norm)
			}
		}
	}
	return w, nil
}

func targetFlux(model *flux.Model, id pdg.ID, energy []float64, opts Options) ([]float64, error) {
	switch {
	case opts.ProtonOnly:
		if id != pdg.Proton && id != pdg.HydrogenNucleus {
			return make([]float64, len(energy)), nil
		}
		p, n := model.TotalProtonAndNeutronFlux(energy)
		for i := range p {
			p[i] += n[i]
		}
		return p, nil
	case opts.Groups != nil:
		g, ok := group(opts.Groups, id)
		if !ok {
			return nil, fmt.Errorf("%w: no group for simulated primary %d (%s)", ErrConfig, id, pdg.Name(id))
		}
		sum := make([]float64, len(energy))
		for _, mid := range model.Valid() {
			if z := mid.Z(); z < g.Min || z > g.Max {
				continue
			}
			f, err := model.Flux(mid, energy, true)
			if err != nil {
				return nil, err
			}
			for i := range sum {
				sum[i] += f[i]
			}
		}
		return sum, nil
	}
	return model.Flux(id, energy, false)
}

func group(groups map[pdg.ID]ZRange, id pdg.ID) (ZRange, bool) {
	if g, ok := groups[id]; ok {
		return g, true
	}
	switch id {
	case pdg.Proton:
		g, ok := groups[pdg.HydrogenNucleus]
		return g, ok
	case pdg.HydrogenNucleus:
		g, ok := groups[pdg.Proton]
		return g, ok
	}
	return ZRange{}, false
}

// ForParticles broadcasts event weights onto particle rows.
func ForParticles(events *table.EventTable, particles *table.ParticleTable, w []float64) []float64 {
	rows := particles.EventRows(events)
	out := make([]float64, len(rows))
	for i, r := range rows {
		if r < 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = w[r]
	}
	return out
}

// PromptWeight is factor for prompt rows and 1 otherwise.
func PromptWeight(isPrompt []bool, factor float64) []float64 {
	return column.Where(isPrompt, column.Const(len(isPrompt), factor), column.Const(len(isPrompt), 1.0))
}

// PromptWeightPerEvent is factor for every row of an event holding at
// least one prompt row and 1 otherwise.
func PromptWeightPerEvent(particles *table.ParticleTable, isPrompt []bool, factor float64) []float64 {
	prompt := make(map[table.EventKey]bool)
	for i, p := range isPrompt {
		if p {
			prompt[table.EventKey{RunNumber: particles.RunNumber[i], EventNumber: particles.EventNumber[i]}] = true
		}
	}
	out := make([]float64, particles.Len())
	for i := range out {
		out[i] = 1
		if prompt[table.EventKey{RunNumber: particles.RunNumber[i], EventNumber: particles.EventNumber[i]}] {
			out[i] = factor
		}
	}
	return out
}
