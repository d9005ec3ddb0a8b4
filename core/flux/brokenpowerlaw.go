package flux

import (
	"fmt"
	"math"
	"sort"

	"panama-core/pdg"
)

// NoCutoff disables the high-energy cutoff of a broken power law.
var NoCutoff = math.Inf(1)

// BrokenPowerLaw is norm_i * E^-gamma_i on k segments separated by k-1
// break energies. Segment 0 covers E <= e_0, segment i covers
// e_{i-1} < E <= e_i, the last covers E > e_{k-2}. Above the cutoff the
// flux is 0. Input tables are per cm^2.
type BrokenPowerLaw struct {
	valid    []pdg.ID
	gammas   map[pdg.ID][]float64
	norms    map[pdg.ID][]float64
	energies map[pdg.ID][]float64
	cutoff   map[pdg.ID]float64
}

// NewBrokenPowerLaw validates the parameter maps and returns a cosmic-ray
// model.
func NewBrokenPowerLaw(name string, valid []pdg.ID, gammas, normalizations, energies map[pdg.ID][]float64, cutoff map[pdg.ID]float64) (*Model, error) {
	for _, id := range valid {
		_, g := gammas[id]
		_, n := normalizations[id]
		_, e := energies[id]
		_, c := cutoff[id]
		if !g || !n || !e || !c {
			return nil, fmt.Errorf("%w: every parameter map of BrokenPowerLaw must have an entry for each valid species (missing %d)", ErrConfig, id)
		}
		if len(gammas[id]) != len(normalizations[id]) || len(gammas[id]) != len(energies[id])+1 {
			return nil, fmt.Errorf("%w: normalizations and indices must have the same length and energies must have one less value (species %d)", ErrConfig, id)
		}
		if len(gammas[id]) == 0 {
			return nil, fmt.Errorf("%w: species %d has no power-law segment", ErrConfig, id)
		}
		if !sort.Float64sAreSorted(energies[id]) {
			return nil, fmt.Errorf("%w: break energies of species %d must be ascending", ErrConfig, id)
		}
	}
	b := &BrokenPowerLaw{
		valid:    append([]pdg.ID(nil), valid...),
		gammas:   gammas,
		norms:    normalizations,
		energies: energies,
		cutoff:   cutoff,
	}
	return NewCosmicRay(name, b)
}

func (b *BrokenPowerLaw) Valid() []pdg.ID { return b.valid }

func (b *BrokenPowerLaw) Eval(id pdg.ID, e float64) float64 {
	if e > b.cutoff[id] {
		return 0
	}
	// First break >= e is exactly the segment index.
	seg := sort.SearchFloat64s(b.energies[id], e)
	return b.norms[id][seg] * math.Pow(e, -b.gammas[id][seg]) * CmToM2
}

func tig(name string, cutoff float64) *Model {
	p := pdg.Proton
	m, err := NewBrokenPowerLaw(name, []pdg.ID{p},
		map[pdg.ID][]float64{p: {2.7, 3}},
		map[pdg.ID][]float64{p: {1.7, 174}},
		map[pdg.ID][]float64{p: {5e6}},
		map[pdg.ID]float64{p: cutoff},
	)
	if err != nil {
		panic(err)
	}
	return m
}

// TIG is the proton-only knee parametrisation of Thunman, Ingelman and
// Gondolo (Phys. Rev. D 54, 4385).
func TIG() *Model { return tig("tig", NoCutoff) }

// TIGCutoff is TIG with the flux cut at 1e9 GeV.
func TIGCutoff() *Model { return tig("tigcutoff", 1e9) }
