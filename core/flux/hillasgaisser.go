package flux

import (
	"math"

	"panama-core/pdg"
)

// Hillas-Gaisser mass groups: H, He, CNO, MgAlSi, Fe.
var hillasGaisserSpecies = []pdg.ID{
	pdg.Nucleus(1, 1),
	pdg.Nucleus(2, 4),
	pdg.Nucleus(6, 12),
	pdg.Nucleus(14, 28),
	pdg.Nucleus(26, 54),
}

// HillasGaisser sums three rigidity-cutoff populations per mass group,
// a_ij * E^(-gamma_ij-1) * exp(-E/(Z*R_j)). Gaisser, Astropart. Phys. 35,
// 801 (2012).
type HillasGaisser struct {
	a     [5][3]float64
	gamma [5][3]float64
	r     [3]float64
}

func newHillasGaisser(name string, a3 [5]float64, gamma3, r3 float64) *Model {
	h := &HillasGaisser{
		a: [5][3]float64{
			{7860, 20, a3[0]},
			{3550, 20, a3[1]},
			{2200, 13.4, a3[2]},
			{1430, 13.4, a3[3]},
			{2120, 13.4, a3[4]},
		},
		gamma: [5][3]float64{
			{1.66, 1.4, gamma3},
			{1.58, 1.4, gamma3},
			{1.63, 1.4, gamma3},
			{1.67, 1.4, gamma3},
			{1.63, 1.4, gamma3},
		},
		r: [3]float64{4e6, 30e6, r3},
	}
	m, err := NewCosmicRay(name, h)
	if err != nil {
		panic(err)
	}
	return m
}

// H3a has a mixed extragalactic third population.
func H3a() *Model {
	return newHillasGaisser("h3a", [5]float64{1.7, 1.7, 1.14, 1.14, 1.14}, 1.4, 2e9)
}

// H4a has a proton-only third population.
func H4a() *Model {
	return newHillasGaisser("h4a", [5]float64{200, 0, 0, 0, 0}, 1.6, 60e9)
}

func (h *HillasGaisser) Valid() []pdg.ID { return hillasGaisserSpecies }

func (h *HillasGaisser) Eval(id pdg.ID, e float64) float64 {
	i := -1
	for k, s := range hillasGaisserSpecies {
		if s == id {
			i = k
			break
		}
	}
	if i < 0 {
		return 0
	}
	z := float64(id.Z())
	var f float64
	for j := 0; j < 3; j++ {
		f += h.a[i][j] * math.Pow(e, -h.gamma[i][j]-1) * math.Exp(-e/z/h.r[j])
	}
	return f
}
