package prompt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panama-core/column"
	"panama-core/lineage"
	"panama-core/pdg"
)

// sample assembles an EHIST-style table: each decay contributes a mother
// row, a grandmother row and the daughter muon.
type sample struct {
	in lineage.Input
}

func (s *sample) add(cid, gen int, mother bool, energy float64) {
	d := cid*1000 + gen*10 + 1
	if mother {
		d = -(cid*1000 + gen)
	}
	id := pdg.FromCorsika(cid)
	abs := d
	if abs < 0 {
		abs = -abs
	}
	s.in.Description = append(s.in.Description, d)
	s.in.IsMother = append(s.in.IsMother, mother)
	s.in.HadronGen = append(s.in.HadronGen, (abs%1000)/10)
	s.in.PDG = append(s.in.PDG, id)
	s.in.Energy = append(s.in.Energy, energy)
	s.in.Mass = append(s.in.Mass, pdg.Mass(id))
}

func (s *sample) decay(n, motherCID, motherGen, daughterGen int, motherEnergy float64) {
	for i := 0; i < n; i++ {
		s.add(motherCID, motherGen, true, motherEnergy)
		s.add(14, motherGen-1, true, 10*motherEnergy) // proton grandmother
		s.add(6, daughterGen, false, motherEnergy/2)
	}
}

// representative returns daughter-only lineage columns of a synthetic
// sample dominated by conventional pion and kaon decays.
func representative() *lineage.Columns {
	var s sample
	s.decay(700, 8, 4, 5, 100)   // pi+ -> mu, conventional
	s.decay(100, 11, 3, 4, 1000) // K+ -> mu, conventional
	s.decay(5, 116, 2, 32, 1000) // D0 charm decay, prompt
	s.decay(140, 17, 3, 8, 100)  // eta with ambiguous generation bookkeeping
	s.decay(3, 6, 1, 2, 10)      // mu -> mu in an early generation
	for i := 0; i < 50; i++ {
		s.add(1, 0, false, 1) // photons without history
	}
	c := lineage.Reconstruct(s.in)
	return c.Filter(column.Not(s.in.IsMother))
}

func fraction(a, b []bool) float64 {
	return float64(column.Differ(a, b)) / float64(len(a))
}

func TestRuleAgreement(t *testing.T) {
	c := representative()
	require.Equal(t, 998, c.Len())

	k := New(c)
	base := LifetimeLimit(c, DefaultLifetimeLimit)
	assert.Equal(t, 8, column.Count(base), "D0 and muon-mother rows")

	for name, alt := range map[string][]bool{
		"lifetime":          k.LifetimeLimit(DefaultLifetimeLimit),
		"lifetime cleaned":  k.LifetimeLimitCleaned(DefaultLifetimeLimit),
		"pion kaon":         k.PionKaon(),
		"energy s=10":       k.Energy(10),
		"pion kaon grandma": k.PionKaonGrandmother(),
	} {
		assert.Less(t, fraction(base, alt), 0.01, name)
	}

	for name, alt := range map[string][]bool{
		"energy uncleaned":    k.EnergyUncleaned(DefaultEnergyMargin),
		"pion kaon uncleaned": k.PionKaonUncleaned(),
	} {
		f := fraction(base, alt)
		assert.Greater(t, f, 0.09, name)
		assert.Less(t, f, 0.20, name)
	}
}

func TestCleanedColumnsFallbacks(t *testing.T) {
	c := representative()
	// Force an untabulated cleaned mother everywhere.
	c.MotherPDGCleaned = column.Const(c.Len(), pdg.ID(9999))
	cl := New(c).Cleaned()
	for i := range cl.Lifetime {
		require.False(t, math.IsNaN(cl.Lifetime[i]))
		require.Equal(t, 0.0, cl.Lifetime[i])
		require.Equal(t, 0.0, cl.Mass[i])
	}
}

func TestCleanedColumnsCached(t *testing.T) {
	k := New(representative())
	assert.Same(t, k.Cleaned(), k.Cleaned())
}

func TestPrimaryRuleCases(t *testing.T) {
	var s sample
	s.decay(1, 116, 2, 32, 1000) // D0, delta 30: prompt
	s.decay(1, 116, 2, 40, 1000) // D0, delta 38: not prompt
	s.decay(1, 123, 2, 3, 1000)  // D*0 resonance, delta 1: not prompt
	s.decay(1, 17, 3, 4, 100)    // eta, delta 1: prompt
	s.decay(1, 6, 1, 2, 10)      // muon mother, generation 2: prompt
	s.decay(1, 6, 3, 4, 10)      // muon mother, generation 4: not prompt
	c := lineage.Reconstruct(s.in)
	got := column.Filter(LifetimeLimit(c, DefaultLifetimeLimit), column.Not(s.in.IsMother))
	assert.Equal(t, []bool{true, false, false, true, true, false}, got)
}

func TestLifetimeLimitIsInclusive(t *testing.T) {
	var s sample
	s.decay(1, 116, 2, 32, 1000)
	c := lineage.Reconstruct(s.in)
	at := LifetimeLimit(c, pdg.D0Lifetime)
	below := LifetimeLimit(c, pdg.D0Lifetime/2)
	assert.True(t, at[2])
	assert.False(t, below[2])
}
