package lineage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panama-core/pdg"
)

func TestIndexWrap(t *testing.T) {
	for _, n := range []int{2, 3, 10, 1000} {
		p := ParentIndex(n)
		g := GrandparentIndex(n)
		assert.Equal(t, n-2, p[0], "n=%d", n)
		assert.Equal(t, n-1, p[1], "n=%d", n)
		assert.Equal(t, n-1, g[0], "n=%d", n)
		for i := 2; i < n; i++ {
			require.Equal(t, i-2, p[i])
			require.Equal(t, i-1, g[i])
		}
	}
}

// row builds one table row from a CORSIKA id, generation and sign.
type row struct {
	cid, gen int
	mother   bool
	energy   float64
}

func input(rows []row) Input {
	var in Input
	for _, r := range rows {
		d := r.cid*1000 + r.gen*10 + 1
		if r.mother {
			// EHIST mother rows carry the generation in the last two digits
			d = -(r.cid*1000 + r.gen)
		}
		id := pdg.FromCorsika(r.cid)
		in.Description = append(in.Description, d)
		in.IsMother = append(in.IsMother, r.mother)
		in.HadronGen = append(in.HadronGen, (abs(d)%1000)/10)
		in.PDG = append(in.PDG, id)
		in.Energy = append(in.Energy, r.energy)
		in.Mass = append(in.Mass, pdg.Mass(id))
	}
	return in
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestReconstruct(t *testing.T) {
	rows := []row{
		{cid: 8, gen: 4, mother: true, energy: 120},  // pi+ mother
		{cid: 14, gen: 3, mother: true, energy: 900}, // p grandmother
		{cid: 6, gen: 5, energy: 100},                // mu- from pi+, delta 1
		{cid: 116, gen: 2, mother: true, energy: 50}, // D0 mother
		{cid: 13, gen: 1, mother: true, energy: 400}, // n grandmother
		{cid: 5, gen: 32, energy: 40},                // mu+ from D0, delta 30
		{cid: 1, gen: 0, energy: 1},                  // photon without history
	}
	c := Reconstruct(input(rows))

	assert.Equal(t, []bool{false, false, true, false, false, true, false}, c.HasMother)
	assert.Equal(t, pdg.PiPlus, c.MotherPDG[2])
	assert.Equal(t, pdg.Proton, c.GrandmotherPDG[2])
	assert.Equal(t, 4, c.MotherHadrGen[2])
	assert.Equal(t, 1, c.GenerationDelta[2])
	assert.Equal(t, 120.0, c.MotherEnergy[2])
	assert.Equal(t, pdg.PiPlus, c.MotherPDGCleaned[2])

	assert.Equal(t, pdg.D0, c.MotherPDG[5])
	assert.True(t, c.MotherHasCharm[5])
	assert.True(t, c.IsCharmDecay[5])
	assert.Equal(t, 30, c.GenerationDelta[5])
	assert.Equal(t, pdg.D0, c.MotherPDGCleaned[5])
	assert.InDelta(t, pdg.D0Lifetime, c.MotherLifetime[5], 1e-12)

	// photon: no valid ancestry
	assert.Equal(t, pdg.ErrorID, c.MotherPDG[6])
	assert.Equal(t, pdg.ErrorID, c.GrandmotherPDG[6])
	assert.Equal(t, pdg.ErrorID, c.MotherPDGCleaned[6])
	assert.True(t, math.IsNaN(c.MotherEnergy[6]))
	assert.True(t, math.IsNaN(c.MotherMass[6]))
	assert.True(t, math.IsInf(c.MotherLifetime[6], 1))
	assert.False(t, c.MotherHasCharm[6] || c.MotherIsResonance[6])
}

func TestReconstructWrapAround(t *testing.T) {
	// The ancestors of row 0 sit at the end of the table.
	rows := []row{
		{cid: 5, gen: 3, energy: 10},
		{cid: 1, gen: 0, energy: 1},
		{cid: 9, gen: 2, mother: true, energy: 30},  // pi-
		{cid: 14, gen: 1, mother: true, energy: 99}, // p
	}
	c := Reconstruct(input(rows))
	require.True(t, c.HasMother[0])
	assert.Equal(t, pdg.PiMinus, c.MotherPDG[0])
	assert.Equal(t, pdg.Proton, c.GrandmotherPDG[0])
	assert.False(t, c.HasMother[1])
}

func TestCleaning(t *testing.T) {
	cases := []struct {
		name          string
		mother        int // corsika id
		motherGen     int
		daughterGen   int
		wantCleaned   bool
		wantPionDecay bool
	}{
		{"direct decay", 11, 7, 8, true, false},
		{"same generation", 11, 7, 7, true, false},
		{"ambiguous", 11, 7, 12, false, false},
		{"resonance", 63, 7, 8, false, false}, // K*+
		{"pion decay", 7, 2, 53, true, true},
		{"kaon delta 51", 11, 2, 53, false, false},
		{"charm delta 30", 117, 2, 32, true, false},
		{"charm delta 2", 117, 2, 4, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Reconstruct(input([]row{
				{cid: tc.mother, gen: tc.motherGen, mother: true, energy: 10},
				{cid: 14, gen: 0, mother: true, energy: 100},
				{cid: 6, gen: tc.daughterGen, energy: 5},
			}))
			require.True(t, c.HasMother[2])
			assert.Equal(t, tc.wantPionDecay, c.IsPionDecay[2])
			if tc.wantCleaned {
				assert.Equal(t, c.MotherPDG[2], c.MotherPDGCleaned[2])
			} else {
				assert.Equal(t, pdg.ErrorID, c.MotherPDGCleaned[2])
			}
		})
	}
}

func TestFilter(t *testing.T) {
	c := Reconstruct(input([]row{
		{cid: 8, gen: 4, mother: true},
		{cid: 14, gen: 3, mother: true},
		{cid: 6, gen: 5},
	}))
	f := c.Filter([]bool{false, false, true})
	require.Equal(t, 1, f.Len())
	assert.True(t, f.HasMother[0])
	assert.Equal(t, pdg.PiPlus, f.MotherPDG[0])
	assert.Equal(t, 5, f.HadronGen[0])
}
