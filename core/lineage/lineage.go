// Package lineage recovers the mother and grandmother of every particle row
// written with CORSIKA's EHIST option. The simulator stores an ancestor pair
// as the two rows preceding the daughter, so ancestry is a shifted-index
// gather over the complete, unfiltered table. Row i reads its mother from
// (i-2) mod n and its grandmother from (i-1) mod n; the first two rows
// therefore borrow the last two rows of the table.
package lineage

import (
	"math"

	"panama-core/column"
	"panama-core/pdg"
)

// Input is the slice of a particle table the reconstruction reads. All
// columns have the same length and keep file order, marker rows included.
type Input struct {
	Description []int
	IsMother    []bool
	HadronGen   []int
	PDG         []pdg.ID
	Energy      []float64
	Mass        []float64
}

// Columns holds the per-row ancestry attributes. Mother attributes are
// only meaningful where HasMother is set; elsewhere ids are pdg.ErrorID,
// energies and masses NaN, and MotherHadrGen 0.
type Columns struct {
	HasMother []bool

	// MotherHadrGen is |desc[mother]| % 100; valid where HasMother.
	MotherHadrGen []int

	MotherPDG      []pdg.ID
	MotherEnergy   []float64
	MotherMass     []float64
	GrandmotherPDG []pdg.ID

	MotherHasCharm    []bool
	MotherLifetime    []float64 // ns; undefined -> 0, sentinel -> +Inf
	MotherIsResonance []bool

	// GenerationDelta is hadron_gen - mother_hadr_gen, 0 where there is no
	// mother.
	GenerationDelta []int
	IsPionDecay     []bool
	IsCharmDecay    []bool

	// MotherPDGCleaned keeps the mother species only where the generation
	// bookkeeping identifies it unambiguously.
	MotherPDGCleaned []pdg.ID

	// HadronGen aliases the daughter generation column of the input.
	HadronGen []int
}

// ParentIndex is (i-2) mod n.
func ParentIndex(n int) []int { return column.Shift(n, 2) }

// GrandparentIndex is (i-1) mod n.
func GrandparentIndex(n int) []int { return column.Shift(n, 1) }

var pionCodes = map[pdg.ID]bool{pdg.Pi0: true, pdg.PiPlus: true, pdg.PiMinus: true}

// Reconstruct derives every ancestry column. The caller must pass the table
// before any marker or sentinel rows are removed.
func Reconstruct(in Input) *Columns {
	n := len(in.Description)
	mother := ParentIndex(n)
	grand := GrandparentIndex(n)

	has := column.And(column.Gather(in.IsMother, mother), column.Gather(in.IsMother, grand))
	none := column.Not(has)

	mgen := column.Apply(column.Gather(in.Description, mother), func(d int) int {
		if d < 0 {
			d = -d
		}
		return d % 100
	})
	mgen = column.Fill(mgen, none, 0)

	nan := math.NaN()
	c := &Columns{
		HasMother:      has,
		MotherHadrGen:  mgen,
		MotherPDG:      column.Fill(column.Gather(in.PDG, mother), none, pdg.ErrorID),
		MotherEnergy:   column.Fill(column.Gather(in.Energy, mother), none, nan),
		MotherMass:     column.Fill(column.Gather(in.Mass, mother), none, nan),
		GrandmotherPDG: column.Fill(column.Gather(in.PDG, grand), none, pdg.ErrorID),
		HadronGen:      in.HadronGen,
	}

	c.MotherHasCharm = column.Lookup(c.MotherPDG, pdg.HasCharm)
	c.MotherLifetime = column.Lookup(c.MotherPDG, pdg.Lifetime)
	c.MotherIsResonance = column.Lookup(c.MotherPDG, pdg.IsResonance)

	delta := column.Zip(in.HadronGen, mgen, func(g, mg int) int { return g - mg })
	c.GenerationDelta = column.Fill(delta, none, 0)
	c.IsPionDecay = column.And(has, deltaIs(c.GenerationDelta, 51), column.Apply(c.MotherPDG, func(id pdg.ID) bool { return pionCodes[id] }))
	c.IsCharmDecay = column.And(has, c.MotherHasCharm, deltaIs(c.GenerationDelta, 30))

	direct := column.And(has, column.Or(deltaIs(c.GenerationDelta, 0), deltaIs(c.GenerationDelta, 1)), column.Not(c.MotherIsResonance))
	keep := column.Or(direct, c.IsCharmDecay, c.IsPionDecay)
	c.MotherPDGCleaned = column.Fill(c.MotherPDG, column.Not(keep), pdg.ErrorID)
	return c
}

func deltaIs(delta []int, v int) []bool {
	return column.Apply(delta, func(d int) bool { return d == v })
}

// Filter returns the columns restricted to rows where keep is set.
func (c *Columns) Filter(keep []bool) *Columns {
	return &Columns{
		HasMother:         column.Filter(c.HasMother, keep),
		MotherHadrGen:     column.Filter(c.MotherHadrGen, keep),
		MotherPDG:         column.Filter(c.MotherPDG, keep),
		MotherEnergy:      column.Filter(c.MotherEnergy, keep),
		MotherMass:        column.Filter(c.MotherMass, keep),
		GrandmotherPDG:    column.Filter(c.GrandmotherPDG, keep),
		MotherHasCharm:    column.Filter(c.MotherHasCharm, keep),
		MotherLifetime:    column.Filter(c.MotherLifetime, keep),
		MotherIsResonance: column.Filter(c.MotherIsResonance, keep),
		GenerationDelta:   column.Filter(c.GenerationDelta, keep),
		IsPionDecay:       column.Filter(c.IsPionDecay, keep),
		IsCharmDecay:      column.Filter(c.IsCharmDecay, keep),
		MotherPDGCleaned:  column.Filter(c.MotherPDGCleaned, keep),
		HadronGen:         column.Filter(c.HadronGen, keep),
	}
}

// Len is the number of rows.
func (c *Columns) Len() int { return len(c.HasMother) }
