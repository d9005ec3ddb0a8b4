package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panama-core/column"
	"panama-core/corsika"
	"panama-core/pdg"
)

func ehist(motherCID, motherGen, daughterCID, daughterGen int, pz float64) []corsika.Particle {
	return []corsika.Particle{
		{Description: -(motherCID*1000 + motherGen), Pz: 10 * pz, Weight: 1},
		{Description: -(14*1000 + motherGen - 1), Pz: 100 * pz, Weight: 1},
		{Description: daughterCID*1000 + daughterGen*10 + 1, Px: 3, Pz: pz, Weight: 1},
	}
}

func testRun(run int) *corsika.Run {
	r := &corsika.Run{Header: corsika.RunHeader{RunNumber: run, Slope: -1, EnergyMin: 1e3, EnergyMax: 1e5, NShowers: 2}}
	for e := 1; e <= 2; e++ {
		ev := corsika.Event{Header: corsika.EventHeader{EventNumber: e, RunNumber: run, ParticleID: 14, TotalEnergy: 1e4}}
		ev.Particles = append(ev.Particles, ehist(8, 4, 6, 5, 4)...)     // pi+ -> mu-
		ev.Particles = append(ev.Particles, ehist(116, 2, 5, 32, 20)...) // D0 -> mu+
		ev.Particles = append(ev.Particles,
			corsika.Particle{Description: 1001, Pz: 2, Weight: 1},  // photon
			corsika.Particle{Description: 75001, Pz: 2, Weight: 1}, // additional muon information
			corsika.Particle{}, // padding
		)
		r.Events = append(r.Events, ev)
	}
	return r
}

func build(t *testing.T, opts Options, runs ...*corsika.Run) *Tables {
	t.Helper()
	b, err := NewBuilder(opts)
	require.NoError(t, err)
	for _, r := range runs {
		require.NoError(t, b.AddRun(r))
	}
	return b.Build()
}

func TestOptionsRequireAdditionalColumns(t *testing.T) {
	_, err := NewBuilder(Options{DropNonParticles: true})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "requires")

	_, err = NewBuilder(Options{MotherColumns: true})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "requires")

	_, err = NewBuilder(DefaultOptions())
	assert.NoError(t, err)
}

func TestDerivedColumns(t *testing.T) {
	opts := Options{AdditionalColumns: true}
	tb := build(t, opts, testRun(1))
	pt := tb.Particles

	// padding rows are gone, numbering restarts per event
	require.Equal(t, 16, pt.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, pt.ParticleNumber[:8])
	assert.Equal(t, 0, pt.ParticleNumber[8])
	assert.Equal(t, 2, pt.EventNumber[8])

	mu := 2
	assert.Equal(t, 6, pt.CorsikaID[mu])
	assert.Equal(t, 5, pt.HadronGen[mu])
	assert.Equal(t, 1, pt.ObsLevel[mu])
	assert.Equal(t, pdg.MuMinus, pt.PDG[mu])
	assert.False(t, pt.IsMother[mu])
	assert.True(t, pt.IsMother[0])
	m := pdg.Mass(pdg.MuMinus)
	assert.InDelta(t, math.Sqrt(m*m+9+16), pt.Energy[mu], 1e-12)
	assert.InDelta(t, math.Acos(4.0/5.0), pt.Zenith[mu], 1e-12)

	assert.Equal(t, pdg.ErrorID, pt.PDG[7], "additional muon information is not a particle")
	assert.Equal(t, 0.0, pt.Mass[7])
}

func TestBuildDefaultFiltering(t *testing.T) {
	opts := DefaultOptions()
	opts.MotherColumns = true
	tb := build(t, opts, testRun(1), testRun(2))

	pt := tb.Particles
	// per event: two muons and a photon survive
	require.Equal(t, 12, pt.Len())
	assert.Zero(t, column.Count(pt.IsMother))
	for _, id := range pt.PDG {
		assert.NotEqual(t, pdg.ErrorID, id)
	}
	assert.Equal(t, []bool{true, true, false}, pt.Lineage.HasMother[:3])
	assert.Equal(t, []bool{false, true, false}, pt.IsPrompt[:3])
	assert.Equal(t, pdg.D0, pt.Lineage.MotherPDG[1])
	// original positions are kept as keys
	assert.Equal(t, []int{2, 5, 6}, pt.ParticleNumber[:3])

	assert.Equal(t, 2, tb.Runs.Len())
	assert.Equal(t, 4, tb.Events.Len())
	assert.Equal(t, EventKey{2, 1}, tb.Events.Key(2))
}

func TestFilteringBeforeLineageChangesHasMother(t *testing.T) {
	// Correct order: lineage on the full table, filter afterwards.
	opts := DefaultOptions()
	opts.MotherColumns = true
	good := build(t, opts, testRun(1)).Particles

	// Wrong order: drop marker rows first, then reconstruct.
	early := build(t, DefaultOptions(), testRun(1)).Particles
	AddMotherColumns(early, 0)

	require.Equal(t, good.Len(), early.Len())
	assert.NotEqual(t, good.Lineage.HasMother, early.Lineage.HasMother)
	assert.Zero(t, column.Count(early.Lineage.HasMother), "no marker rows left to find")
}

func TestMaxEvents(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxEvents = 3
	tb := build(t, opts, testRun(1), testRun(2))
	assert.Equal(t, 3, tb.Events.Len())
	assert.Equal(t, 2, tb.Runs.Len())
	assert.Equal(t, 9, tb.Particles.Len())
}

func TestDuplicateRun(t *testing.T) {
	b, err := NewBuilder(DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, b.AddRun(testRun(4)))
	assert.ErrorIs(t, b.AddRun(testRun(4)), ErrConfig)
}

func TestDuplicateRunAfterMaxEvents(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxEvents = 1
	b, err := NewBuilder(opts)
	require.NoError(t, err)
	require.NoError(t, b.AddRun(testRun(1)))
	require.True(t, b.Full())
	require.NoError(t, b.AddRun(testRun(2)), "runs past the limit are skipped")
	assert.ErrorIs(t, b.AddRun(testRun(2)), ErrConfig)
}

func TestEventRows(t *testing.T) {
	tb := build(t, DefaultOptions(), testRun(1), testRun(2))
	rows := tb.Particles.EventRows(tb.Events)
	assert.Equal(t, 0, rows[0])
	assert.Equal(t, 3, rows[len(rows)-1])
}
