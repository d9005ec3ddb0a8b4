package weights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panama-core/flux"
	"panama-core/pdg"
	"panama-core/table"
)

func runs(slope float64, intervals ...Interval) *table.RunTable {
	rt := &table.RunTable{}
	for i, iv := range intervals {
		rt.RunNumber = append(rt.RunNumber, i+1)
		rt.Slope = append(rt.Slope, slope)
		rt.EnergyMin = append(rt.EnergyMin, iv.Low)
		rt.EnergyMax = append(rt.EnergyMax, iv.High)
	}
	return rt
}

// logUniform places n events at the log-space midpoints of iv.
func logUniform(et *table.EventTable, run, primary, n int, iv Interval) {
	lo, hi := math.Log(iv.Low), math.Log(iv.High)
	for i := 0; i < n; i++ {
		e := math.Exp(lo + (float64(i)+0.5)*(hi-lo)/float64(n))
		et.RunNumber = append(et.RunNumber, run)
		et.EventNumber = append(et.EventNumber, len(et.EventNumber)+1)
		et.ParticleID = append(et.ParticleID, primary)
		et.TotalEnergy = append(et.TotalEnergy, e)
		et.EnergyMin = append(et.EnergyMin, iv.Low)
		et.EnergyMax = append(et.EnergyMax, iv.High)
	}
}

func TestOverlappingIntervals(t *testing.T) {
	_, err := Compute(runs(-1, Interval{10, 100}, Interval{50, 200}), &table.EventTable{}, flux.H3a(), Options{})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "(10, 100]")
	assert.Contains(t, err.Error(), "(50, 200]")
}

func TestTouchingIntervalsAreDistinct(t *testing.T) {
	_, err := Intervals(runs(-1, Interval{10, 100}, Interval{100, 1000}, Interval{10, 100}))
	assert.NoError(t, err)
}

func TestMultipleSlopes(t *testing.T) {
	rt := runs(-1, Interval{10, 100})
	rt.RunNumber = append(rt.RunNumber, 2)
	rt.Slope = append(rt.Slope, -2)
	rt.EnergyMin = append(rt.EnergyMin, 10)
	rt.EnergyMax = append(rt.EnergyMax, 100)
	_, err := Compute(rt, &table.EventTable{}, flux.H3a(), Options{})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "multiple energy slopes")
}

func TestProtonOnlyExcludesGroups(t *testing.T) {
	_, err := Compute(runs(-1, Interval{10, 100}), &table.EventTable{}, flux.H3a(),
		Options{ProtonOnly: true, Groups: map[pdg.ID]ZRange{pdg.Proton: {1, 2}}})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "groups must be nil")
}

func TestNorm(t *testing.T) {
	iv := Interval{10, 1000}
	assert.InDelta(t, math.Log(100), iv.Norm(-1), 1e-12)
	assert.InDelta(t, (1.0/10 - 1.0/1000), iv.Norm(-2), 1e-12)
}

func TestWeightsIntegrateFlux(t *testing.T) {
	iv := Interval{1e3, 1e5}
	et := &table.EventTable{}
	logUniform(et, 1, 14, 20000, iv)

	w, err := Compute(runs(-1, iv), et, flux.TIG(), Options{})
	require.NoError(t, err)
	require.Len(t, w, et.Len())

	var sum float64
	for _, v := range w {
		sum += v
	}
	// integral of 1.7e4 * E^-2.7 over the interval
	want := 1.7 * flux.CmToM2 / 1.7 * (math.Pow(iv.Low, -1.7) - math.Pow(iv.High, -1.7))
	assert.InEpsilon(t, want, sum, 1e-3)
}

func TestWeightsPerBin(t *testing.T) {
	a, b := Interval{1e2, 1e3}, Interval{1e3, 1e4}
	et := &table.EventTable{}
	logUniform(et, 1, 14, 10, a)
	logUniform(et, 2, 402, 5, b)
	model := flux.H3a()

	w, err := Compute(runs(-2, a, b), et, model, Options{})
	require.NoError(t, err)

	e := et.TotalEnergy[12]
	f, err := model.Flux(pdg.Nucleus(2, 4), []float64{e}, true)
	require.NoError(t, err)
	want := f[0] / (5 * math.Pow(e, -2) / b.Norm(-2))
	assert.InEpsilon(t, want, w[12], 1e-12)

	// both primaries are model species
	for i, v := range w {
		assert.Greater(t, v, 0.0, "row %d", i)
	}
}

func TestProtonOnly(t *testing.T) {
	iv := Interval{1e3, 1e4}
	et := &table.EventTable{}
	logUniform(et, 1, 14, 4, iv)
	logUniform(et, 1, 402, 4, iv)
	model := flux.H3a()

	w, err := Compute(runs(-1, iv), et, model, Options{ProtonOnly: true})
	require.NoError(t, err)
	for i := 4; i < 8; i++ {
		assert.Equal(t, 0.0, w[i])
	}
	p, n := model.TotalProtonAndNeutronFlux(et.TotalEnergy[:1])
	want := (p[0] + n[0]) / (4 * math.Pow(et.TotalEnergy[0], -1) / iv.Norm(-1))
	assert.InEpsilon(t, want, w[0], 1e-12)
}

func TestGroups(t *testing.T) {
	iv := Interval{1e3, 1e4}
	et := &table.EventTable{}
	logUniform(et, 1, 14, 3, iv)
	model := flux.H3a()

	grouped, err := Compute(runs(-1, iv), et, model, Options{Groups: map[pdg.ID]ZRange{pdg.HydrogenNucleus: {1, 2}}})
	require.NoError(t, err)
	plain, err := Compute(runs(-1, iv), et, model, Options{})
	require.NoError(t, err)

	he, err := model.Flux(pdg.Nucleus(2, 4), et.TotalEnergy, true)
	require.NoError(t, err)
	for i := range grouped {
		extra := he[i] / (3 * math.Pow(et.TotalEnergy[i], -1) / iv.Norm(-1))
		assert.InEpsilon(t, plain[i]+extra, grouped[i], 1e-12)
	}

	_, err = Compute(runs(-1, iv), et, model, Options{Groups: map[pdg.ID]ZRange{pdg.Nucleus(26, 56): {26, 26}}})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestInvalidSpeciesWeighsZero(t *testing.T) {
	iv := Interval{1e3, 1e4}
	et := &table.EventTable{}
	logUniform(et, 1, 5626, 2, iv) // Fe-56 is not in TIG
	w, err := Compute(runs(-1, iv), et, flux.TIG(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, w)
}

func TestUnmatchedEventIsNaN(t *testing.T) {
	et := &table.EventTable{}
	logUniform(et, 1, 14, 1, Interval{1, 2})
	w, err := Compute(runs(-1, Interval{1e3, 1e4}), et, flux.TIG(), Options{})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(w[0]))
}

func TestParticleWeights(t *testing.T) {
	events := &table.EventTable{RunNumber: []int{1, 1}, EventNumber: []int{1, 2}}
	parts := &table.ParticleTable{
		RunNumber:   []int{1, 1, 1, 1, 2},
		EventNumber: []int{1, 1, 2, 2, 1},
		Description: []int{1, 1, 1, 1, 1},
	}
	w := ForParticles(events, parts, []float64{0.5, 2})
	assert.Equal(t, []float64{0.5, 0.5, 2, 2}, w[:4])
	assert.True(t, math.IsNaN(w[4]))

	prompt := []bool{false, false, true, false, false}
	assert.Equal(t, []float64{1, 1, 137.42, 1, 1}, PromptWeight(prompt, 137.42))
	assert.Equal(t, []float64{1, 1, 137.42, 137.42, 1}, PromptWeightPerEvent(parts, prompt, 137.42))
}
