// internal/writers/rows.go
package writers

import (
	"strconv"

	"panama-core/table"

	"panama/pkg/api"
)

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
func fi(v int) string     { return strconv.Itoa(v) }
func fb(v bool) string    { return strconv.FormatBool(v) }

func ptr[T any](v T) *T { return &v }

// RunRows renders a run table.
type RunRows struct{ T *table.RunTable }

var runHeader = []string{
	"run_number", "date", "version", "n_observation_levels", "observation_height",
	"energy_spectrum_slope", "energy_min", "energy_max",
	"energy_cutoff_hadrons", "energy_cutoff_muons", "energy_cutoff_electrons", "energy_cutoff_photons",
	"n_showers",
}

func (r RunRows) Header() []string { return runHeader }
func (r RunRows) Len() int         { return r.T.Len() }

func (r RunRows) Cells(i int) []string {
	t := r.T
	return []string{
		fi(t.RunNumber[i]), fi(t.Date[i]), ff(t.Version[i]), fi(t.NObservationLevels[i]), ff(t.ObservationHeight[i]),
		ff(t.Slope[i]), ff(t.EnergyMin[i]), ff(t.EnergyMax[i]),
		ff(t.CutoffHadrons[i]), ff(t.CutoffMuons[i]), ff(t.CutoffElectrons[i]), ff(t.CutoffPhotons[i]),
		fi(t.NShowers[i]),
	}
}

func (r RunRows) Value(i int) any {
	t := r.T
	return api.RunV1{
		Table: api.TableRuns, RunNumber: t.RunNumber[i], Date: t.Date[i], Version: t.Version[i],
		NObservationLevels: t.NObservationLevels[i], ObservationHeight: t.ObservationHeight[i],
		Slope: t.Slope[i], EnergyMin: t.EnergyMin[i], EnergyMax: t.EnergyMax[i],
		CutoffHadrons: t.CutoffHadrons[i], CutoffMuons: t.CutoffMuons[i],
		CutoffElectrons: t.CutoffElectrons[i], CutoffPhotons: t.CutoffPhotons[i],
		NShowers: t.NShowers[i],
	}
}

// EventRows renders an event table, with a flux_weight column when W is set.
type EventRows struct {
	T *table.EventTable
	W []float64
}

var eventHeader = []string{
	"run_number", "event_number", "particle_id", "total_energy", "starting_altitude",
	"first_interaction_height", "px", "py", "pz", "zenith", "azimuth",
	"low_energy_model", "high_energy_model",
}

func (r EventRows) Header() []string {
	if r.W == nil {
		return eventHeader
	}
	return append(append([]string(nil), eventHeader...), "flux_weight")
}

func (r EventRows) Len() int { return r.T.Len() }

func (r EventRows) Cells(i int) []string {
	t := r.T
	out := []string{
		fi(t.RunNumber[i]), fi(t.EventNumber[i]), fi(t.ParticleID[i]), ff(t.TotalEnergy[i]), ff(t.StartingAltitude[i]),
		ff(t.FirstInteractionHeight[i]), ff(t.Px[i]), ff(t.Py[i]), ff(t.Pz[i]), ff(t.Zenith[i]), ff(t.Azimuth[i]),
		fi(t.LowEnergyModel[i]), fi(t.HighEnergyModel[i]),
	}
	if r.W != nil {
		out = append(out, ff(r.W[i]))
	}
	return out
}

func (r EventRows) Value(i int) any {
	t := r.T
	v := api.EventV1{
		Table: api.TableEvents, RunNumber: t.RunNumber[i], EventNumber: t.EventNumber[i],
		ParticleID: t.ParticleID[i], TotalEnergy: t.TotalEnergy[i], StartingAltitude: t.StartingAltitude[i],
		FirstInteractionHeight: t.FirstInteractionHeight[i], Px: t.Px[i], Py: t.Py[i], Pz: t.Pz[i],
		Zenith: t.Zenith[i], Azimuth: t.Azimuth[i],
		LowEnergyModel: t.LowEnergyModel[i], HighEnergyModel: t.HighEnergyModel[i],
	}
	if r.W != nil {
		v.Weight = api.Finite(r.W[i])
	}
	return v
}

// ParticleRows renders a particle table with whichever derived columns it
// carries.
type ParticleRows struct{ T *table.ParticleTable }

var (
	particleHeader = []string{
		"run_number", "event_number", "particle_number", "particle_description",
		"px", "py", "pz", "x", "y", "t", "weight",
	}
	additionalHeader = []string{
		"corsika_id", "hadron_gen", "obs_level", "is_mother", "pdgid", "mass", "energy", "zenith",
	}
	motherHeader = []string{
		"has_mother", "mother_hadr_gen", "mother_pdgid", "mother_energy", "mother_mass",
		"grandmother_pdgid", "mother_pdgid_cleaned", "is_prompt",
	}
)

func (r ParticleRows) Header() []string {
	h := append([]string(nil), particleHeader...)
	if r.T.HasAdditional() {
		h = append(h, additionalHeader...)
	}
	if r.T.Lineage != nil {
		h = append(h, motherHeader...)
	}
	return h
}

func (r ParticleRows) Len() int { return r.T.Len() }

func (r ParticleRows) Cells(i int) []string {
	t := r.T
	out := []string{
		fi(t.RunNumber[i]), fi(t.EventNumber[i]), fi(t.ParticleNumber[i]), fi(t.Description[i]),
		ff(t.Px[i]), ff(t.Py[i]), ff(t.Pz[i]), ff(t.X[i]), ff(t.Y[i]), ff(t.T[i]), ff(t.Weight[i]),
	}
	if t.HasAdditional() {
		out = append(out,
			fi(t.CorsikaID[i]), fi(t.HadronGen[i]), fi(t.ObsLevel[i]), fb(t.IsMother[i]),
			fi(int(t.PDG[i])), ff(t.Mass[i]), ff(t.Energy[i]), ff(t.Zenith[i]))
	}
	if l := t.Lineage; l != nil {
		gen := ""
		if l.HasMother[i] {
			gen = fi(l.MotherHadrGen[i])
		}
		out = append(out,
			fb(l.HasMother[i]), gen, fi(int(l.MotherPDG[i])), ff(l.MotherEnergy[i]), ff(l.MotherMass[i]),
			fi(int(l.GrandmotherPDG[i])), fi(int(l.MotherPDGCleaned[i])), fb(t.IsPrompt[i]))
	}
	return out
}

func (r ParticleRows) Value(i int) any {
	t := r.T
	v := api.ParticleV1{
		Table: api.TableParticles, RunNumber: t.RunNumber[i], EventNumber: t.EventNumber[i],
		ParticleNumber: t.ParticleNumber[i], Description: t.Description[i],
		Px: t.Px[i], Py: t.Py[i], Pz: t.Pz[i], X: t.X[i], Y: t.Y[i], T: t.T[i], Weight: t.Weight[i],
	}
	if t.HasAdditional() {
		v.CorsikaID = ptr(t.CorsikaID[i])
		v.HadronGen = ptr(t.HadronGen[i])
		v.ObsLevel = ptr(t.ObsLevel[i])
		v.IsMother = ptr(t.IsMother[i])
		v.PDGID = ptr(int(t.PDG[i]))
		v.Mass = api.Finite(t.Mass[i])
		v.Energy = api.Finite(t.Energy[i])
		v.Zenith = api.Finite(t.Zenith[i])
	}
	if l := t.Lineage; l != nil {
		v.HasMother = ptr(l.HasMother[i])
		if l.HasMother[i] {
			v.MotherHadrGen = ptr(l.MotherHadrGen[i])
		}
		v.MotherPDGID = ptr(int(l.MotherPDG[i]))
		v.MotherEnergy = api.Finite(l.MotherEnergy[i])
		v.MotherMass = api.Finite(l.MotherMass[i])
		v.GrandmotherPDGID = ptr(int(l.GrandmotherPDG[i]))
		v.MotherPDGCleaned = ptr(int(l.MotherPDGCleaned[i]))
		v.IsPrompt = ptr(t.IsPrompt[i])
	}
	return v
}

// Func adapts closures to Rows for small result tables.
type Func struct {
	Columns []string
	N       int
	CellsFn func(i int) []string
	ValueFn func(i int) any
}

func (f Func) Header() []string     { return f.Columns }
func (f Func) Len() int             { return f.N }
func (f Func) Cells(i int) []string { return f.CellsFn(i) }
func (f Func) Value(i int) any      { return f.ValueFn(i) }

// FormatFloat renders v the way every TSV writer does.
func FormatFloat(v float64) string { return ff(v) }
