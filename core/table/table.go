// Package table assembles the run, event and particle tables of one or more
// CORSIKA runs and derives the per-particle columns. Particle rows keep file
// order until every derived column exists; filtering is the last step.
package table

import (
	"errors"

	"panama-core/column"
	"panama-core/lineage"
	"panama-core/pdg"
)

// ErrConfig marks invalid builder options or inconsistent input.
var ErrConfig = errors.New("table: invalid configuration")

// Table names, as used by the writers.
const (
	NameRuns      = "runs"
	NameEvents    = "events"
	NameParticles = "particles"
)

// RunTable is keyed by RunNumber.
type RunTable struct {
	RunNumber          []int
	Date               []int
	Version            []float64
	NObservationLevels []int
	ObservationHeight  []float64 // first level, cm
	Slope              []float64
	EnergyMin          []float64
	EnergyMax          []float64
	CutoffHadrons      []float64
	CutoffMuons        []float64
	CutoffElectrons    []float64
	CutoffPhotons      []float64
	NShowers           []int
}

func (t *RunTable) Len() int { return len(t.RunNumber) }

// EventKey identifies an event.
type EventKey struct {
	RunNumber, EventNumber int
}

// EventTable is keyed by (RunNumber, EventNumber).
type EventTable struct {
	RunNumber              []int
	EventNumber            []int
	ParticleID             []int // CORSIKA code of the primary
	TotalEnergy            []float64
	StartingAltitude       []float64
	FirstInteractionHeight []float64
	Px, Py, Pz             []float64
	Zenith, Azimuth        []float64
	Slope                  []float64
	EnergyMin              []float64
	EnergyMax              []float64
	LowEnergyModel         []int
	HighEnergyModel        []int
}

func (t *EventTable) Len() int { return len(t.RunNumber) }

// Key returns the key of row i.
func (t *EventTable) Key(i int) EventKey {
	return EventKey{t.RunNumber[i], t.EventNumber[i]}
}

// Index maps every key to its row.
func (t *EventTable) Index() map[EventKey]int {
	m := make(map[EventKey]int, t.Len())
	for i := range t.RunNumber {
		m[t.Key(i)] = i
	}
	return m
}

// ParticleTable is keyed by (RunNumber, EventNumber, ParticleNumber).
// The derived columns are nil unless AdditionalColumns was set; Lineage
// and IsPrompt are nil unless MotherColumns was set.
type ParticleTable struct {
	RunNumber      []int
	EventNumber    []int
	ParticleNumber []int

	Description []int
	Px, Py, Pz  []float64
	X, Y, T     []float64
	Weight      []float64

	CorsikaID []int
	HadronGen []int
	ObsLevel  []int
	IsMother  []bool
	PDG       []pdg.ID
	Mass      []float64
	Energy    []float64
	Zenith    []float64

	Lineage  *lineage.Columns
	IsPrompt []bool
}

func (t *ParticleTable) Len() int { return len(t.Description) }

// HasAdditional reports whether the derived columns are present.
func (t *ParticleTable) HasAdditional() bool { return t.PDG != nil }

// Filter returns a copy restricted to rows where keep is set.
func (t *ParticleTable) Filter(keep []bool) *ParticleTable {
	out := &ParticleTable{
		RunNumber:      column.Filter(t.RunNumber, keep),
		EventNumber:    column.Filter(t.EventNumber, keep),
		ParticleNumber: column.Filter(t.ParticleNumber, keep),
		Description:    column.Filter(t.Description, keep),
		Px:             column.Filter(t.Px, keep),
		Py:             column.Filter(t.Py, keep),
		Pz:             column.Filter(t.Pz, keep),
		X:              column.Filter(t.X, keep),
		Y:              column.Filter(t.Y, keep),
		T:              column.Filter(t.T, keep),
		Weight:         column.Filter(t.Weight, keep),
	}
	if t.HasAdditional() {
		out.CorsikaID = column.Filter(t.CorsikaID, keep)
		out.HadronGen = column.Filter(t.HadronGen, keep)
		out.ObsLevel = column.Filter(t.ObsLevel, keep)
		out.IsMother = column.Filter(t.IsMother, keep)
		out.PDG = column.Filter(t.PDG, keep)
		out.Mass = column.Filter(t.Mass, keep)
		out.Energy = column.Filter(t.Energy, keep)
		out.Zenith = column.Filter(t.Zenith, keep)
	}
	if t.Lineage != nil {
		out.Lineage = t.Lineage.Filter(keep)
		out.IsPrompt = column.Filter(t.IsPrompt, keep)
	}
	return out
}

// EventRows maps each particle row to its event table row, -1 when the
// event is missing.
func (t *ParticleTable) EventRows(events *EventTable) []int {
	idx := events.Index()
	out := make([]int, t.Len())
	for i := range out {
		r, ok := idx[EventKey{t.RunNumber[i], t.EventNumber[i]}]
		if !ok {
			r = -1
		}
		out[i] = r
	}
	return out
}

// Tables bundles the three tables of a read.
type Tables struct {
	Runs      *RunTable
	Events    *EventTable
	Particles *ParticleTable
}
