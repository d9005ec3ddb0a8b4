package table

import (
	"fmt"
	"math"

	"panama-core/column"
	"panama-core/corsika"
	"panama-core/lineage"
	"panama-core/pdg"
	"panama-core/prompt"
)

// Options control which columns are derived and which rows survive.
type Options struct {
	AdditionalColumns bool
	MotherColumns     bool
	DropMothers       bool
	DropNonParticles  bool
	// MaxEvents stops reading after that many events; 0 reads everything.
	MaxEvents int
	// LifetimeLimit for the is_prompt column, ns; 0 uses the default.
	LifetimeLimit float64
}

// DefaultOptions derive the additional columns and drop marker and
// non-particle rows.
func DefaultOptions() Options {
	return Options{AdditionalColumns: true, DropMothers: true, DropNonParticles: true}
}

// Validate rejects option combinations that need columns that are off.
func (o Options) Validate() error {
	if !o.AdditionalColumns {
		if o.DropNonParticles {
			return fmt.Errorf("%w: DropNonParticles requires AdditionalColumns", ErrConfig)
		}
		if o.MotherColumns {
			return fmt.Errorf("%w: MotherColumns requires AdditionalColumns", ErrConfig)
		}
	}
	if o.MaxEvents < 0 {
		return fmt.Errorf("%w: MaxEvents must be >= 0", ErrConfig)
	}
	return nil
}

// Builder accumulates runs in file order.
type Builder struct {
	opts   Options
	runs   RunTable
	events EventTable
	parts  ParticleTable
	seen   map[int]bool
}

func NewBuilder(opts Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{opts: opts, seen: make(map[int]bool)}, nil
}

// Full reports whether MaxEvents has been reached.
func (b *Builder) Full() bool {
	return b.opts.MaxEvents > 0 && b.events.Len() >= b.opts.MaxEvents
}

// AddRun appends one run. Run numbers must be unique across a build.
func (b *Builder) AddRun(r *corsika.Run) error {
	h := r.Header
	if b.seen[h.RunNumber] {
		return fmt.Errorf("%w: duplicate run number %d", ErrConfig, h.RunNumber)
	}
	b.seen[h.RunNumber] = true
	if b.Full() {
		return nil
	}

	rt := &b.runs
	rt.RunNumber = append(rt.RunNumber, h.RunNumber)
	rt.Date = append(rt.Date, h.Date)
	rt.Version = append(rt.Version, h.Version)
	rt.NObservationLevels = append(rt.NObservationLevels, h.NObservationLevels)
	rt.ObservationHeight = append(rt.ObservationHeight, h.ObservationHeights[0])
	rt.Slope = append(rt.Slope, h.Slope)
	rt.EnergyMin = append(rt.EnergyMin, h.EnergyMin)
	rt.EnergyMax = append(rt.EnergyMax, h.EnergyMax)
	rt.CutoffHadrons = append(rt.CutoffHadrons, h.Cutoffs.Hadron)
	rt.CutoffMuons = append(rt.CutoffMuons, h.Cutoffs.Muon)
	rt.CutoffElectrons = append(rt.CutoffElectrons, h.Cutoffs.Electron)
	rt.CutoffPhotons = append(rt.CutoffPhotons, h.Cutoffs.Photon)
	rt.NShowers = append(rt.NShowers, h.NShowers)

	for i := range r.Events {
		if b.Full() {
			break
		}
		b.addEvent(h.RunNumber, &r.Events[i])
	}
	return nil
}

func (b *Builder) addEvent(run int, ev *corsika.Event) {
	h := ev.Header
	et := &b.events
	et.RunNumber = append(et.RunNumber, run)
	et.EventNumber = append(et.EventNumber, h.EventNumber)
	et.ParticleID = append(et.ParticleID, h.ParticleID)
	et.TotalEnergy = append(et.TotalEnergy, h.TotalEnergy)
	et.StartingAltitude = append(et.StartingAltitude, h.StartingAltitude)
	et.FirstInteractionHeight = append(et.FirstInteractionHeight, h.FirstInteractionHeight)
	et.Px = append(et.Px, h.Px)
	et.Py = append(et.Py, h.Py)
	et.Pz = append(et.Pz, h.Pz)
	et.Zenith = append(et.Zenith, h.Zenith)
	et.Azimuth = append(et.Azimuth, h.Azimuth)
	et.Slope = append(et.Slope, h.Slope)
	et.EnergyMin = append(et.EnergyMin, h.EnergyMin)
	et.EnergyMax = append(et.EnergyMax, h.EnergyMax)
	et.LowEnergyModel = append(et.LowEnergyModel, h.LowEnergyModel)
	et.HighEnergyModel = append(et.HighEnergyModel, h.HighEnergyModel)

	pt := &b.parts
	n := 0
	for _, p := range ev.Particles {
		if p.Description == 0 {
			continue
		}
		pt.RunNumber = append(pt.RunNumber, run)
		pt.EventNumber = append(pt.EventNumber, h.EventNumber)
		pt.ParticleNumber = append(pt.ParticleNumber, n)
		pt.Description = append(pt.Description, p.Description)
		pt.Px = append(pt.Px, p.Px)
		pt.Py = append(pt.Py, p.Py)
		pt.Pz = append(pt.Pz, p.Pz)
		pt.X = append(pt.X, p.X)
		pt.Y = append(pt.Y, p.Y)
		pt.T = append(pt.T, p.T)
		pt.Weight = append(pt.Weight, p.Weight)
		n++
	}
}

// Build derives the requested columns and applies the row filters. The
// builder must not be reused afterwards.
func (b *Builder) Build() *Tables {
	pt := &b.parts
	if b.opts.AdditionalColumns {
		AddColumns(pt)
		if b.opts.MotherColumns {
			AddMotherColumns(pt, b.opts.LifetimeLimit)
		}
	}
	if b.opts.DropMothers {
		keep := column.Apply(pt.Description, func(d int) bool { return d >= 0 })
		pt = pt.Filter(keep)
	}
	if b.opts.DropNonParticles {
		keep := column.Apply(pt.PDG, func(id pdg.ID) bool { return id != pdg.ErrorID })
		pt = pt.Filter(keep)
	}
	runs, events := b.runs, b.events
	return &Tables{Runs: &runs, Events: &events, Particles: pt}
}

// AddColumns derives the species, generation and kinematic columns.
func AddColumns(pt *ParticleTable) {
	absDesc := column.Apply(pt.Description, func(d int) int {
		if d < 0 {
			return -d
		}
		return d
	})
	pt.CorsikaID = column.Apply(absDesc, func(d int) int { return d / 1000 })
	pt.HadronGen = column.Apply(absDesc, func(d int) int { return (d % 1000) / 10 })
	pt.ObsLevel = column.Apply(absDesc, func(d int) int { return d % 10 })
	pt.IsMother = column.Apply(pt.Description, func(d int) bool { return d < 0 })
	pt.PDG = column.Lookup(pt.CorsikaID, pdg.FromCorsika)
	pt.Mass = column.Lookup(pt.PDG, pdg.Mass)

	n := pt.Len()
	pt.Energy = make([]float64, n)
	pt.Zenith = make([]float64, n)
	for i := 0; i < n; i++ {
		p2 := pt.Px[i]*pt.Px[i] + pt.Py[i]*pt.Py[i] + pt.Pz[i]*pt.Pz[i]
		pt.Energy[i] = math.Sqrt(pt.Mass[i]*pt.Mass[i] + p2)
		pt.Zenith[i] = math.Acos(pt.Pz[i] / math.Sqrt(p2))
	}
}

// AddMotherColumns reconstructs the EHIST ancestry and the is_prompt
// column. It must run on the unfiltered table; on a table whose marker rows
// were already dropped it silently produces wrong has_mother values.
func AddMotherColumns(pt *ParticleTable, lifetimeLimit float64) {
	if lifetimeLimit <= 0 {
		lifetimeLimit = prompt.DefaultLifetimeLimit
	}
	pt.Lineage = lineage.Reconstruct(lineage.Input{
		Description: pt.Description,
		IsMother:    pt.IsMother,
		HadronGen:   pt.HadronGen,
		PDG:         pt.PDG,
		Energy:      pt.Energy,
		Mass:        pt.Mass,
	})
	pt.IsPrompt = prompt.LifetimeLimit(pt.Lineage, lifetimeLimit)
}
