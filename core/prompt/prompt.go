// Package prompt labels particles as prompt (from a short-lived heavy
// flavour decay) or conventional (from a long pion/kaon decay chain).
//
// LifetimeLimit is the production rule. The remaining rules exist to
// cross-check it: on realistic samples the cleaned rules agree with it on
// more than 99% of rows while the uncleaned ones disagree on 10-20%.
package prompt

import (
	"math"

	"panama-core/column"
	"panama-core/lineage"
	"panama-core/pdg"
)

// EnergyConversion relates decay length to interaction length, in GeV.
const EnergyConversion = 21681.666

// DefaultEnergyMargin is the default s of the energy rules.
const DefaultEnergyMargin = 2

// DefaultLifetimeLimit is ten D0 lifetimes, in ns.
var DefaultLifetimeLimit = 10 * pdg.D0Lifetime

// pionKaon are the conventional mothers, the sentinel included.
var pionKaon = map[pdg.ID]bool{
	pdg.PiPlus: true, pdg.KPlus: true, pdg.ErrorID: true, pdg.KLong: true, pdg.KShort: true,
}

// LifetimeLimit is the primary rule: a particle is prompt when it has a
// mother and either the mother lives at most limit ns and is a direct
// (|delta| <= 1, not a resonance) or charm (delta == 30) decay, or the
// mother is a muon and the particle is from generation < 3.
func LifetimeLimit(c *lineage.Columns, limit float64) []bool {
	short := column.Apply(c.MotherLifetime, func(l float64) bool { return l <= limit })
	direct := column.And(
		column.Apply(c.GenerationDelta, func(d int) bool { return d >= -1 && d <= 1 }),
		column.Not(c.MotherIsResonance),
	)
	charm := column.And(
		column.Apply(c.GenerationDelta, func(d int) bool { return d == 30 }),
		c.MotherHasCharm,
	)
	muon := column.And(
		column.Apply(c.MotherPDG, func(id pdg.ID) bool { return id.Abs() == pdg.MuMinus }),
		column.Apply(c.HadronGen, func(g int) bool { return g < 3 }),
	)
	return column.And(c.HasMother, column.Or(column.And(short, column.Or(direct, charm)), muon))
}

// Cleaned are the cleaned-mother attributes.
type Cleaned struct {
	Lifetime []float64 // sentinel -> +Inf, undefined -> 0
	Mass     []float64 // sentinel or unknown -> 0
	Energy   []float64 // +Inf where the cleaned mother is the sentinel
}

// Classifier evaluates the alternative rules over one set of lineage
// columns. The cleaned attributes are derived on first use.
type Classifier struct {
	c       *lineage.Columns
	cleaned *Cleaned
}

func New(c *lineage.Columns) *Classifier { return &Classifier{c: c} }

// Cleaned returns the cached cleaned-mother columns.
func (k *Classifier) Cleaned() *Cleaned {
	if k.cleaned == nil {
		ids := k.c.MotherPDGCleaned
		k.cleaned = &Cleaned{
			Lifetime: column.Lookup(ids, pdg.Lifetime),
			Mass:     column.Lookup(ids, pdg.Mass),
			Energy: column.Fill(k.c.MotherEnergy,
				column.Apply(ids, func(id pdg.ID) bool { return id == pdg.ErrorID }), math.Inf(1)),
		}
	}
	return k.cleaned
}

// LifetimeLimit applies the primary rule.
func (k *Classifier) LifetimeLimit(limit float64) []bool { return LifetimeLimit(k.c, limit) }

// LifetimeLimitCleaned is prompt when the cleaned mother lives less than
// limit ns.
func (k *Classifier) LifetimeLimitCleaned(limit float64) []bool {
	return column.Apply(k.Cleaned().Lifetime, func(l float64) bool { return l < limit })
}

// Energy is prompt when the cleaned mother decays before it can interact:
// E < C*m/tau/s.
func (k *Classifier) Energy(s float64) []bool {
	cl := k.Cleaned()
	return energyRule(cl.Energy, cl.Mass, cl.Lifetime, s)
}

// EnergyUncleaned is Energy on the raw mother columns.
func (k *Classifier) EnergyUncleaned(s float64) []bool {
	return energyRule(k.c.MotherEnergy, k.c.MotherMass, k.c.MotherLifetime, s)
}

func energyRule(energy, mass, lifetime []float64, s float64) []bool {
	out := make([]bool, len(energy))
	for i := range out {
		out[i] = energy[i] < EnergyConversion*mass[i]/lifetime[i]/s
	}
	return out
}

// PionKaon is prompt when the cleaned mother is neither a pion nor a kaon.
func (k *Classifier) PionKaon() []bool { return notPionKaon(k.c.MotherPDGCleaned) }

// PionKaonGrandmother additionally requires a grandmother outside the set.
func (k *Classifier) PionKaonGrandmother() []bool {
	return column.And(notPionKaon(k.c.MotherPDGCleaned), notPionKaon(k.c.GrandmotherPDG))
}

// PionKaonUncleaned applies the species rule to the raw mother.
func (k *Classifier) PionKaonUncleaned() []bool { return notPionKaon(k.c.MotherPDG) }

func notPionKaon(ids []pdg.ID) []bool {
	return column.Apply(ids, func(id pdg.ID) bool { return !pionKaon[id.Abs()] })
}
