// Package flux evaluates differential particle fluxes in 1/(m^2 s sr GeV).
//
// A Model wraps one Evaluator variant (broken power law, Hillas-Gaisser
// composite, Global Spline Fit, muon parametrisation) and adds the shared
// behaviour: species validation, proton alias resolution, totals and the
// proton/neutron decomposition used for weighting.
package flux

import (
	"errors"
	"fmt"

	"panama-core/pdg"
)

var (
	// ErrConfig marks invalid model parameters.
	ErrConfig = errors.New("flux: invalid configuration")
	// ErrInvalidSpecies is returned by Flux for species outside the model.
	ErrInvalidSpecies = errors.New("flux: invalid species")
)

// CmToM2 converts per-cm^2 tables to per-m^2.
const CmToM2 = 10_000

// Evaluator is the per-variant flux kernel. Eval is only called with ids
// from Valid.
type Evaluator interface {
	Valid() []pdg.ID
	Eval(id pdg.ID, e float64) float64
}

// Model is an immutable flux model.
type Model struct {
	name  string
	ev    Evaluator
	valid map[pdg.ID]bool
}

// New wraps an evaluator without restricting its species.
func New(name string, ev Evaluator) *Model {
	m := &Model{name: name, ev: ev, valid: make(map[pdg.ID]bool)}
	for _, id := range ev.Valid() {
		m.valid[id] = true
	}
	return m
}

// NewCosmicRay wraps an evaluator whose species must all be nuclei or e±.
func NewCosmicRay(name string, ev Evaluator) (*Model, error) {
	for _, id := range ev.Valid() {
		if !id.IsNucleus() && id != pdg.Electron && id != pdg.Positron {
			return nil, fmt.Errorf("%w: %s (pdgid %d) is not a cosmic ray", ErrConfig, pdg.Name(id), id)
		}
	}
	return New(name, ev), nil
}

// Name is the registry name of the model.
func (m *Model) Name() string { return m.name }

// Valid lists the model species in evaluation order.
func (m *Model) Valid() []pdg.ID {
	v := m.ev.Valid()
	out := make([]pdg.ID, len(v))
	copy(out, v)
	return out
}

// IsValid reports whether id, after alias resolution, belongs to the model.
func (m *Model) IsValid(id pdg.ID) bool {
	return m.valid[m.resolve(id)]
}

// Evaluator exposes the underlying variant.
func (m *Model) Evaluator() Evaluator { return m.ev }

// resolve substitutes the other proton code when only one alias is valid.
func (m *Model) resolve(id pdg.ID) pdg.ID {
	switch {
	case id == pdg.Proton && !m.valid[id] && m.valid[pdg.HydrogenNucleus]:
		return pdg.HydrogenNucleus
	case id == pdg.HydrogenNucleus && !m.valid[id] && m.valid[pdg.Proton]:
		return pdg.Proton
	}
	return id
}

// Flux evaluates the flux of one species at every energy. With check set,
// species outside the model yield ErrInvalidSpecies; otherwise they get a
// zero column of the same length.
func (m *Model) Flux(id pdg.ID, energies []float64, check bool) ([]float64, error) {
	id = m.resolve(id)
	out := make([]float64, len(energies))
	if !m.valid[id] {
		if check {
			return nil, fmt.Errorf("%w: pdgid %d (%s) not valid for model %s; pass check=false to get zero flux for invalid species",
				ErrInvalidSpecies, id, pdg.Name(id), m.name)
		}
		return out, nil
	}
	for i, e := range energies {
		out[i] = m.ev.Eval(id, e)
	}
	return out, nil
}

// TotalFlux sums the flux of every valid species.
func (m *Model) TotalFlux(energies []float64) []float64 {
	out := make([]float64, len(energies))
	for _, id := range m.ev.Valid() {
		for i, e := range energies {
			out[i] += m.ev.Eval(id, e)
		}
	}
	return out
}

// TotalProtonAndNeutronFlux splits the nuclear flux into its proton and
// neutron content. The flux of a nucleus is differential in the total
// energy, so the per-nucleon flux at E is A*flux(A*E). Leptons contribute
// nothing.
func (m *Model) TotalProtonAndNeutronFlux(energies []float64) (proton, neutron []float64) {
	proton = make([]float64, len(energies))
	neutron = make([]float64, len(energies))
	for _, id := range m.ev.Valid() {
		if id.IsLepton() || !id.IsNucleus() {
			continue
		}
		a, z := float64(id.A()), float64(id.Z())
		for i, e := range energies {
			nucleon := a * m.ev.Eval(id, e*a)
			proton[i] += z * nucleon
			neutron[i] += (a - z) * nucleon
		}
	}
	return proton, neutron
}
