// Package pdg maps PDG Monte-Carlo particle codes to the handful of physical
// properties the shower tables need: mass, lifetime, quark content and
// resonance tagging, read from the go-hep particle data table. Unknown codes
// never error; every accessor has a documented fallback so columnar code can
// stay branch-free.
//
// Units: masses in GeV, lifetimes in ns.
package pdg

import (
	"math"
	"strings"

	"go-hep.org/x/hep/heppdt"
)

// ID is a PDG Monte-Carlo particle code.
type ID int

// ErrorID is the sentinel for "species unknown".
const ErrorID ID = 0

// Frequently used codes.
const (
	Gamma           ID = 22
	Electron        ID = 11
	Positron        ID = -11
	MuMinus         ID = 13
	MuPlus          ID = -13
	Pi0             ID = 111
	PiPlus          ID = 211
	PiMinus         ID = -211
	KPlus           ID = 321
	KLong           ID = 130
	KShort          ID = 310
	Neutron         ID = 2112
	Proton          ID = 2212
	D0              ID = 421
	HydrogenNucleus ID = 1000010010
)

// D0Lifetime is the D0 mean lifetime in ns.
var D0Lifetime = Lifetime(D0)

// Abs returns |id|.
func (id ID) Abs() ID {
	if id < 0 {
		return -id
	}
	return id
}

// IsNucleus reports whether id denotes a nucleus. Free protons and neutrons
// count as nuclei (A=1).
func (id ID) IsNucleus() bool {
	return id.Abs() == Neutron || heppdt.PID(id).IsNucleus()
}

// Z is the atomic number of a nucleus (0 otherwise).
func (id ID) Z() int {
	if !id.IsNucleus() {
		return 0
	}
	return heppdt.PID(id).Z()
}

// A is the nucleon number of a nucleus (0 otherwise).
func (id ID) A() int {
	switch {
	case id.Abs() == Neutron:
		return 1
	case !id.IsNucleus():
		return 0
	}
	return heppdt.PID(id).A()
}

// IsLepton reports charged leptons and neutrinos.
func (id ID) IsLepton() bool {
	return heppdt.PID(id).IsLepton()
}

// Nucleus builds the PDG code 100ZZZAAA0. Z=1, A=1 yields HydrogenNucleus.
func Nucleus(z, a int) ID {
	return ID(1000000000 + z*10000 + a*10)
}

// The table stores either a total width in GeV or, for long-lived species,
// c*tau in mm, which the go-hep parser turns into a pseudo width hbar/(c*tau).
// Real widths in the table are all above 1e-6 GeV and pseudo widths all
// below 1e-16, so widthFloor tells them apart.
const (
	widthFloor = 1e-12
	cMMPerNS   = 299.792458
)

// particle finds id, falling back to the particle entry for
// self-conjugate codes. Hydrogen nuclei fold onto the proton.
func particle(id ID) *heppdt.Particle {
	if id == ErrorID {
		return nil
	}
	if id.Abs() == HydrogenNucleus {
		id = Proton
	}
	if p := heppdt.ParticleByID(heppdt.PID(id)); p != nil {
		return p
	}
	if id < 0 {
		return heppdt.ParticleByID(heppdt.PID(-id))
	}
	return nil
}

// Known reports whether id has an entry in the particle table.
func Known(id ID) bool { return particle(id) != nil }

// Name returns the particle table name. Unknown codes return "".
func Name(id ID) string {
	p := particle(id)
	if p == nil {
		return ""
	}
	return p.Name
}

// Mass returns the mass in GeV, 0 for the sentinel and for species without
// a known mass.
func Mass(id ID) float64 {
	p := particle(id)
	if p == nil {
		return 0
	}
	return p.Mass
}

// Lifetime returns the mean lifetime in ns. The sentinel maps to +Inf
// (never decays); species whose lifetime is undefined, including codes
// missing from the table, map to 0 (decays instantly). Untabulated nuclei
// are treated as stable.
func Lifetime(id ID) float64 {
	if id == ErrorID {
		return math.Inf(1)
	}
	p := particle(id)
	if p == nil {
		if id.IsNucleus() {
			return math.Inf(1)
		}
		return 0
	}
	res := &p.Resonance
	switch w := res.Width.Value; {
	case w < 0:
		return 0
	case w == 0:
		return math.Inf(1)
	case w < widthFloor:
		return res.Lifetime().Value / cMMPerNS
	}
	return res.Lifetime().Value * 1e9
}

// HasCharm reports whether any quark digit of id is a charm quark.
func HasCharm(id ID) bool {
	if id == ErrorID || id.IsNucleus() {
		return false
	}
	return heppdt.PID(id).HasCharm()
}

// IsResonance reports whether the species' table name is tagged with "*".
func IsResonance(id ID) bool {
	return strings.Contains(Name(id), "*")
}
