package flux

import (
	"math"

	"panama-core/pdg"
)

var muons = []pdg.ID{pdg.MuPlus, pdg.MuMinus}

// Gaisser, Cosmic Rays and Particle Physics (2016), eq. 6.41. Theta is the
// zenith angle in radians. High-energy form, valid for E >> 100/cos(theta).
type GaisserFlatEarthHighEnergy struct {
	Theta float64
}

func (GaisserFlatEarthHighEnergy) Valid() []pdg.ID { return muons }

func (g GaisserFlatEarthHighEnergy) Eval(_ pdg.ID, e float64) float64 {
	return gaisserHighEnergy(e, math.Cos(g.Theta))
}

func gaisserHighEnergy(e, cos float64) float64 {
	return 0.5 * CmToM2 * 0.14 * math.Pow(e, -2.7) *
		(1/(1+1.11/115*e*cos) + 0.054/(1+1.11/850*e*cos))
}

// GaisserFlatEarth extends the high-energy form with muon energy loss and
// decay in a flat atmosphere.
type GaisserFlatEarth struct {
	Theta float64
}

const (
	alphaX0   = 2    // GeV
	depthX0   = 1030 // g/cm^2
	lambdaN   = 100  // g/cm^2
	epsilonMu = 1    // GeV
	muGamma   = 2.7
)

func (GaisserFlatEarth) Valid() []pdg.ID { return muons }

func (g GaisserFlatEarth) Eval(_ pdg.ID, e float64) float64 {
	cos := math.Cos(g.Theta)
	p1 := epsilonMu / (e*cos + alphaX0)
	s := math.Pow(lambdaN*cos/depthX0, p1) *
		math.Pow(e/(e+alphaX0/cos), p1+muGamma+1) *
		math.Gamma(p1+1)
	return s * gaisserHighEnergy(e, cos)
}

// MuonHighEnergy is a model around GaisserFlatEarthHighEnergy.
func MuonHighEnergy(theta float64) *Model {
	return New("gaisser-he", GaisserFlatEarthHighEnergy{Theta: theta})
}

// Muon is a model around GaisserFlatEarth.
func Muon(theta float64) *Model {
	return New("gaisser", GaisserFlatEarth{Theta: theta})
}
