// Package corsika reads and writes CORSIKA 7 particle output ("DAT" files):
// Fortran unformatted records of 21 sub-blocks of 273 float32 words, or 312
// words when thinning is enabled.
package corsika

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrFormat marks input that is not a CORSIKA 7 particle file.
var ErrFormat = errors.New("corsika: malformed particle file")

const (
	SubblocksPerRecord = 21
	WordsPlain         = 273
	WordsThinned       = 312

	particlesPerSubblock = 39
)

// Sub-block tags, the first word of each header sub-block read as ASCII.
const (
	tagRUNH = "RUNH"
	tagEVTH = "EVTH"
	tagLONG = "LONG"
	tagEVTE = "EVTE"
	tagRUNE = "RUNE"
)

func tagWord(tag string) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32([]byte(tag)))
}

func wordTag(w float32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(w))
	return string(b[:])
}

// Energy cutoffs in GeV.
type Cutoffs struct {
	Hadron, Muon, Electron, Photon float64
}

// RunHeader is the RUNH sub-block.
type RunHeader struct {
	RunNumber          int
	Date               int
	Version            float64
	NObservationLevels int
	ObservationHeights [10]float64 // cm
	Slope              float64
	EnergyMin          float64 // GeV
	EnergyMax          float64 // GeV
	EGS4               bool
	NKG                bool
	Cutoffs            Cutoffs
	NShowers           int
}

// EventHeader is the EVTH sub-block.
type EventHeader struct {
	EventNumber            int
	ParticleID             int // CORSIKA code of the primary
	TotalEnergy            float64
	StartingAltitude       float64 // g/cm^2
	FirstTarget            int
	FirstInteractionHeight float64 // cm
	Px, Py, Pz             float64 // GeV
	Zenith, Azimuth        float64 // rad
	NRandomSequences       int
	Seeds                  [10][3]int
	RunNumber              int
	Date                   int
	Version                float64
	NObservationLevels     int
	ObservationHeights     [10]float64
	Slope                  float64
	EnergyMin, EnergyMax   float64
	Cutoffs                Cutoffs
	LowEnergyModel         int
	HighEnergyModel        int
}

// EventEnd is the EVTE sub-block. Counts are weighted when thinned.
type EventEnd struct {
	EventNumber int
	Photons     float64
	Electrons   float64
	Hadrons     float64
	Muons       float64
	Particles   float64
}

// RunEnd is the RUNE sub-block.
type RunEnd struct {
	RunNumber int
	NEvents   int
}

// Particle is one row of a particle data sub-block. Description packs the
// CORSIKA id, hadronic generation and observation level; it is negative for
// EHIST mother and grandmother rows.
type Particle struct {
	Description int
	Px, Py, Pz  float64 // GeV
	X, Y        float64 // cm
	T           float64 // ns
	Weight      float64 // thinning weight, 1 when not thinned
}

// Event groups a shower header, its particles and the end block.
type Event struct {
	Header    EventHeader
	Particles []Particle
	End       EventEnd
}

// Run is one simulator run as stored in a single file.
type Run struct {
	Header RunHeader
	Events []Event
	End    RunEnd
}

func iw(w float32) int { return int(math.Round(float64(w))) }

func decodeCutoffs(w []float32) Cutoffs {
	return Cutoffs{float64(w[0]), float64(w[1]), float64(w[2]), float64(w[3])}
}

func encodeCutoffs(w []float32, c Cutoffs) {
	w[0], w[1], w[2], w[3] = float32(c.Hadron), float32(c.Muon), float32(c.Electron), float32(c.Photon)
}

func decodeRunHeader(w []float32) RunHeader {
	h := RunHeader{
		RunNumber:          iw(w[1]),
		Date:               iw(w[2]),
		Version:            float64(w[3]),
		NObservationLevels: iw(w[4]),
		Slope:              float64(w[15]),
		EnergyMin:          float64(w[16]),
		EnergyMax:          float64(w[17]),
		EGS4:               w[18] != 0,
		NKG:                w[19] != 0,
		Cutoffs:            decodeCutoffs(w[20:24]),
		NShowers:           iw(w[92]),
	}
	for i := range h.ObservationHeights {
		h.ObservationHeights[i] = float64(w[5+i])
	}
	return h
}

func encodeRunHeader(w []float32, h RunHeader) {
	w[0] = tagWord(tagRUNH)
	w[1] = float32(h.RunNumber)
	w[2] = float32(h.Date)
	w[3] = float32(h.Version)
	w[4] = float32(h.NObservationLevels)
	for i, v := range h.ObservationHeights {
		w[5+i] = float32(v)
	}
	w[15] = float32(h.Slope)
	w[16] = float32(h.EnergyMin)
	w[17] = float32(h.EnergyMax)
	w[18] = boolWord(h.EGS4)
	w[19] = boolWord(h.NKG)
	encodeCutoffs(w[20:24], h.Cutoffs)
	w[92] = float32(h.NShowers)
}

func decodeEventHeader(w []float32) EventHeader {
	h := EventHeader{
		EventNumber:            iw(w[1]),
		ParticleID:             iw(w[2]),
		TotalEnergy:            float64(w[3]),
		StartingAltitude:       float64(w[4]),
		FirstTarget:            iw(w[5]),
		FirstInteractionHeight: float64(w[6]),
		Px:                     float64(w[7]),
		Py:                     float64(w[8]),
		Pz:                     -float64(w[9]),
		Zenith:                 float64(w[10]),
		Azimuth:                float64(w[11]),
		NRandomSequences:       iw(w[12]),
		RunNumber:              iw(w[43]),
		Date:                   iw(w[44]),
		Version:                float64(w[45]),
		NObservationLevels:     iw(w[46]),
		Slope:                  float64(w[57]),
		EnergyMin:              float64(w[58]),
		EnergyMax:              float64(w[59]),
		Cutoffs:                decodeCutoffs(w[60:64]),
		LowEnergyModel:         iw(w[74]),
		HighEnergyModel:        iw(w[75]),
	}
	for i := range h.Seeds {
		for j := range h.Seeds[i] {
			h.Seeds[i][j] = iw(w[13+3*i+j])
		}
	}
	for i := range h.ObservationHeights {
		h.ObservationHeights[i] = float64(w[47+i])
	}
	return h
}

func encodeEventHeader(w []float32, h EventHeader) {
	w[0] = tagWord(tagEVTH)
	w[1] = float32(h.EventNumber)
	w[2] = float32(h.ParticleID)
	w[3] = float32(h.TotalEnergy)
	w[4] = float32(h.StartingAltitude)
	w[5] = float32(h.FirstTarget)
	w[6] = float32(h.FirstInteractionHeight)
	w[7] = float32(h.Px)
	w[8] = float32(h.Py)
	w[9] = float32(-h.Pz)
	w[10] = float32(h.Zenith)
	w[11] = float32(h.Azimuth)
	w[12] = float32(h.NRandomSequences)
	for i := range h.Seeds {
		for j := range h.Seeds[i] {
			w[13+3*i+j] = float32(h.Seeds[i][j])
		}
	}
	w[43] = float32(h.RunNumber)
	w[44] = float32(h.Date)
	w[45] = float32(h.Version)
	w[46] = float32(h.NObservationLevels)
	for i, v := range h.ObservationHeights {
		w[47+i] = float32(v)
	}
	w[57] = float32(h.Slope)
	w[58] = float32(h.EnergyMin)
	w[59] = float32(h.EnergyMax)
	encodeCutoffs(w[60:64], h.Cutoffs)
	w[74] = float32(h.LowEnergyModel)
	w[75] = float32(h.HighEnergyModel)
}

func decodeEventEnd(w []float32) EventEnd {
	return EventEnd{
		EventNumber: iw(w[1]),
		Photons:     float64(w[2]),
		Electrons:   float64(w[3]),
		Hadrons:     float64(w[4]),
		Muons:       float64(w[5]),
		Particles:   float64(w[6]),
	}
}

func encodeEventEnd(w []float32, e EventEnd) {
	w[0] = tagWord(tagEVTE)
	w[1] = float32(e.EventNumber)
	w[2] = float32(e.Photons)
	w[3] = float32(e.Electrons)
	w[4] = float32(e.Hadrons)
	w[5] = float32(e.Muons)
	w[6] = float32(e.Particles)
}

func decodeRunEnd(w []float32) RunEnd {
	return RunEnd{RunNumber: iw(w[1]), NEvents: iw(w[2])}
}

func encodeRunEnd(w []float32, e RunEnd) {
	w[0] = tagWord(tagRUNE)
	w[1] = float32(e.RunNumber)
	w[2] = float32(e.NEvents)
}

// decodeParticles appends the non-padding rows of a data sub-block.
func decodeParticles(dst []Particle, w []float32, thinned bool) []Particle {
	stride := 7
	if thinned {
		stride = 8
	}
	for k := 0; k+stride <= len(w); k += stride {
		r := w[k : k+stride]
		if r[0] == 0 {
			continue
		}
		p := Particle{
			Description: iw(r[0]),
			Px:          float64(r[1]),
			Py:          float64(r[2]),
			Pz:          float64(r[3]),
			X:           float64(r[4]),
			Y:           float64(r[5]),
			T:           float64(r[6]),
			Weight:      1,
		}
		if thinned {
			p.Weight = float64(r[7])
		}
		dst = append(dst, p)
	}
	return dst
}

func encodeParticles(w []float32, ps []Particle, thinned bool) {
	stride := 7
	if thinned {
		stride = 8
	}
	for i, p := range ps {
		r := w[i*stride : (i+1)*stride]
		r[0] = float32(p.Description)
		r[1] = float32(p.Px)
		r[2] = float32(p.Py)
		r[3] = float32(p.Pz)
		r[4] = float32(p.X)
		r[5] = float32(p.Y)
		r[6] = float32(p.T)
		if thinned {
			r[7] = float32(p.Weight)
		}
	}
}

func boolWord(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
