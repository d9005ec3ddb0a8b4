// Package fixture synthesizes small simulator output files for tests.
package fixture

import (
	"os"

	"panama-core/corsika"
)

// Energy range and slope of every fixture run.
const (
	Slope     = -1
	EnergyMin = 1e3
	EnergyMax = 1e5
)

// Every event holds an EHIST pi+ -> mu- triple, an EHIST D0 -> mu+ triple,
// a photon, an additional-muon-information row and one padding row.
const (
	// RowsPerEvent counts the rows left once padding is skipped.
	RowsPerEvent = 8
	// KeptPerEvent counts the rows surviving the default filters.
	KeptPerEvent = 3
	// Prompt is the unfiltered row of each event holding the muon from the
	// charmed decay.
	Prompt = 5
)

func ehist(motherCID, motherGen, daughterCID, daughterGen int, pz float64) []corsika.Particle {
	return []corsika.Particle{
		{Description: -(motherCID*1000 + motherGen), Pz: 10 * pz, Weight: 1},
		{Description: -(14*1000 + motherGen - 1), Pz: 100 * pz, Weight: 1},
		{Description: daughterCID*1000 + daughterGen*10 + 1, Px: 3, Pz: pz, Weight: 1},
	}
}

// Run builds run number with one event per energy, all started by primary
// (a CORSIKA code).
func Run(number, primary int, energies ...float64) corsika.Run {
	r := corsika.Run{
		Header: corsika.RunHeader{
			RunNumber: number, Date: 240101, Version: 7.74, NObservationLevels: 1,
			Slope: Slope, EnergyMin: EnergyMin, EnergyMax: EnergyMax, EGS4: true,
			Cutoffs:  corsika.Cutoffs{Hadron: 3, Muon: 3, Electron: 0.5, Photon: 0.5},
			NShowers: len(energies),
		},
		End: corsika.RunEnd{RunNumber: number, NEvents: len(energies)},
	}
	r.Header.ObservationHeights[0] = 280000
	for i, e := range energies {
		ev := corsika.Event{
			Header: corsika.EventHeader{
				EventNumber: i + 1, ParticleID: primary, TotalEnergy: e, Pz: e,
				RunNumber: number, Slope: Slope, EnergyMin: EnergyMin, EnergyMax: EnergyMax,
				NRandomSequences: 2, LowEnergyModel: 3, HighEnergyModel: 5,
			},
			End: corsika.EventEnd{EventNumber: i + 1, Muons: 2, Particles: 3},
		}
		ev.Particles = append(ev.Particles, ehist(8, 4, 6, 5, 4)...)
		ev.Particles = append(ev.Particles, ehist(116, 2, 5, 32, 20)...)
		ev.Particles = append(ev.Particles,
			corsika.Particle{Description: 1001, Pz: 2, Weight: 1},
			corsika.Particle{Description: 75001, Pz: 2, Weight: 1},
			corsika.Particle{},
		)
		r.Events = append(r.Events, ev)
	}
	return r
}

// WriteDAT writes runs to path in the simulator's record layout.
func WriteDAT(path string, thinned bool, runs ...corsika.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := corsika.NewWriter(f, thinned)
	for _, r := range runs {
		if err := w.WriteRun(r); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
