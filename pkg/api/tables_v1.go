// pkg/api/tables_v1.go
package api

// Table names carried in the "table" field of every JSONL row.
const (
	TableRuns      = "runs"
	TableEvents    = "events"
	TableParticles = "particles"
	TableWeights   = "weights"
	TableSpectrum  = "spectrum"
	TableFlux      = "flux"
)

// RunV1 is the stable JSON/JSONL schema of one run table row.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type RunV1 struct {
	Table              string  `json:"table"`
	RunNumber          int     `json:"run_number"`
	Date               int     `json:"date"`
	Version            float64 `json:"version"`
	NObservationLevels int     `json:"n_observation_levels"`
	ObservationHeight  float64 `json:"observation_height"`
	Slope              float64 `json:"energy_spectrum_slope"`
	EnergyMin          float64 `json:"energy_min"`
	EnergyMax          float64 `json:"energy_max"`
	CutoffHadrons      float64 `json:"energy_cutoff_hadrons"`
	CutoffMuons        float64 `json:"energy_cutoff_muons"`
	CutoffElectrons    float64 `json:"energy_cutoff_electrons"`
	CutoffPhotons      float64 `json:"energy_cutoff_photons"`
	NShowers           int     `json:"n_showers"`
}

// EventV1 is the stable schema of one event table row. Weight is set only
// when a flux model was requested.
type EventV1 struct {
	Table                  string   `json:"table"`
	RunNumber              int      `json:"run_number"`
	EventNumber            int      `json:"event_number"`
	ParticleID             int      `json:"particle_id"`
	TotalEnergy            float64  `json:"total_energy"`
	StartingAltitude       float64  `json:"starting_altitude"`
	FirstInteractionHeight float64  `json:"first_interaction_height"`
	Px                     float64  `json:"px"`
	Py                     float64  `json:"py"`
	Pz                     float64  `json:"pz"`
	Zenith                 float64  `json:"zenith"`
	Azimuth                float64  `json:"azimuth"`
	LowEnergyModel         int      `json:"low_energy_model"`
	HighEnergyModel        int      `json:"high_energy_model"`
	Weight                 *float64 `json:"flux_weight,omitempty"`
}

// ParticleV1 is the stable schema of one particle table row. Derived and
// ancestry columns are present only when they were computed. Mother
// energies and masses without a valid mother are omitted.
type ParticleV1 struct {
	Table          string  `json:"table"`
	RunNumber      int     `json:"run_number"`
	EventNumber    int     `json:"event_number"`
	ParticleNumber int     `json:"particle_number"`
	Description    int     `json:"particle_description"`
	Px             float64 `json:"px"`
	Py             float64 `json:"py"`
	Pz             float64 `json:"pz"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	T              float64 `json:"t"`
	Weight         float64 `json:"weight"`

	CorsikaID *int     `json:"corsika_id,omitempty"`
	HadronGen *int     `json:"hadron_gen,omitempty"`
	ObsLevel  *int     `json:"obs_level,omitempty"`
	IsMother  *bool    `json:"is_mother,omitempty"`
	PDGID     *int     `json:"pdgid,omitempty"`
	Mass      *float64 `json:"mass,omitempty"`
	Energy    *float64 `json:"energy,omitempty"`
	Zenith    *float64 `json:"zenith,omitempty"`

	HasMother        *bool    `json:"has_mother,omitempty"`
	MotherHadrGen    *int     `json:"mother_hadr_gen,omitempty"`
	MotherPDGID      *int     `json:"mother_pdgid,omitempty"`
	MotherEnergy     *float64 `json:"mother_energy,omitempty"`
	MotherMass       *float64 `json:"mother_mass,omitempty"`
	GrandmotherPDGID *int     `json:"grandmother_pdgid,omitempty"`
	MotherPDGCleaned *int     `json:"mother_pdgid_cleaned,omitempty"`
	IsPrompt         *bool    `json:"is_prompt,omitempty"`
}

// WeightV1 is one row of the weights output. Weight is null where the
// event matches no simulated energy range.
type WeightV1 struct {
	Table       string   `json:"table"`
	RunNumber   int      `json:"run_number"`
	EventNumber int      `json:"event_number"`
	ParticleID  int      `json:"particle_id"`
	TotalEnergy float64  `json:"total_energy"`
	Weight      *float64 `json:"weight"`
}

// BinV1 is one histogram bin of the spectrum output, in log10(E/GeV).
type BinV1 struct {
	Table   string  `json:"table"`
	Low     float64 `json:"log10_energy_low"`
	High    float64 `json:"log10_energy_high"`
	Entries int     `json:"entries"`
	Value   float64 `json:"value"`
	Error   float64 `json:"error"`
}

// FluxV1 is one evaluated flux point in 1/(m^2 s sr GeV). Flux is null
// outside the model's tabulated range.
type FluxV1 struct {
	Table  string   `json:"table"`
	Model  string   `json:"model"`
	PDGID  int      `json:"pdgid"`
	Energy float64  `json:"energy"`
	Flux   *float64 `json:"flux"`
}

// Finite returns a pointer to v, or nil for NaN and infinities, which JSON
// cannot carry.
func Finite(v float64) *float64 {
	if v != v || v > maxFloat || v < -maxFloat {
		return nil
	}
	return &v
}

const maxFloat = 1.7976931348623157e308
