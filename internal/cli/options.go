// internal/cli/options.go
package cli

import (
	"github.com/spf13/pflag"

	"panama-core/pdg"
	"panama-core/table"

	"panama/internal/clibase"
	"panama/internal/config"
)

// Output formats per command.
var (
	TableFormats  = []string{"tsv", "jsonl", "json", "sqlite"}
	StreamFormats = []string{"tsv", "jsonl", "json"}
)

// Table selection of convert.
const TableAll = "all"

// ConvertOptions converts DAT files into run, event and particle tables.
type ConvertOptions struct {
	clibase.Common
	Table string

	NoAdditional     bool
	MotherColumns    bool
	KeepMothers      bool
	KeepNonParticles bool
	LifetimeLimit    float64

	Weighting
}

func (o *ConvertOptions) Register(fs *pflag.FlagSet) {
	clibase.Register(fs, &o.Common, TableFormats)
	fs.StringVar(&o.Table, "table", TableAll, "tables to write: runs | events | particles | all (stream formats)")
	fs.BoolVar(&o.NoAdditional, "no-additional-columns", false, "skip the derived species and kinematic columns")
	fs.BoolVar(&o.MotherColumns, "mother-columns", false, "reconstruct EHIST ancestry and is_prompt")
	fs.BoolVar(&o.KeepMothers, "keep-mothers", false, "keep the EHIST mother marker rows")
	fs.BoolVar(&o.KeepNonParticles, "keep-non-particles", false, "keep rows without a PDG id (additional muon info, nuclei fragments)")
	fs.Float64Var(&o.LifetimeLimit, "lifetime-limit", 0, "is_prompt mother lifetime limit in ns (0=D0 lifetime)")
	o.Weighting.Register(fs, "")
}

// TableOptions maps the flags onto the builder options.
func (o *ConvertOptions) TableOptions() table.Options {
	return table.Options{
		AdditionalColumns: !o.NoAdditional,
		MotherColumns:     o.MotherColumns,
		DropMothers:       !o.KeepMothers,
		DropNonParticles:  !o.KeepNonParticles && !o.NoAdditional,
		MaxEvents:         o.MaxEvents,
		LifetimeLimit:     o.LifetimeLimit,
	}
}

// Select lists the tables to write.
func (o *ConvertOptions) Select() []string {
	if o.Table == TableAll {
		return nil
	}
	return []string{o.Table}
}

func (o *ConvertOptions) Validate(posArgs []string) error {
	if err := clibase.AfterParse(&o.Common, posArgs, TableFormats); err != nil {
		return err
	}
	switch o.Table {
	case TableAll, table.NameRuns, table.NameEvents, table.NameParticles:
	default:
		return clibase.Usagef("invalid --table %q", o.Table)
	}
	if o.Format == "sqlite" && o.Out == "-" {
		return clibase.Usagef("--format sqlite needs --out <file>")
	}
	if o.NoAdditional && o.MotherColumns {
		return clibase.Usagef("--mother-columns requires the additional columns")
	}
	if o.LifetimeLimit < 0 {
		return clibase.Usagef("--lifetime-limit must be >= 0")
	}
	if !o.Enabled() && (o.ProtonOnly || len(o.Groups) > 0) {
		return clibase.Usagef("--proton-only and --group need --flux")
	}
	_, err := o.Weighting.Options()
	return err
}

// WeightsOptions computes per-event weights.
type WeightsOptions struct {
	clibase.Common
	Weighting
}

func (o *WeightsOptions) Register(fs *pflag.FlagSet) {
	clibase.Register(fs, &o.Common, StreamFormats)
	o.Weighting.Register(fs, "h3a")
}

func (o *WeightsOptions) Validate(posArgs []string) error {
	if err := clibase.AfterParse(&o.Common, posArgs, StreamFormats); err != nil {
		return err
	}
	if !o.Enabled() {
		return clibase.Usagef("--flux is required")
	}
	_, err := o.Weighting.Options()
	return err
}

// SpectrumOptions histograms the weighted primary energy.
type SpectrumOptions struct {
	WeightsOptions
	Bins       int
	LogEMin    float64
	LogEMax    float64
	Primary    int // PDG id, 0 = all
	Unweighted bool
}

func (o *SpectrumOptions) Register(fs *pflag.FlagSet) {
	o.WeightsOptions.Register(fs)
	fs.IntVar(&o.Bins, "bins", 50, "number of log10(E/GeV) bins")
	fs.Float64Var(&o.LogEMin, "log-emin", 3, "lower histogram edge, log10(E/GeV)")
	fs.Float64Var(&o.LogEMax, "log-emax", 8, "upper histogram edge, log10(E/GeV)")
	fs.IntVar(&o.Primary, "primary", 0, "only events of this PDG primary (0=all)")
	fs.BoolVar(&o.Unweighted, "unweighted", false, "histogram the simulated spectrum (every weight 1)")
}

func (o *SpectrumOptions) Validate(posArgs []string) error {
	if o.Unweighted {
		o.Model = ""
		if err := clibase.AfterParse(&o.Common, posArgs, StreamFormats); err != nil {
			return err
		}
	} else if err := o.WeightsOptions.Validate(posArgs); err != nil {
		return err
	}
	if o.Bins < 1 {
		return clibase.Usagef("--bins must be >= 1")
	}
	if !(o.LogEMin < o.LogEMax) {
		return clibase.Usagef("--log-emin must be below --log-emax")
	}
	if o.Primary != 0 {
		if _, ok := pdg.ToCorsika(pdg.ID(o.Primary)); !ok {
			return clibase.Usagef("--primary %d has no simulator code", o.Primary)
		}
	}
	return nil
}

// FluxOptions evaluates a model on a log-spaced energy grid.
type FluxOptions struct {
	clibase.Output
	Model    string
	Species  []int
	EMin     float64
	EMax     float64
	Points   int
	Total    bool
	Nucleons bool
}

func (o *FluxOptions) Register(fs *pflag.FlagSet) {
	clibase.RegisterOutput(fs, &o.Output, StreamFormats)
	fs.StringVar(&o.Model, "model", "h3a", "flux model")
	fs.IntSliceVar(&o.Species, "species", nil, "PDG ids to evaluate (default: every species of the model)")
	fs.Float64Var(&o.EMin, "emin", 1e3, "lowest energy, GeV")
	fs.Float64Var(&o.EMax, "emax", 1e9, "highest energy, GeV")
	fs.IntVar(&o.Points, "points", 61, "number of log-spaced energies")
	fs.BoolVar(&o.Total, "total", false, "add the all-species total (pdgid 0)")
	fs.BoolVar(&o.Nucleons, "nucleons", false, "add the proton and neutron decomposition (pdgid 2212, 2112)")
}

func (o *FluxOptions) Validate(posArgs []string) error {
	if len(posArgs) > 0 {
		return clibase.Usagef("flux takes no arguments")
	}
	if !(o.EMin > 0) || !(o.EMin < o.EMax) {
		return clibase.Usagef("need 0 < --emin < --emax")
	}
	if o.Points < 2 {
		return clibase.Usagef("--points must be >= 2")
	}
	return clibase.ValidateOutput(&o.Output, StreamFormats)
}

// RunOptions drives the simulator. Flags override the configuration file.
type RunOptions struct {
	Config      string
	Corsika     string
	TmpDir      string
	Output      string
	Jobs        int
	Primaries   []string
	Showers     int
	FirstRun    int
	FirstEvent  int
	Seed        int64
	SaveStdout  bool
	WriteConfig string
}

func (o *RunOptions) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Config, "config", "c", "", "YAML runner configuration")
	fs.StringVar(&o.Corsika, "corsika", "", "simulator executable (default $CORSIKA_PATH)")
	fs.StringVar(&o.TmpDir, "tmp-dir", "", "parent of the per-job working directories (default $TMP_DIR)")
	fs.StringVar(&o.Output, "output", "", "directory the simulator writes to ["+config.DefaultOutput+"]")
	fs.IntVarP(&o.Jobs, "jobs", "j", config.DefaultJobs, "parallel simulator processes")
	fs.StringArrayVarP(&o.Primaries, "primary", "p", nil, "primary PDG[=SHOWERS] (repeatable)")
	fs.IntVarP(&o.Showers, "showers", "n", config.DefaultShowers, "showers of primaries given without a count")
	fs.IntVar(&o.FirstRun, "first-run", 0, "run number of the first job")
	fs.IntVar(&o.FirstEvent, "first-event", 1, "event number of the first shower in every run")
	fs.Int64Var(&o.Seed, "seed", 0, "seed of the seed generator (default: time based)")
	fs.BoolVar(&o.SaveStdout, "save-stdout", false, "keep every job's output as prim<PDG>_job<i>.log")
	fs.StringVar(&o.WriteConfig, "write-config", "", "also save the effective configuration to this YAML file")
}

// Apply overlays the flags the user set onto cfg; changed reports whether
// a flag was given. posArgs may hold the template path.
func (o *RunOptions) Apply(cfg *config.Runner, changed func(string) bool, posArgs []string) error {
	if len(posArgs) > 1 {
		return clibase.Usagef("run takes at most one template argument")
	}
	if len(posArgs) == 1 {
		cfg.Template = posArgs[0]
	}
	if changed("corsika") {
		cfg.Corsika = o.Corsika
	}
	if changed("tmp-dir") {
		cfg.TmpDir = o.TmpDir
	}
	if changed("output") {
		cfg.Output = o.Output
	}
	if changed("jobs") || o.Config == "" {
		cfg.Jobs = o.Jobs
	}
	if changed("first-run") {
		cfg.FirstRunNumber = o.FirstRun
	}
	if changed("first-event") {
		cfg.FirstEventNumber = o.FirstEvent
	}
	if changed("seed") {
		seed := o.Seed
		cfg.Seed = &seed
	}
	if changed("save-stdout") {
		cfg.SaveStdout = o.SaveStdout
	}
	if len(o.Primaries) > 0 {
		ps, err := config.ParsePrimaries(o.Primaries, o.Showers)
		if err != nil {
			return err
		}
		cfg.Primaries = ps
	} else if changed("showers") {
		for i := range cfg.Primaries {
			cfg.Primaries[i].Showers = o.Showers
		}
	}
	if cfg.Template == "" {
		return clibase.Usagef("a steering card template is required (argument or config)")
	}
	return cfg.Validate()
}
