// Package config holds the simulator runner configuration. Values are
// layered: built-in defaults, then the CORSIKA_PATH and TMP_DIR environment
// variables, then an optional YAML file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrConfig marks an unusable runner configuration.
var ErrConfig = errors.New("config: invalid runner configuration")

const (
	DefaultTmpDir  = "/tmp/PANAMA"
	DefaultShowers = 100
	DefaultJobs    = 4
	DefaultOutput  = "./corsika_output/"
)

// Primary requests Showers air showers started by the PDG species.
type Primary struct {
	PDG     int `yaml:"pdg"`
	Showers int `yaml:"showers"`
}

// Runner configures a parallel simulator run.
type Runner struct {
	Corsika          string    `yaml:"corsika"`
	TmpDir           string    `yaml:"tmp_dir"`
	Output           string    `yaml:"output"`
	Template         string    `yaml:"template"`
	Jobs             int       `yaml:"jobs"`
	Seed             *int64    `yaml:"seed,omitempty"`
	SaveStdout       bool      `yaml:"save_stdout"`
	FirstRunNumber   int       `yaml:"first_run_number"`
	FirstEventNumber int       `yaml:"first_event_number"`
	Primaries        []Primary `yaml:"primaries"`
}

// Default returns the built-in defaults with the environment applied.
func Default() *Runner { return DefaultFrom(os.Getenv) }

// DefaultFrom is Default with an explicit environment lookup.
func DefaultFrom(getenv func(string) string) *Runner {
	r := &Runner{
		Corsika:          filepath.Join(getenv("HOME"), "corsika7-master", "run", "corsika77420Linux_SIBYLL_urqmd"),
		TmpDir:           DefaultTmpDir,
		Output:           DefaultOutput,
		Jobs:             DefaultJobs,
		FirstEventNumber: 1,
		Primaries:        []Primary{{PDG: 2212, Showers: DefaultShowers}},
	}
	if v := getenv("CORSIKA_PATH"); v != "" {
		r.Corsika = v
	}
	if v := getenv("TMP_DIR"); v != "" {
		r.TmpDir = v
	}
	return r
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Runner, error) {
	r := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrConfig, path, err)
	}
	return r, nil
}

// Save writes the configuration as YAML.
func (r *Runner) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the fields the runner cannot start without.
func (r *Runner) Validate() error {
	switch {
	case r.Template == "":
		return fmt.Errorf("%w: a steering card template is required", ErrConfig)
	case r.Corsika == "":
		return fmt.Errorf("%w: the simulator executable is required", ErrConfig)
	case r.Jobs < 1:
		return fmt.Errorf("%w: jobs must be >= 1", ErrConfig)
	case len(r.Primaries) == 0:
		return fmt.Errorf("%w: at least one primary is required", ErrConfig)
	}
	seen := make(map[int]bool, len(r.Primaries))
	for _, p := range r.Primaries {
		if seen[p.PDG] {
			return fmt.Errorf("%w: primary %d listed twice", ErrConfig, p.PDG)
		}
		seen[p.PDG] = true
		if p.Showers < 1 {
			return fmt.Errorf("%w: primary %d needs at least one shower", ErrConfig, p.PDG)
		}
	}
	return nil
}

// UniqueTmpDir gives the default temporary directory a per-run suffix so
// concurrent runs do not share it. Explicit directories are kept.
func (r *Runner) UniqueTmpDir() {
	if r.TmpDir == DefaultTmpDir {
		r.TmpDir = DefaultTmpDir + "_" + uuid.NewString()[:8]
	}
}

// ParsePrimaries parses "PDG=SHOWERS" or bare "PDG" values; a bare id gets
// showers.
func ParsePrimaries(values []string, showers int) ([]Primary, error) {
	out := make([]Primary, 0, len(values))
	for _, v := range values {
		id, n, found := strings.Cut(v, "=")
		p := Primary{Showers: showers}
		var err error
		if p.PDG, err = strconv.Atoi(strings.TrimSpace(id)); err != nil {
			return nil, fmt.Errorf("%w: bad primary %q", ErrConfig, v)
		}
		if found {
			if p.Showers, err = strconv.Atoi(strings.TrimSpace(n)); err != nil {
				return nil, fmt.Errorf("%w: bad shower count in %q", ErrConfig, v)
			}
		}
		out = append(out, p)
	}
	return out, nil
}
