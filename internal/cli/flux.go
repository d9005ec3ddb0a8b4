// internal/cli/flux.go
package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"panama-core/flux"
	"panama-core/pdg"
	"panama-core/weights"

	"panama/internal/clibase"
)

// Weighting selects the target flux of the weight calculation.
type Weighting struct {
	Model      string
	ProtonOnly bool
	Groups     []string // PDG=ZMIN:ZMAX
}

// Register wires --flux, --proton-only and --group onto fs.
func (w *Weighting) Register(fs *pflag.FlagSet, defaultModel string) {
	fs.StringVar(&w.Model, "flux", defaultModel, "flux model: "+strings.Join(flux.Names(), " | "))
	fs.BoolVar(&w.ProtonOnly, "proton-only", false, "weight protons to the all-nucleon flux, other primaries to 0")
	fs.StringArrayVar(&w.Groups, "group", nil, "primary PDG=ZMIN:ZMAX standing for a range of elements (repeatable)")
}

// Enabled reports whether weights were requested.
func (w *Weighting) Enabled() bool { return w.Model != "" }

// Options parses the weighting flags.
func (w *Weighting) Options() (weights.Options, error) {
	opts := weights.Options{ProtonOnly: w.ProtonOnly}
	if len(w.Groups) == 0 {
		return opts, nil
	}
	if w.ProtonOnly {
		return opts, clibase.Usagef("--proton-only conflicts with --group")
	}
	opts.Groups = make(map[pdg.ID]weights.ZRange, len(w.Groups))
	for _, g := range w.Groups {
		id, zr, err := ParseGroup(g)
		if err != nil {
			return opts, err
		}
		if _, dup := opts.Groups[id]; dup {
			return opts, clibase.Usagef("--group %d given twice", id)
		}
		opts.Groups[id] = zr
	}
	return opts, nil
}

// Load resolves the model.
func (w *Weighting) Load() (*flux.Model, error) { return flux.ByName(w.Model) }

// ParseGroup parses "PDG=ZMIN:ZMAX".
func ParseGroup(s string) (pdg.ID, weights.ZRange, error) {
	id, rng, ok := strings.Cut(s, "=")
	lo, hi, ok2 := strings.Cut(rng, ":")
	if !ok || !ok2 {
		return 0, weights.ZRange{}, clibase.Usagef("bad --group %q (want PDG=ZMIN:ZMAX)", s)
	}
	p, err1 := strconv.Atoi(strings.TrimSpace(id))
	zmin, err2 := strconv.Atoi(strings.TrimSpace(lo))
	zmax, err3 := strconv.Atoi(strings.TrimSpace(hi))
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, weights.ZRange{}, clibase.Usagef("bad --group %q (want PDG=ZMIN:ZMAX)", s)
	}
	if zmin < 1 || zmax < zmin {
		return 0, weights.ZRange{}, clibase.Usagef("bad --group %q: need 1 <= ZMIN <= ZMAX", s)
	}
	return pdg.ID(p), weights.ZRange{Min: zmin, Max: zmax}, nil
}
