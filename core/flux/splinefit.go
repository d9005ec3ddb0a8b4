package flux

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"

	"panama-core/pdg"
)

// gsfElements is the number of element rows in a Global Spline Fit table.
const gsfElements = 28

// Nucleon number used for every element of the fit.
var gsfZToA = [gsfElements + 1]int{
	0, 1, 4, 7, 9, 11, 12, 14, 16, 19, 20, 23, 24, 27, 28, 31, 32, 35, 40, 39,
	40, 45, 48, 51, 52, 55, 56, 59, 59,
}

// GlobalSplineFit interpolates the tabulated GSF spectra (Dembinski et al.,
// arXiv:1711.11432) with a monotone cubic per element. Energies outside the
// tabulated grid evaluate to NaN.
type GlobalSplineFit struct {
	valid  []pdg.ID
	lo, hi float64
	fits   [gsfElements]*interp.FritschButland
}

// OpenGlobalSplineFit loads a GSF table from disk.
func OpenGlobalSplineFit(path string) (*Model, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return LoadGlobalSplineFit(fh)
}

// LoadGlobalSplineFit parses a whitespace table: the first row holds the
// energy grid, followed by one flux row per element Z=1..28. Lines starting
// with '#' and blank lines are ignored.
func LoadGlobalSplineFit(r io.Reader) (*Model, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if len(rows) != gsfElements+1 {
		return nil, fmt.Errorf("%w: GSF table has %d rows, want %d", ErrConfig, len(rows), gsfElements+1)
	}
	xs := rows[0]
	if len(xs) < 3 {
		return nil, fmt.Errorf("%w: GSF energy grid needs at least 3 points", ErrConfig)
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: GSF energy grid is not strictly increasing at column %d", ErrConfig, i)
		}
	}
	g := &GlobalSplineFit{lo: xs[0], hi: xs[len(xs)-1]}
	for z := 1; z <= gsfElements; z++ {
		ys := rows[z]
		if len(ys) != len(xs) {
			return nil, fmt.Errorf("%w: GSF row for Z=%d has %d values, want %d", ErrConfig, z, len(ys), len(xs))
		}
		fb := &interp.FritschButland{}
		if err := fb.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("%w: GSF fit for Z=%d: %v", ErrConfig, z, err)
		}
		g.fits[z-1] = fb
		g.valid = append(g.valid, pdg.Nucleus(z, gsfZToA[z]))
	}
	return NewCosmicRay("gsf", g)
}

func readTable(r io.Reader) ([][]float64, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		fields := strings.Fields(s)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: GSF line %d: %v", ErrConfig, line, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}

func (g *GlobalSplineFit) Valid() []pdg.ID { return g.valid }

func (g *GlobalSplineFit) Eval(id pdg.ID, e float64) float64 {
	z := id.Z()
	if z < 1 || z > gsfElements || math.IsNaN(e) || e < g.lo || e > g.hi {
		return math.NaN()
	}
	return g.fits[z-1].Predict(e)
}
