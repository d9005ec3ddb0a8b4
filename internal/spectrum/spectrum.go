// Package spectrum histograms weighted primary energies and fits the
// power-law index of the result.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/stat"
)

var ErrConfig = errors.New("spectrum: invalid configuration")

// Options bin log10(E/GeV) uniformly in [Min, Max).
type Options struct {
	Bins     int
	Min, Max float64
}

// DefaultOptions cover 1 TeV to 100 PeV in ten bins per decade.
func DefaultOptions() Options { return Options{Bins: 50, Min: 3, Max: 8} }

func (o Options) Validate() error {
	if o.Bins < 1 {
		return fmt.Errorf("%w: bins must be >= 1", ErrConfig)
	}
	if !(o.Min < o.Max) {
		return fmt.Errorf("%w: log10 energy range [%g, %g) is empty", ErrConfig, o.Min, o.Max)
	}
	return nil
}

// Bin is one histogram bin. Value is the summed weight divided by the bin
// width in GeV; Error is its statistical uncertainty.
type Bin struct {
	Low, High float64 // log10(E/GeV)
	Entries   int
	Value     float64
	Error     float64
}

// Result holds the normalized histogram and the fitted index.
type Result struct {
	Bins []Bin

	// Slope is the weighted least-squares slope of log10(Value) over
	// log10(E) at the bin centres; SlopeErr its standard error. Both are
	// NaN with fewer than two non-empty bins.
	Slope, SlopeErr, Intercept float64

	Underflow, Overflow int
	// Skipped counts entries with a NaN weight.
	Skipped int
}

// Compute fills energies (GeV) with weights and fits the spectrum.
func Compute(energies, weights []float64, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(energies) != len(weights) {
		return nil, fmt.Errorf("%w: %d energies but %d weights", ErrConfig, len(energies), len(weights))
	}

	h := hbook.NewH1D(opts.Bins, opts.Min, opts.Max)
	res := &Result{}
	for i, e := range energies {
		w := weights[i]
		if math.IsNaN(w) {
			res.Skipped++
			continue
		}
		if !(e > 0) {
			res.Underflow++
			continue
		}
		x := math.Log10(e)
		switch {
		case x < opts.Min:
			res.Underflow++
		case x >= opts.Max:
			res.Overflow++
		}
		h.Fill(x, w)
	}

	bins := h.Binning.Bins
	res.Bins = make([]Bin, len(bins))
	for i := range bins {
		b := &bins[i]
		lo, hi := b.XMin(), b.XMax()
		width := math.Pow(10, hi) - math.Pow(10, lo)
		res.Bins[i] = Bin{
			Low: lo, High: hi,
			Entries: int(b.Entries()),
			Value:   b.SumW() / width,
			Error:   math.Sqrt(b.SumW2()) / width,
		}
	}
	res.Slope, res.SlopeErr, res.Intercept = fit(res.Bins)
	return res, nil
}

// fit regresses log10(value) on the log10 bin centre, each bin weighted by
// the inverse variance of log10(value).
func fit(bins []Bin) (slope, slopeErr, intercept float64) {
	var x, y, w []float64
	for _, b := range bins {
		if b.Value <= 0 || b.Error <= 0 {
			continue
		}
		sigma := b.Error / (b.Value * math.Ln10)
		x = append(x, (b.Low+b.High)/2)
		y = append(y, math.Log10(b.Value))
		w = append(w, 1/(sigma*sigma))
	}
	if len(x) < 2 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	intercept, slope = stat.LinearRegression(x, y, w, false)

	var s, sx, sxx float64
	for i := range x {
		s += w[i]
		sx += w[i] * x[i]
		sxx += w[i] * x[i] * x[i]
	}
	slopeErr = math.Sqrt(s / (s*sxx - sx*sx))
	return slope, slopeErr, intercept
}
