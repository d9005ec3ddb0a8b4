package cmdutil

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/zap"

	"panama-core/table"
	"panama-core/weights"

	"panama/internal/cli"
	"panama/internal/clibase"
	"panama/internal/pipeline"
	"panama/internal/runutil"
)

// ReadTables decodes the inputs of c through the shared pipeline.
func ReadTables(ctx context.Context, c *clibase.Common, opts table.Options, log *zap.Logger) (*table.Tables, error) {
	opts.MaxEvents = c.MaxEvents
	cfg := pipeline.Config{Threads: runutil.Threads(c.Threads), Log: log}
	t, err := pipeline.Build(ctx, cfg, c.Inputs, opts)
	if err != nil {
		return nil, err
	}
	log.Info("read tables",
		zap.Int("files", len(c.Inputs)),
		zap.Int("runs", t.Runs.Len()),
		zap.Int("events", t.Events.Len()),
		zap.Int("particles", t.Particles.Len()))
	return t, nil
}

// Weights computes the event weights selected by w, warning about events
// outside every simulated energy range.
func Weights(t *table.Tables, w *cli.Weighting, stderr io.Writer, quiet bool) ([]float64, error) {
	opts, err := w.Options()
	if err != nil {
		return nil, err
	}
	model, err := w.Load()
	if err != nil {
		return nil, err
	}
	out, err := weights.Compute(t.Runs, t.Events, model, opts)
	if err != nil {
		return nil, err
	}
	unmatched := 0
	for _, v := range out {
		if math.IsNaN(v) {
			unmatched++
		}
	}
	if unmatched > 0 {
		Warnf(stderr, quiet, "%d of %d events match no simulated energy range; their weight is NaN", unmatched, len(out))
	}
	return out, nil
}

// OpenOutput returns stdout for "-" and a created file otherwise. The
// returned close function must always be called.
func OpenOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	return f, f.Close, nil
}
