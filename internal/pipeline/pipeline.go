// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"panama-core/corsika"
	"panama-core/table"
)

// Config controls the reading pipeline.
type Config struct {
	Threads int // files decoded concurrently (>=1)
	Decode  Decoder
	Log     *zap.Logger
}

// File is one decoded input.
type File struct {
	Path string
	Runs []corsika.Run
}

// ReadFiles decodes paths concurrently and returns them in input order.
// The first error cancels the remaining reads.
func ReadFiles(ctx context.Context, cfg Config, paths []string) ([]File, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	decode := cfg.Decode
	if decode == nil {
		decode = corsika.ReadFile
	}

	out := make([]File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	for i, p := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			runs, err := decode(p)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			events := 0
			for _, r := range runs {
				events += len(r.Events)
			}
			log.Debug("decoded", zap.String("path", p), zap.Int("runs", len(runs)), zap.Int("events", events))
			out[i] = File{Path: p, Runs: runs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Build reads paths batch by batch and merges their runs into one set of
// tables in input order. Reading stops as soon as opts.MaxEvents is reached.
func Build(ctx context.Context, cfg Config, paths []string, opts table.Options) (*table.Tables, error) {
	b, err := table.NewBuilder(opts)
	if err != nil {
		return nil, err
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	for start := 0; start < len(paths) && !b.Full(); start += cfg.Threads {
		end := min(start+cfg.Threads, len(paths))
		files, err := ReadFiles(ctx, cfg, paths[start:end])
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			for i := range f.Runs {
				if err := b.AddRun(&f.Runs[i]); err != nil {
					return nil, fmt.Errorf("%s: %w", f.Path, err)
				}
			}
		}
	}
	return b.Build(), nil
}
