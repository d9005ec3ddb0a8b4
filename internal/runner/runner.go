package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"panama-core/pdg"

	"panama/internal/config"
)

// ErrConfig marks a run request the runner cannot split into jobs.
var ErrConfig = errors.New("runner: invalid configuration")

// PollInterval is the coordinator's polling period.
const PollInterval = 100 * time.Millisecond

// Seeds are drawn from [1, seedMax).
const seedMax = 900_000_000

// Progress is reported after every poll round.
type Progress struct {
	Primary  pdg.ID
	Done     int
	Total    int
	Finished bool
}

// Runner splits the requested showers of every primary across a fixed pool
// of jobs. Primaries run one after another; the jobs of one primary run in
// parallel.
type Runner struct {
	cfg      config.Runner
	jobs     []*Job
	rng      *rand.Rand
	log      *zap.Logger
	interval time.Duration

	// OnProgress, when set, is called from the coordinating goroutine.
	OnProgress func(Progress)
}

// New validates cfg, reads the card template and prepares the job
// directories below cfg.TmpDir. Call Clean when done.
func New(cfg config.Runner, log *zap.Logger) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, p := range cfg.Primaries {
		if cfg.Jobs > p.Showers {
			return nil, fmt.Errorf("%w: jobs (%d) must be smaller or equal to the number of showers for every primary (%d has %d)",
				ErrConfig, cfg.Jobs, p.PDG, p.Showers)
		}
		if _, ok := pdg.ToCorsika(pdg.ID(p.PDG)); !ok {
			return nil, fmt.Errorf("%w: primary %d has no simulator code", ErrConfig, p.PDG)
		}
	}
	tmpl, err := os.ReadFile(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("runner: template: %w", err)
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	r := &Runner{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		log:      log,
		interval: PollInterval,
	}
	if info, err := os.Stat(cfg.Output); err == nil && info.IsDir() {
		log.Warn("output directory already exists; the simulator stops if an output file exists already",
			zap.String("dir", cfg.Output))
	}
	for i := 0; i < cfg.Jobs; i++ {
		dir := filepath.Join(cfg.TmpDir, fmt.Sprintf(".corsika_copy_run_%d", i))
		j, err := NewJob(cfg.Corsika, dir, string(tmpl), log)
		if err != nil {
			_ = r.Clean()
			return nil, err
		}
		r.jobs = append(r.jobs, j)
	}
	return r, nil
}

// Jobs exposes the job pool.
func (r *Runner) Jobs() []*Job { return r.jobs }

// Split divides n showers over jobs: every job gets n/jobs and the last one
// also takes the remainder.
func Split(n, jobs int) []int {
	out := make([]int, jobs)
	for i := range out {
		out[i] = n / jobs
	}
	out[jobs-1] += n - (n/jobs)*jobs
	return out
}

// RunNumber is the run number of job i for the primary at index idx.
func RunNumber(jobs, idx, i, first int) int { return jobs*idx + i + first }

func (r *Runner) values(run, showers, corsikaID int) map[string]string {
	dir, err := filepath.Abs(r.cfg.Output)
	if err != nil {
		dir = r.cfg.Output
	}
	return map[string]string{
		"run_idx":         strconv.Itoa(run),
		"first_event_idx": strconv.Itoa(r.cfg.FirstEventNumber),
		"n_show":          strconv.Itoa(showers),
		"dir":             dir + string(filepath.Separator),
		"seed_1":          strconv.Itoa(1 + r.rng.Intn(seedMax-1)),
		"seed_2":          strconv.Itoa(1 + r.rng.Intn(seedMax-1)),
		"primary":         strconv.Itoa(corsikaID),
	}
}

// Run starts the jobs of every primary in turn and waits for them. Job
// failures are logged and returned together once all primaries ran. On
// cancellation the processes are killed and ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context) error {
	if err := os.MkdirAll(r.cfg.Output, 0o755); err != nil {
		return err
	}
	var failed []error
	for idx, p := range r.cfg.Primaries {
		id := pdg.ID(p.PDG)
		cid, _ := pdg.ToCorsika(id)
		r.log.Info("running primary", zap.String("name", pdg.Name(id)), zap.Int("pdgid", p.PDG), zap.Int("showers", p.Showers))

		for i, n := range Split(p.Showers, len(r.jobs)) {
			stdlog := ""
			if r.cfg.SaveStdout {
				stdlog = filepath.Join(r.cfg.Output, fmt.Sprintf("prim%d_job%d.log", p.PDG, i))
			}
			run := RunNumber(len(r.jobs), idx, i, r.cfg.FirstRunNumber)
			if err := r.jobs[i].Start(ctx, r.values(run, n, cid), stdlog); err != nil {
				failed = append(failed, err)
				r.log.Error("could not start job", zap.Int("run", run), zap.Error(err))
			}
		}
		failed = append(failed, r.wait(ctx, id, p.Showers)...)
		if ctx.Err() != nil {
			r.log.Info("interrupted")
			return ctx.Err()
		}
	}
	return errors.Join(failed...)
}

func (r *Runner) wait(ctx context.Context, id pdg.ID, total int) []error {
	var errs []error
	done := 0
	report := func(finished bool) {
		if r.OnProgress != nil {
			r.OnProgress(Progress{Primary: id, Done: done, Total: total, Finished: finished})
		}
	}
	tick := time.NewTicker(r.interval)
	defer tick.Stop()
	for {
		running := 0
		for _, j := range r.jobs {
			if !j.Running() {
				continue
			}
			n, closed := j.Poll()
			done += n
			if !closed {
				running++
				continue
			}
			n, err := j.Join()
			done += n
			if err != nil {
				errs = append(errs, err)
			}
		}
		if running == 0 {
			report(true)
			return errs
		}
		report(false)
		select {
		case <-ctx.Done():
			// the processes die with ctx; collect them
			for _, j := range r.jobs {
				if j.Running() {
					_, _ = j.Join()
				}
			}
			return errs
		case <-tick.C:
		}
	}
}

// Clean removes every job directory.
func (r *Runner) Clean() error {
	var errs []error
	for _, j := range r.jobs {
		errs = append(errs, j.Clean())
	}
	return errors.Join(errs...)
}
