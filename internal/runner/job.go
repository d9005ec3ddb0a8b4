// Package runner drives several simulator processes in parallel, one
// steering card per process, and reports shower progress from their stdout.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Markers in the simulator's stdout.
const (
	EventFinished = "PRIMARY PARAMETERS AT FIRST INTERACTION POINT AT HEIGHT"
	RunEnd        = "END OF RUN"
	FileError     = "STOP FILOPN: FATAL PROBLEM OPENING FILE"
)

var (
	// ErrRunning is returned when starting a job that has not been joined.
	ErrRunning = errors.New("runner: job is still running")
	// ErrNotRunning is returned when joining a job that was never started.
	ErrNotRunning = errors.New("runner: job is not running")
)

// Template placeholders understood by Render.
var Placeholders = []string{"run_idx", "first_event_idx", "n_show", "dir", "seed_1", "seed_2", "primary"}

// Render replaces every {name} in template with values[name]. Unknown
// placeholders are left alone.
func Render(template string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Job runs one simulator process at a time out of a private directory.
// The simulator refuses to run twice from the same directory, so every
// file next to the executable is symlinked into the job directory.
type Job struct {
	dir      string
	exe      string
	template string
	log      *zap.Logger

	cmd      *exec.Cmd
	lines    chan string
	stdlog   *os.File
	showers  int
	finished int
	sawEnd   bool
	tail     []string
}

// lineBuffer bounds the lines held between two polls.
const lineBuffer = 1024

// tailLines is how much output is kept for diagnostics.
const tailLines = 50

// NewJob creates dir and links the executable's directory into it. dir must
// not exist yet.
func NewJob(executable, dir, template string, log *zap.Logger) (*Job, error) {
	if log == nil {
		log = zap.NewNop()
	}
	exe, err := filepath.Abs(executable)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, err
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("job directory: %w", err)
	}
	entries, err := os.ReadDir(filepath.Dir(exe))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		src := filepath.Join(filepath.Dir(exe), e.Name())
		if err := os.Symlink(src, filepath.Join(dir, e.Name())); err != nil {
			return nil, err
		}
	}
	return &Job{
		dir:      dir,
		exe:      filepath.Join(dir, filepath.Base(exe)),
		template: template,
		log:      log.With(zap.String("job", filepath.Base(dir))),
	}, nil
}

func (j *Job) Dir() string { return j.dir }

// Running reports whether the job was started and not yet joined.
func (j *Job) Running() bool { return j.cmd != nil }

// Showers is the n_show value of the current run.
func (j *Job) Showers() int { return j.showers }

// Finished counts the showers reported so far in the current run.
func (j *Job) Finished() int { return j.finished }

// Start renders the card from values and launches the simulator with the card
// on stdin. When stdoutLog is set the process output is copied there.
// Cancelling ctx kills the process.
func (j *Job) Start(ctx context.Context, values map[string]string, stdoutLog string) error {
	if j.Running() {
		return ErrRunning
	}
	var n int
	if _, err := fmt.Sscan(values["n_show"], &n); err != nil {
		return fmt.Errorf("runner: n_show %q: %w", values["n_show"], err)
	}

	cmd := exec.CommandContext(ctx, j.exe)
	cmd.Dir = j.dir
	cmd.Stdin = strings.NewReader(Render(j.template, values))
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if stdoutLog != "" {
		f, err := os.Create(stdoutLog)
		if err != nil {
			return err
		}
		j.stdlog = f
	}
	if err := cmd.Start(); err != nil {
		j.closeLog()
		return fmt.Errorf("runner: start %s: %w", j.exe, err)
	}

	j.cmd = cmd
	j.showers = n
	j.finished = 0
	j.sawEnd = false
	j.tail = j.tail[:0]
	j.lines = make(chan string, lineBuffer)
	go readLines(stdout, j.lines)
	j.log.Debug("started", zap.String("run", values["run_idx"]), zap.Int("showers", n))
	return nil
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	for sc.Scan() {
		out <- sc.Text()
	}
}

func (j *Job) consume(line string) int {
	j.log.Debug(line)
	if j.stdlog != nil {
		_, _ = io.WriteString(j.stdlog, line+"\n")
	}
	if strings.Contains(line, RunEnd) {
		j.sawEnd = true
	}
	if len(j.tail) == tailLines {
		j.tail = j.tail[1:]
	}
	j.tail = append(j.tail, line)
	n := strings.Count(line, EventFinished)
	j.finished += n
	return n
}

// Poll drains the lines available now without blocking and returns the
// showers finished since the last call. done is set once stdout is closed;
// the job then only needs Join.
func (j *Job) Poll() (n int, done bool) {
	if !j.Running() {
		return 0, true
	}
	for {
		select {
		case line, ok := <-j.lines:
			if !ok {
				return n, true
			}
			n += j.consume(line)
		default:
			return n, false
		}
	}
}

// Join waits for the process and returns the showers finished since the
// last Poll. A non-zero exit is returned as an error; a missing end-of-run
// marker is only logged.
func (j *Job) Join() (int, error) {
	if !j.Running() {
		return 0, ErrNotRunning
	}
	n := 0
	for line := range j.lines {
		n += j.consume(line)
	}
	err := j.cmd.Wait()
	defer j.reset()

	if err != nil {
		j.log.Error("simulator failed, this indicates a failed run", zap.Error(err),
			zap.String("output", strings.Join(j.tail, "\n")))
		return n, fmt.Errorf("runner: %s: %w", filepath.Base(j.dir), err)
	}
	if !j.sawEnd {
		j.log.Warn("'"+RunEnd+"' not in simulator output, may indicate a failed run",
			zap.String("output", strings.Join(j.tail, "\n")))
	}
	return n, nil
}

func (j *Job) reset() {
	j.cmd = nil
	j.lines = nil
	j.closeLog()
}

func (j *Job) closeLog() {
	if j.stdlog != nil {
		_ = j.stdlog.Close()
		j.stdlog = nil
	}
}

// Clean removes the job directory.
func (j *Job) Clean() error { return os.RemoveAll(j.dir) }
