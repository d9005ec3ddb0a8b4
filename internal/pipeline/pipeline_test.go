package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"panama-core/corsika"
	"panama-core/table"

	"panama/internal/fixture"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeRuns(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i := 1; i <= n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("DAT%06d", i))
		require.NoError(t, fixture.WriteDAT(p, false, fixture.Run(i, 14, 2048, 4096)))
		paths = append(paths, p)
	}
	return paths
}

func TestReadFilesKeepsInputOrder(t *testing.T) {
	paths := writeRuns(t, 6)
	files, err := ReadFiles(context.Background(), Config{Threads: 3}, paths)
	require.NoError(t, err)
	require.Len(t, files, 6)
	for i, f := range files {
		assert.Equal(t, paths[i], f.Path)
		require.Len(t, f.Runs, 1)
		assert.Equal(t, i+1, f.Runs[0].Header.RunNumber)
	}
}

func TestBuildParallelEqualsSerial(t *testing.T) {
	paths := writeRuns(t, 5)
	opts := table.DefaultOptions()
	opts.MotherColumns = true

	serial, err := Build(context.Background(), Config{Threads: 1}, paths, opts)
	require.NoError(t, err)
	parallel, err := Build(context.Background(), Config{Threads: 4}, paths, opts)
	require.NoError(t, err)

	if diff := cmp.Diff(serial, parallel, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("parallel build differs from serial (-serial +parallel):\n%s", diff)
	}
	assert.Equal(t, 5, parallel.Runs.Len())
	assert.Equal(t, 10, parallel.Events.Len())
	assert.Equal(t, 10*fixture.KeptPerEvent, parallel.Particles.Len())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, parallel.Runs.RunNumber)
}

func TestBuildStopsAtMaxEvents(t *testing.T) {
	paths := writeRuns(t, 8)
	var decoded atomic.Int32
	cfg := Config{Threads: 2, Decode: func(p string) ([]corsika.Run, error) {
		decoded.Add(1)
		return corsika.ReadFile(p)
	}}
	opts := table.DefaultOptions()
	opts.MaxEvents = 3

	tb, err := Build(context.Background(), cfg, paths, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, tb.Events.Len())
	assert.Equal(t, 2, tb.Runs.Len())
	assert.Equal(t, int32(2), decoded.Load(), "only the first batch is needed")
}

func TestDecodeErrorNamesFile(t *testing.T) {
	paths := writeRuns(t, 3)
	boom := errors.New("boom")
	cfg := Config{Threads: 2, Decode: func(p string) ([]corsika.Run, error) {
		if p == paths[1] {
			return nil, boom
		}
		return corsika.ReadFile(p)
	}}
	_, err := ReadFiles(context.Background(), cfg, paths)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), paths[1])
}

func TestDuplicateRunAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")
	require.NoError(t, fixture.WriteDAT(a, false, fixture.Run(1, 14, 2048)))
	require.NoError(t, fixture.WriteDAT(b, false, fixture.Run(1, 14, 2048)))
	_, err := Build(context.Background(), Config{Threads: 2}, []string{a, b}, table.DefaultOptions())
	require.ErrorIs(t, err, table.ErrConfig)
	assert.Contains(t, err.Error(), b)
}

func TestMissingFile(t *testing.T) {
	_, err := Build(context.Background(), Config{}, []string{filepath.Join(t.TempDir(), "nope")}, table.DefaultOptions())
	assert.Error(t, err)
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadFiles(ctx, Config{Threads: 2}, writeRuns(t, 4))
	assert.ErrorIs(t, err, context.Canceled)
}
