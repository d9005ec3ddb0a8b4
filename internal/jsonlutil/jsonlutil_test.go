package jsonlutil

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartWritesOneLinePerValue(t *testing.T) {
	var sb strings.Builder
	in, done := Start[int](&sb, 0, func(enc *json.Encoder, v int) error {
		return enc.Encode(map[string]int{"n": v})
	}, nil)
	for i := 1; i <= 3; i++ {
		in <- i
	}
	close(in)
	require.NoError(t, <-done)
	assert.Equal(t, "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n", sb.String())
}

func TestStartDrainsAfterError(t *testing.T) {
	boom := errors.New("boom")
	in, done := Start[int](&strings.Builder{}, 1, func(*json.Encoder, int) error { return boom }, nil)
	// more values than the buffer holds; the sends must not block
	for i := 0; i < 100; i++ {
		in <- i
	}
	close(in)
	assert.ErrorIs(t, <-done, boom)
}

type brokenWriter struct{}

var errPipe = errors.New("broken pipe")

func (brokenWriter) Write([]byte) (int, error) { return 0, errPipe }

func TestStartSuppressesBrokenPipe(t *testing.T) {
	in, done := Start[int](brokenWriter{}, 0, func(enc *json.Encoder, v int) error {
		return enc.Encode(v)
	}, func(err error) bool { return errors.Is(err, errPipe) })
	in <- 1
	close(in)
	assert.NoError(t, <-done)
}
