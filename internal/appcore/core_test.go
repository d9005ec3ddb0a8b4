package appcore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"panama-core/flux"
	"panama-core/table"

	"panama/internal/clibase"
)

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{nil, ExitOK},
		{fmt.Errorf("write: %w", syscall.EPIPE), ExitOK},
		{fmt.Errorf("read DAT000001: %w", context.Canceled), ExitCanceled},
		{ErrEmpty, ExitEmpty},
		{clibase.Usagef("--bins must be >= 1"), ExitUsage},
		{fmt.Errorf("DAT000002: %w", table.ErrConfig), ExitUsage},
		{fmt.Errorf("model: %w", flux.ErrConfig), ExitUsage},
		{errors.New("open DAT000001: no such file or directory"), ExitIO},
	}
	for _, c := range cases {
		var stderr strings.Builder
		assert.Equal(t, c.code, Code(c.err, &stderr), "%v", c.err)
		if c.code == ExitUsage || c.code == ExitIO {
			assert.Contains(t, stderr.String(), "error: ")
		} else {
			assert.Empty(t, stderr.String())
		}
	}
}
