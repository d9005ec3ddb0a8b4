// Package runutil holds small helpers shared by the subcommands.
package runutil

import (
	"fmt"
	"runtime"

	"panama-core/pdg"

	"panama/internal/runner"
)

// Threads maps the --threads flag to a worker count: 0 means all CPUs.
func Threads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// FormatProgress renders one progress line of the simulator runner, e.g.
// "p^+ (2212): 40/100 showers (40%)".
func FormatProgress(p runner.Progress) string {
	pct := 0
	if p.Total > 0 {
		pct = 100 * p.Done / p.Total
	}
	return fmt.Sprintf("%s (%d): %d/%d showers (%d%%)", pdg.Name(p.Primary), int(p.Primary), p.Done, p.Total, pct)
}
