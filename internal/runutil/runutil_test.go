package runutil

import (
	"runtime"
	"testing"

	"panama/internal/runner"
)

func TestThreads(t *testing.T) {
	if got := Threads(0); got != runtime.NumCPU() {
		t.Errorf("Threads(0) = %d", got)
	}
	if got := Threads(3); got != 3 {
		t.Errorf("Threads(3) = %d", got)
	}
}

func TestFormatProgress(t *testing.T) {
	got := FormatProgress(runner.Progress{Primary: 2212, Done: 40, Total: 100})
	want := "p^+ (2212): 40/100 showers (40%)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := FormatProgress(runner.Progress{Primary: 2212}); got != "p^+ (2212): 0/0 showers (0%)" {
		t.Errorf("zero total: %q", got)
	}
}
