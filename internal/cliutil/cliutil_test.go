package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"DAT000001", "DAT000002", "DAT000002.long"} {
		_ = os.WriteFile(filepath.Join(dir, name), nil, 0o644)
	}
	got, err := ExpandPositionals([]string{filepath.Join(dir, "DAT00000?"), "plain"})
	if err != nil || len(got) != 3 {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
	if got[0] != filepath.Join(dir, "DAT000001") || got[2] != "plain" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestExpandPositionalsNoMatch(t *testing.T) {
	if _, err := ExpandPositionals([]string{filepath.Join(t.TempDir(), "*.dat")}); err == nil {
		t.Fatal("expected error for unmatched glob")
	}
}
