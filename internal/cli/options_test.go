// internal/cli/options_test.go
package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"panama/internal/clibase"
	"panama/internal/config"
)

func parseConvert(t *testing.T, args ...string) (*ConvertOptions, error) {
	t.Helper()
	fs := NewFlagSet("convert")
	o := &ConvertOptions{}
	o.Register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return o, o.Validate(fs.Args())
}

func TestConvertDefaults(t *testing.T) {
	o, err := parseConvert(t, "DAT000001")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	got := o.TableOptions()
	if !got.AdditionalColumns || !got.DropMothers || !got.DropNonParticles || got.MotherColumns {
		t.Errorf("unexpected table options %+v", got)
	}
	if o.Format != "tsv" || o.Out != "-" || o.Select() != nil || o.Enabled() {
		t.Errorf("unexpected defaults %+v", o)
	}
}

func TestConvertNoAdditionalKeepsNonParticles(t *testing.T) {
	o, err := parseConvert(t, "--no-additional-columns", "--table", "particles", "DAT000001")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := o.TableOptions().Validate(); err != nil {
		t.Fatalf("table options must be consistent: %v", err)
	}
	if s := o.Select(); len(s) != 1 || s[0] != "particles" {
		t.Errorf("select = %v", s)
	}
}

func TestConvertRejects(t *testing.T) {
	cases := [][]string{
		{},
		{"--table", "showers", "DAT000001"},
		{"--format", "parquet", "DAT000001"},
		{"--threads", "-1", "DAT000001"},
		{"--no-additional-columns", "--mother-columns", "DAT000001"},
		{"--proton-only", "DAT000001"},
		{"--flux", "h3a", "--proton-only", "--group", "1000020040=2:2", "DAT000001"},
		{"--flux", "h3a", "--group", "1000020040=3:2", "DAT000001"},
		{"-"},
	}
	for _, args := range cases {
		if _, err := parseConvert(t, args...); !errors.Is(err, clibase.ErrUsage) {
			t.Errorf("%v: want usage error, got %v", args, err)
		}
	}
}

func TestConvertExpandsGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"DAT000001", "DAT000002"} {
		_ = os.WriteFile(filepath.Join(dir, n), nil, 0o644)
	}
	o, err := parseConvert(t, filepath.Join(dir, "DAT*"))
	if err != nil || len(o.Inputs) != 2 {
		t.Fatalf("inputs %v err %v", o.Inputs, err)
	}
}

func TestParseGroup(t *testing.T) {
	id, zr, err := ParseGroup("1000080160=6:10")
	if err != nil || id != 1000080160 || zr.Min != 6 || zr.Max != 10 {
		t.Fatalf("got %v %+v %v", id, zr, err)
	}
	for _, bad := range []string{"1000080160", "x=1:2", "1000080160=1", "1000080160=0:2"} {
		if _, _, err := ParseGroup(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestWeightingGroups(t *testing.T) {
	w := Weighting{Model: "h3a", Groups: []string{"1000020040=2:2", "1000260560=3:26"}}
	opts, err := w.Options()
	if err != nil || len(opts.Groups) != 2 || opts.Groups[1000260560].Max != 26 {
		t.Fatalf("got %+v %v", opts, err)
	}
	w.Groups = append(w.Groups, "1000020040=2:3")
	if _, err := w.Options(); err == nil {
		t.Fatal("expected duplicate group error")
	}
}

func TestSpectrumUnweightedNeedsNoFlux(t *testing.T) {
	fs := NewFlagSet("spectrum")
	o := &SpectrumOptions{}
	o.Register(fs)
	if err := fs.Parse([]string{"--unweighted", "--bins", "10", "DAT000001"}); err != nil {
		t.Fatal(err)
	}
	if err := o.Validate(fs.Args()); err != nil || o.Enabled() {
		t.Fatalf("validate: %v enabled=%v", err, o.Enabled())
	}

	o = &SpectrumOptions{}
	fs = NewFlagSet("spectrum")
	o.Register(fs)
	_ = fs.Parse([]string{"--log-emin", "5", "--log-emax", "4", "DAT000001"})
	if err := o.Validate(fs.Args()); !errors.Is(err, clibase.ErrUsage) {
		t.Fatalf("want usage error, got %v", err)
	}
}

func TestFluxOptions(t *testing.T) {
	fs := NewFlagSet("flux")
	o := &FluxOptions{}
	o.Register(fs)
	if err := fs.Parse([]string{"--species", "2212,1000020040", "--points", "3"}); err != nil {
		t.Fatal(err)
	}
	if err := o.Validate(fs.Args()); err != nil {
		t.Fatal(err)
	}
	if len(o.Species) != 2 || o.Species[1] != 1000020040 {
		t.Errorf("species = %v", o.Species)
	}
	o.EMin = 0
	if err := o.Validate(nil); err == nil {
		t.Error("expected error for emin=0")
	}
}

func TestRunApplyOverridesConfig(t *testing.T) {
	fs := NewFlagSet("run")
	o := &RunOptions{}
	o.Register(fs)
	if err := fs.Parse([]string{"-c", "cfg.yaml", "-p", "2212=10", "-p", "1000260560", "-n", "4", "--seed", "7", "card.tmpl"}); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultFrom(func(string) string { return "" })
	cfg.Jobs = 2
	if err := o.Apply(cfg, fs.Changed, fs.Args()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Template != "card.tmpl" || cfg.Jobs != 2 || *cfg.Seed != 7 {
		t.Errorf("unexpected config %+v", cfg)
	}
	want := []config.Primary{{PDG: 2212, Showers: 10}, {PDG: 1000260560, Showers: 4}}
	if len(cfg.Primaries) != 2 || cfg.Primaries[0] != want[0] || cfg.Primaries[1] != want[1] {
		t.Errorf("primaries = %+v", cfg.Primaries)
	}
}

func TestRunApplyNeedsTemplate(t *testing.T) {
	fs := NewFlagSet("run")
	o := &RunOptions{}
	o.Register(fs)
	_ = fs.Parse(nil)
	cfg := config.DefaultFrom(func(string) string { return "" })
	if err := o.Apply(cfg, fs.Changed, nil); !errors.Is(err, clibase.ErrUsage) {
		t.Fatalf("want usage error, got %v", err)
	}
}
