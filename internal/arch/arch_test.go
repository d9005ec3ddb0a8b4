// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "panama/...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	app := []string{"panama/internal/app", "panama/internal/cli", "panama/internal/cmdutil", "panama/cmd/"}
	bans := map[string][]string{
		"panama/internal/pipeline": append([]string{
			"panama/internal/writers", "panama/internal/store", "panama/internal/runner",
		}, app...),
		"panama/internal/writers": append([]string{
			"panama/internal/pipeline", "panama/internal/runner",
		}, app...),
		"panama/internal/store": append([]string{
			"panama/internal/writers", "panama/internal/pipeline", "panama/internal/runner",
		}, app...),
		"panama/internal/runner": append([]string{
			"panama/internal/writers", "panama/internal/store", "panama/internal/pipeline",
		}, app...),
		"panama/internal/config": append([]string{
			"panama/internal/runner", "panama/internal/writers",
		}, app...),
		"panama/internal/spectrum": {"panama/internal/", "panama/cmd/"},
		"panama/pkg/":              {"panama/internal/", "panama/cmd/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "panama/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "panama/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
