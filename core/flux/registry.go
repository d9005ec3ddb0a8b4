package flux

import (
	"fmt"
	"sort"
	"strings"
)

var builtins = map[string]func() *Model{
	"h3a":       H3a,
	"h4a":       H4a,
	"tig":       TIG,
	"tigcutoff": TIGCutoff,
}

// Names lists the built-in model names plus the gsf form.
func Names() []string {
	out := make([]string, 0, len(builtins)+1)
	for k := range builtins {
		out = append(out, k)
	}
	sort.Strings(out)
	return append(out, "gsf:<path>")
}

// ByName resolves a model name. "gsf:<path>" loads a Global Spline Fit
// table from path.
func ByName(name string) (*Model, error) {
	name = strings.TrimSpace(name)
	key := strings.ToLower(name)
	if strings.HasPrefix(key, "gsf:") {
		// path keeps its case
		return OpenGlobalSplineFit(name[len("gsf:"):])
	}
	if ctor, ok := builtins[key]; ok {
		return ctor(), nil
	}
	return nil, fmt.Errorf("%w: unknown flux model %q (valid: %s)", ErrConfig, name, strings.Join(Names(), ", "))
}
