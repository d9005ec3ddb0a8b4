// internal/clibase/examples.go
package clibase

import "strings"

// Examples formats one example invocation per line, indented for the
// cobra Example section.
func Examples(lines ...string) string {
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
