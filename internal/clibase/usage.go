// internal/clibase/usage.go
package clibase

import (
	"fmt"
	"strings"

	"panama/internal/version"
)

// Long builds the long help text of a command: a banner followed by desc.
func Long(name, desc string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s – CORSIKA post-processing toolkit\n\n", name)
	fmt.Fprintf(&b, "Version: %s\n", version.Version)
	if desc != "" {
		b.WriteString("\n" + strings.TrimSpace(desc) + "\n")
	}
	return b.String()
}
