package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Build information for the spn CLI, overridable via -ldflags:
//
//	-X spin/internal/version.Version=1.0.0 -X spin/internal/version.GitCommit=$(git rev-parse HEAD)
var (
	// Version is the semantic version of the CLI. The driver cache mixes it
	// into its keys, so it must stay plain text.
	Version = "0.1.0-dev"

	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with coloured major, minor and patch parts.
// Anything after the patch number ("-dev", "+meta") stays uncoloured.
func Colored() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + suffix
}

// String returns the full one-line description printed by `spn version`.
func String(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	out := "spn " + v
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		out += fmt.Sprintf(" (%s)", commit)
	}
	if BuildDate != "" {
		out += " built " + BuildDate
	}
	return out
}
