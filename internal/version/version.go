// Package version holds build information for the ember CLI.
// The variables are overridden at build time via -ldflags "-X ...".
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with one color per component. Pre-release and
// build suffixes stay uncolored.
func Colored() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(Version, "-+"); i >= 0 {
		core, suffix = Version[:i], Version[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + suffix
}

// Line is the text printed by `ember version`.
func Line() string {
	var sb strings.Builder
	sb.WriteString("ember ")
	sb.WriteString(Colored())
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		sb.WriteString(" (" + commit + ")")
	}
	if BuildDate != "" {
		sb.WriteString(" built " + BuildDate)
	}
	return sb.String()
}
