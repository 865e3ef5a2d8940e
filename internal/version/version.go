package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Build information, overridable with -ldflags "-X evergreen/internal/version.Version=...".
var (
	Version   = "0.4.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored renders major.minor.patch in three colours; any pre-release suffix
// is left plain. color.NoColor disables the escapes.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	for i, p := range parts {
		parts[i] = partColors[i%len(partColors)].Sprint(p)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Line is the full `evergreen version` output.
func Line() string {
	out := "evergreen " + Colored()
	if GitCommit != "" {
		out += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		out += " built " + BuildDate
	}
	return out
}
