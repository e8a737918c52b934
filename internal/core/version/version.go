// Package version provides information about the build version of the report binary.
package version

import "fmt"

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'mqttreport/internal/core/version.version=v0.0.1'
	// -X 'mqttreport/internal/core/version.commit=abcd' -X 'mqttreport/internal/core/version.date=2025-12-01'"
	return BuildInfo{
		Service: "mqtt-report",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String is the one-line form used for --version and the PDF creator
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", b.Service, b.Version, b.Commit, b.Date)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
