// Package build holds the build metadata reported by "pkgsmith version".
// The version comes from the embedded VERSION file unless overridden with
// ldflags.
package build

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Set via ldflags:
//
//	-X github.com/tacogips/pkgsmith/internal/build.version=x.y.z
//	-X github.com/tacogips/pkgsmith/internal/build.commit=abc123
//	-X github.com/tacogips/pkgsmith/internal/build.date=2026-01-02
var (
	version string
	commit  string
	date    string
)

// Version returns the application version.
// Priority: ldflags > embedded VERSION file
func Version() string {
	if version != "" {
		return version
	}
	if v := strings.TrimSpace(embeddedVersion); v != "" {
		return v
	}
	return "dev"
}

// Commit returns the source commit, or "unknown".
func Commit() string {
	return orUnknown(commit)
}

// Date returns the build date, or "unknown".
func Date() string {
	return orUnknown(date)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
