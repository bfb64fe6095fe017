// Package version exposes the build version.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Current is set at build time:
//
//	go build -ldflags "-X github.com/csc-helpdesk/csc/internal/shared/version.Current=1.4.0"
var Current = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns Current in canonical semver form, or "dev" for builds
// without a valid version.
func String() string {
	v := Normalize(Current)
	if !semver.IsValid(v) {
		return "dev"
	}
	return semver.Canonical(v)
}
