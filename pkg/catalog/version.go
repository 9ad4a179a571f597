// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"
)

var versionRE = regexp.MustCompile(`PostgreSQL (\d+)(?:\.(\d+))?`)

// ServerVersion is the detected major/minor version of a PostgreSQL server,
// normalized to a semver-comparable string ("v15.0", "v16.4", ...) so that
// version-conditional extraction queries (spec §6: "version-conditional
// behavior is limited to which system-catalog columns/queries to use") can
// use golang.org/x/mod/semver.Compare instead of ad hoc integer parsing.
type ServerVersion struct {
	Major int
	Minor int
	semv  string
}

// String returns the normalized semver string, e.g. "v16.4".
func (v ServerVersion) String() string { return v.semv }

// AtLeast reports whether v is >= the given major.minor, e.g.
// v.AtLeast(16, 0).
func (v ServerVersion) AtLeast(major, minor int) bool {
	return semver.Compare(v.semv, fmt.Sprintf("v%d.%d", major, minor)) >= 0
}

// DetectVersion runs SELECT version() and parses the PostgreSQL major.minor
// out of the human-readable banner PostgreSQL prints (e.g. "PostgreSQL 16.4
// on x86_64-pc-linux-gnu, ...").
func DetectVersion(ctx context.Context, queryRow func(ctx context.Context, query string) (string, error)) (ServerVersion, error) {
	banner, err := queryRow(ctx, "SELECT version()")
	if err != nil {
		return ServerVersion{}, fmt.Errorf("detecting server version: %w", err)
	}

	m := versionRE.FindStringSubmatch(banner)
	if m == nil {
		return ServerVersion{}, fmt.Errorf("could not parse PostgreSQL version from banner: %q", banner)
	}

	minor := "0"
	if m[2] != "" {
		minor = m[2]
	}

	var major, minorN int
	if _, err := fmt.Sscanf(m[1], "%d", &major); err != nil {
		return ServerVersion{}, fmt.Errorf("parsing major version %q: %w", m[1], err)
	}
	if _, err := fmt.Sscanf(minor, "%d", &minorN); err != nil {
		return ServerVersion{}, fmt.Errorf("parsing minor version %q: %w", minor, err)
	}

	return ServerVersion{
		Major: major,
		Minor: minorN,
		semv:  fmt.Sprintf("v%d.%d", major, minorN),
	}, nil
}
