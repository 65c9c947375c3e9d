// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Unknown is recorded when a cluster does not report its version.
const Unknown = "unknown"

// Clusters older than this do not expose the provider-based login API.
var supportedClusters = mustConstraint(">= 1.10.0-0")

// leadingVersion extracts "1.12.3" from "1.12.3_rc1".
var leadingVersion = regexp.MustCompile(`^v?(\d+)(\.\d+)?(\.\d+)?`)

// ParseCluster parses a cluster-reported version. Loose semver is tried
// first, so "1.12-dev" parses as 1.12.0-dev; otherwise the leading
// numeric part is used, so "1.12.3_rc1" parses as 1.12.3.
func ParseCluster(raw string) (*semver.Version, error) {
	if parsed, err := semver.NewVersion(raw); err == nil {
		return parsed, nil
	}
	match := leadingVersion.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("version: unable to parse cluster version %q", raw)
	}
	return semver.NewVersion(match)
}

// Supported reports whether a cluster-reported version is recent enough.
// Unparseable and unknown versions are assumed supported.
func Supported(raw string) bool {
	if raw == "" || raw == Unknown {
		return true
	}
	parsed, err := ParseCluster(raw)
	if err != nil {
		return true
	}
	return supportedClusters.Check(parsed)
}

// Compare orders two cluster-reported versions. Unparseable versions sort
// before parseable ones and compare equal to each other.
func Compare(a, b string) int {
	left, leftErr := ParseCluster(a)
	right, rightErr := ParseCluster(b)
	switch {
	case leftErr != nil && rightErr != nil:
		return 0
	case leftErr != nil:
		return -1
	case rightErr != nil:
		return 1
	}
	return left.Compare(right)
}

func mustConstraint(expression string) *semver.Constraints {
	constraint, err := semver.NewConstraint(expression)
	if err != nil {
		panic(fmt.Sprintf("version: invalid constraint %q: %v", expression, err))
	}
	return constraint
}
