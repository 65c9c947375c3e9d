// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "1.0.0-dev"
)

// Info describes the build; it is logged at debug level on startup.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("dcos-cli %s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// UserAgent returns the User-Agent header value: "dcos-cli/<version> <goos>".
func UserAgent() string {
	return fmt.Sprintf("dcos-cli/%s %s", Version, runtime.GOOS)
}
