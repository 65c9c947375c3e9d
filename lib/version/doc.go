// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the dcos
// binary and parsing of the software versions that clusters report.
//
// # Build information
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// [Info] formats them for --version; [UserAgent] formats the
// User-Agent header sent on every request.
//
// # Cluster versions
//
// [ParseCluster] accepts the loose version strings clusters report
// ("1.13.0", "1.12-dev", "2.1.0-beta2") and [Supported] checks them
// against the oldest cluster release this CLI can talk to.
package version
