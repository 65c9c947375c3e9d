// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Dcos is the command line interface for DC/OS clusters. It configures
// cluster profiles (cluster setup, list, attach, rename, remove, open),
// obtains and stores login tokens (auth login, logout, list-providers),
// and edits the attached cluster's configuration (config set, show,
// unset, keys, validate).
package main
