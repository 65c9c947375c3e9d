// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cluster implements the "dcos cluster" commands: setup, list,
// attach, rename, remove and open. The commands are thin: setup drives
// the setup pipeline, the others operate on the session's cluster store.
package cluster
