// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config is the TOML store behind every cluster profile.
//
// A profile's dcos.toml is a tree of sections addressed by dotted keys
// ("core.dcos_url", "cluster.name"). [Document] holds the tree and offers
// get/set/unset by dotted path; [Document.View] projects it as a
// read-only [Reader] for code that must not mutate.
//
// Every top-level section has an embedded JSON-Schema (draft 4) that
// drives two things: coercion of user-supplied strings into typed values
// ([ParseValue]) and validation of a section after an edit ([Validate]).
// Validation compares errors before and after the edit so that a
// pre-existing violation does not block an unrelated change.
//
// [Store] persists a document at a path, enforcing owner-only mode on
// every read and writing atomically with mode 0600. [Resolver] layers
// DCOS_* environment overrides on top of the file.
//
// This package depends only on lib/errdef and lib/fsutil.
package config
