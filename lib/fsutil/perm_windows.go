// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package fsutil

// Windows ACLs are not expressed through mode bits.
const posixPermissions = false
