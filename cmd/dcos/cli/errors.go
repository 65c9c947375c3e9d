// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/bureau-foundation/dcos/lib/errdef"
)

// Validation creates an error for bad command-line input: wrong argument
// count, unknown commands or flags, conflicting options.
func Validation(format string, args ...any) *errdef.Error {
	return errdef.InvalidInput(format, args...)
}

// ExactArgs checks that args holds exactly count positional arguments.
// usage is the command's argument synopsis, quoted in the error.
func ExactArgs(args []string, count int, usage string) error {
	if len(args) == count {
		return nil
	}
	if len(args) > count {
		return Validation("unexpected argument: %s", args[count]).WithHint("Usage: %s", usage)
	}
	return Validation("missing argument").WithHint("Usage: %s", usage)
}

// MaxArgs checks that args holds at most count positional arguments.
func MaxArgs(args []string, count int, usage string) error {
	if len(args) <= count {
		return nil
	}
	return Validation("unexpected argument: %s", args[count]).WithHint("Usage: %s", usage)
}
