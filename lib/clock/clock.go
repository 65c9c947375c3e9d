// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the wall clock so token expiry and timestamps
// can be tested deterministically. Production code injects Real(); tests
// inject Fake().
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }
