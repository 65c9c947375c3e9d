// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"io"
	"strings"
	"unicode/utf8"
)

// MaxResponseSize bounds every response body read: 64 MB. Cluster API
// responses are small JSON documents; the bound only exists so a
// misbehaving endpoint cannot exhaust memory.
const MaxResponseSize int64 = 64 << 20

// maxErrorBody bounds how much of a failed response is quoted in an
// error message.
const maxErrorBody = 4096

func readBody(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody renders a response body for an error message: trimmed, and
// truncated to a few kilobytes on a rune boundary.
func ErrorBody(data []byte) string {
	text := strings.TrimSpace(string(data))
	if len(text) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
