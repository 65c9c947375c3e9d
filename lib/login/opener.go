// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package login

import (
	"context"
	"os/exec"
	"runtime"
)

// Opener shows a URL to the operator, usually in a browser.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to [Opener].
type OpenerFunc func(ctx context.Context, url string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// BrowserOpener opens URLs with the desktop's handler. It fails on hosts
// without one, which callers treat as non-fatal.
type BrowserOpener struct{}

// Open starts the platform URL handler and returns without waiting for
// the browser.
func (BrowserOpener) Open(ctx context.Context, url string) error {
	var command *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		command = exec.CommandContext(ctx, "open", url)
	case "windows":
		command = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		command = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := command.Start(); err != nil {
		return err
	}
	go func() { _ = command.Wait() }()
	return nil
}
