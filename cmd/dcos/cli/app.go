// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"io"
	"os"

	"github.com/bureau-foundation/dcos/lib/session"
)

// App is what command handlers close over: the resolved environment,
// the output streams, and a lazily opened [session.Session]. Commands
// that only print help never touch the filesystem.
type App struct {
	Env     session.Environment
	Options session.Options

	// Deprecated reports use of a deprecated feature.
	Deprecated func(msg string) error

	session *session.Session
}

// NewApp fills the unset streams of options with the process defaults.
func NewApp(env session.Environment, options session.Options) *App {
	if options.In == nil {
		options.In = os.Stdin
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.ErrOut == nil {
		options.ErrOut = os.Stderr
	}
	if env.Lookup == nil {
		env.Lookup = func(string) (string, bool) { return "", false }
	}
	return &App{
		Env:        env,
		Options:    options,
		Deprecated: Deprecation(options.ErrOut, env.Lookup),
	}
}

// Out is where command results go.
func (a *App) Out() io.Writer { return a.Options.Out }

// ErrOut is where notices and prompts go.
func (a *App) ErrOut() io.Writer { return a.Options.ErrOut }

// Session opens the session on first use.
func (a *App) Session(ctx context.Context) (*session.Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	opened, err := session.Open(ctx, a.Env, a.Options)
	if err != nil {
		return nil, err
	}
	a.session = opened
	return opened, nil
}
