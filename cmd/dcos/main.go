// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	"github.com/bureau-foundation/dcos/cmd/dcos/commands"
	"github.com/bureau-foundation/dcos/lib/session"
	"github.com/bureau-foundation/dcos/lib/version"
)

func main() {
	err := run(os.Args[1:])
	code, report := cli.ExitCode(err)
	if report {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	globals, rest, err := cli.ParseGlobals(args)
	if err != nil {
		return err
	}
	env, err := session.FromOS()
	if err != nil {
		return err
	}

	app := cli.NewApp(env, session.Options{})
	level, err := globals.Level(env.Verbosity, env.LogLevel, app.Deprecated)
	if err != nil {
		return err
	}
	app.Options.Logger = cli.NewLogger(app.ErrOut(), level)
	app.Options.Logger.Debug(version.Info())

	if globals.Version {
		return commands.PrintVersion(ctx, app)
	}
	return commands.Root(app).Execute(ctx, rest)
}
