// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

func unsetCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "unset",
		Summary: "Remove a configuration value",
		Usage:   "dcos config unset <key>",
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 1, "dcos config unset <key>"); err != nil {
				return err
			}
			session, err := app.Session(ctx)
			if err != nil {
				return err
			}
			profile, err := session.Attached()
			if err != nil {
				return err
			}
			message, err := session.Clusters.ConfigStore(profile.Dir).UnsetKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(app.ErrOut(), message)
			return nil
		},
	}
}
