// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

func setCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "set",
		Summary: "Set a configuration value",
		Description: `Set <key> to <value> in the attached cluster's dcos.toml. The value is
parsed according to the key's schema type, so "true" becomes a boolean
and "10" an integer. Changing core.dcos_url also removes the stored
token.`,
		Usage: "dcos config set <key> <value>",
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 2, "dcos config set <key> <value>"); err != nil {
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
			message, err := session.Clusters.ConfigStore(profile.Dir).SetString(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(app.ErrOut(), message)
			return nil
		},
	}
}
