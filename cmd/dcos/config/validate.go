// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

func validateCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Summary: "Check the configuration against the schemas",
		Description: `Check every section of the attached cluster's dcos.toml against its
schema. Each violation is printed on its own line and the command exits
with status 1 if there are any.`,
		Usage: "dcos config validate",
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 0, "dcos config validate"); err != nil {
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
			violations, err := session.Clusters.ConfigStore(profile.Dir).ValidateAll()
			if err != nil {
				return err
			}
			if len(violations) == 0 {
				return nil
			}
			for _, violation := range violations {
				fmt.Fprintln(app.ErrOut(), violation)
			}
			return &cli.ExitError{Code: 1}
		},
	}
}
