// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

func logoutCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Summary: "Log out the CLI from the attached cluster",
		Usage:   "dcos auth logout",
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 0, "dcos auth logout"); err != nil {
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
			if err := session.Clusters.SaveToken(profile, "", ""); err != nil {
				return err
			}
			session.Logger.Info("Logout successful")
			return nil
		},
	}
}
