// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"context"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

func renameCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "rename",
		Summary: "Rename a configured cluster",
		Usage:   "dcos cluster rename <cluster> <name>",
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 2, "dcos cluster rename <cluster> <name>"); err != nil {
				return err
			}
			session, err := app.Session(ctx)
			if err != nil {
				return err
			}
			if _, err := session.Clusters.Rename(args[0], args[1]); err != nil {
				return err
			}
			session.Logger.Infof("Renamed %s to %s", args[0], args[1])
			return nil
		},
	}
}
