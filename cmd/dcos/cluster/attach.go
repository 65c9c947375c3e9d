// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"context"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

func attachCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "attach",
		Summary: "Attach the CLI to a cluster",
		Description: `Make <cluster> the attached cluster.

<cluster> is a cluster ID, a cluster name, or a prefix of either that
matches exactly one configured cluster.`,
		Usage: "dcos cluster attach <cluster>",
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 1, "dcos cluster attach <cluster>"); err != nil {
				return err
			}
			session, err := app.Session(ctx)
			if err != nil {
				return err
			}
			profile, err := session.Clusters.Get(args[0])
			if err != nil {
				return err
			}
			if err := session.Clusters.Attach(profile.ID); err != nil {
				return err
			}
			session.Logger.Infof("Attached to cluster %s", profile.Name)
			return nil
		},
	}
}
