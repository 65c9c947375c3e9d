// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"context"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	libcluster "github.com/bureau-foundation/dcos/lib/cluster"
)

type removeParams struct {
	All         bool `json:"all"         flag:"all"         desc:"remove all clusters"`
	Unavailable bool `json:"unavailable" flag:"unavailable" desc:"remove the clusters that do not answer"`
}

func removeCommand(app *cli.App) *cli.Command {
	var params removeParams

	return &cli.Command{
		Name:    "remove",
		Summary: "Remove a configured cluster from the CLI",
		Description: `Remove one cluster, every cluster (--all), or every cluster that does
not answer a version probe (--unavailable). Removing the attached
cluster leaves no cluster attached.`,
		Usage: "dcos cluster remove (<cluster> | --all | --unavailable)",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := cli.MaxArgs(args, 1, "dcos cluster remove (<cluster> | --all | --unavailable)"); err != nil {
				return err
			}
			bulk := params.All || params.Unavailable
			if bulk && len(args) == 1 {
				return cli.Validation("cannot accept both a cluster name and the --all / --unavailable option")
			}
			if !bulk && len(args) == 0 {
				return cli.Validation("either a cluster name or one of the --all / --unavailable option must be passed")
			}

			session, err := app.Session(ctx)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				if _, err := session.Clusters.Remove(args[0]); err != nil {
					return err
				}
				session.Logger.Infof("Removed cluster: %s", args[0])
				return nil
			}

			if params.All {
				removed, err := session.Clusters.RemoveAll()
				if err != nil {
					return err
				}
				for _, profile := range removed {
					session.Logger.Infof("Removed cluster: %s", profile.Name)
				}
				return nil
			}

			profiles, err := session.Clusters.List()
			if err != nil {
				return err
			}
			for _, row := range describe(ctx, session, profiles) {
				if row.Status != libcluster.StatusUnavailable {
					continue
				}
				if _, err := session.Clusters.Remove(row.ClusterID); err != nil {
					return err
				}
				session.Logger.Infof("Removed cluster: %s", row.Name)
			}
			return nil
		},
	}
}
