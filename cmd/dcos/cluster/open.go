// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"context"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	libcluster "github.com/bureau-foundation/dcos/lib/cluster"
	"github.com/bureau-foundation/dcos/lib/errdef"
)

func openCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "open",
		Summary: "Open the cluster UI in the browser",
		Usage:   "dcos cluster open [<cluster>]",
		Run: func(ctx context.Context, args []string) error {
			if err := cli.MaxArgs(args, 1, "dcos cluster open [<cluster>]"); err != nil {
				return err
			}
			session, err := app.Session(ctx)
			if err != nil {
				return err
			}

			var (
				profile *libcluster.Profile
				target  string
			)
			if len(args) == 1 {
				// A named cluster opens its own URL, not an
				// environment override.
				if profile, err = session.Clusters.Get(args[0]); err != nil {
					return err
				}
				target = profile.URL
			} else {
				if profile, err = session.Attached(); err != nil {
					return err
				}
				target = session.URL(profile)
			}
			if target == "" {
				return errdef.Missing("Cluster %s has no URL configured.", profile.Name).
					WithHint("Run `dcos cluster setup <url>` to configure it.")
			}
			return session.Opener.Open(ctx, target)
		},
	}
}
