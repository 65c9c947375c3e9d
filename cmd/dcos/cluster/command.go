// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

// Command returns the "cluster" command group.
func Command(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "cluster",
		Summary: "Manage your DC/OS clusters",
		Description: `Manage the DC/OS clusters this CLI knows about.

Each configured cluster is a profile under $DCOS_DIR/clusters/<cluster-id>
holding its dcos.toml and, when the cluster CA is pinned, dcos_ca.crt.
Exactly one cluster is attached at a time; commands that talk to a
cluster use the attached one unless DCOS_CLUSTER names another.`,
		Subcommands: []*cli.Command{
			setupCommand(app),
			listCommand(app),
			attachCommand(app),
			renameCommand(app),
			removeCommand(app),
			openCommand(app),
		},
		Examples: []cli.Example{
			{
				Description: "Set up a cluster and attach to it",
				Command:     "dcos cluster setup https://dcos.example.com --username alice --password-env ALICE_PASSWORD",
			},
			{
				Description: "List the configured clusters and their status",
				Command:     "dcos cluster list",
			},
			{
				Description: "Switch to another cluster by name or ID prefix",
				Command:     "dcos cluster attach prod",
			},
		},
	}
}
