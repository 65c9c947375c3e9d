// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete dcos command tree.
package commands

import (
	"context"
	"fmt"
	"time"

	authcmd "github.com/bureau-foundation/dcos/cmd/dcos/auth"
	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	clustercmd "github.com/bureau-foundation/dcos/cmd/dcos/cluster"
	configcmd "github.com/bureau-foundation/dcos/cmd/dcos/config"
	"github.com/bureau-foundation/dcos/lib/httpclient"
	"github.com/bureau-foundation/dcos/lib/version"
)

// versionTimeout bounds the cluster version lookup of the version report.
const versionTimeout = 3 * time.Second

// Root builds and returns the complete dcos command tree.
func Root(app *cli.App) *cli.Command {
	return &cli.Command{
		Name: "dcos",
		Description: `Command line interface for DC/OS clusters.

Configure the clusters you work with, switch between them, and log in
to them. Global flags go before the command:

  -v, --verbose   increase verbosity (-v info, -vv debug)
      --version   print the CLI and cluster versions`,
		Usage: "dcos [-v|-vv] <command> [flags]",
		Subcommands: []*cli.Command{
			authcmd.Command(app),
			clustercmd.Command(app),
			configcmd.Command(app),
			{
				Name:    "version",
				Summary: "Print the CLI and cluster versions",
				Usage:   "dcos version",
				Run: func(ctx context.Context, args []string) error {
					if err := cli.ExactArgs(args, 0, "dcos version"); err != nil {
						return err
					}
					return PrintVersion(ctx, app)
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Set up a cluster and attach to it",
				Command:     "dcos cluster setup https://dcos.example.com",
			},
			{
				Description: "See which clusters are configured and reachable",
				Command:     "dcos cluster list",
			},
			{
				Description: "Log in again once the token has expired",
				Command:     "dcos auth login",
			},
			{
				Description: "Inspect the attached cluster's configuration",
				Command:     "dcos config show",
			},
		},
	}
}

// PrintVersion writes the CLI version and, when a cluster is attached,
// that cluster's version as key=value lines. An unreachable cluster is
// reported as N/A rather than failing.
func PrintVersion(ctx context.Context, app *cli.App) error {
	out := app.Out()
	fmt.Fprintln(out, "dcoscli.version="+version.Version)

	session, err := app.Session(ctx)
	if err != nil {
		return nil
	}
	profile, err := session.Attached()
	if err != nil {
		return nil
	}

	values := []string{"N/A", "N/A", "N/A", "N/A"}
	client, err := session.DCOS(profile, httpclient.Timeout(versionTimeout))
	if err == nil {
		clusterVersion, err := client.Version(ctx)
		if err == nil && clusterVersion.Version != version.Unknown {
			values = []string{
				clusterVersion.Version,
				clusterVersion.Variant,
				clusterVersion.ImageCommit,
				clusterVersion.BootstrapID,
			}
		}
	}
	fmt.Fprintln(out, "dcos.version="+values[0])
	fmt.Fprintln(out, "dcos.variant="+values[1])
	fmt.Fprintln(out, "dcos.commit="+values[2])
	fmt.Fprintln(out, "dcos.bootstrap-id="+values[3])
	return nil
}
