// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the "dcos auth" commands, which manage the
// token of the attached cluster.
package auth

import (
	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

// Command returns the "auth" command group.
func Command(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "auth",
		Summary: "Authenticate to DC/OS cluster",
		Description: `Log in to and out of the attached cluster.

The token is stored as core.dcos_acs_token in the cluster profile,
readable by its owner only. Requests that the cluster rejects with a
stale token trigger a fresh login automatically when credentials are
available (DCOS_USERNAME and DCOS_PASSWORD, DCOS_PRIVATE_KEY_PATH, or a
terminal to prompt on).`,
		Subcommands: []*cli.Command{
			loginCommand(app),
			logoutCommand(app),
			listProvidersCommand(app),
		},
		Examples: []cli.Example{
			{
				Description: "Log in with a password read from a file",
				Command:     "dcos auth login --username alice --password-file ~/.dcos-password",
			},
			{
				Description: "Show how a cluster lets you log in",
				Command:     "dcos auth list-providers https://dcos.example.com",
			},
		},
	}
}
