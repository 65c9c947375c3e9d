// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config implements the "dcos config" command group: reading
// and editing the attached cluster's dcos.toml against the section
// schemas.
package config

import (
	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
)

// Command returns the "config" command group.
func Command(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Manage the attached cluster's configuration",
		Description: `Read and edit the configuration of the attached cluster.

Values are checked against the schema of their section before they are
written. Environment variables override the file: core.dcos_url is
read from DCOS_URL, core.timeout from DCOS_TIMEOUT, and so on.`,
		Subcommands: []*cli.Command{
			setCommand(app),
			showCommand(app),
			unsetCommand(app),
			keysCommand(app),
			validateCommand(app),
		},
		Examples: []cli.Example{
			{
				Description: "Raise the request timeout",
				Command:     "dcos config set core.timeout 10",
			},
			{
				Description: "Show the effective cluster URL",
				Command:     "dcos config show core.dcos_url",
			},
			{
				Description: "List every key the schemas define",
				Command:     "dcos config keys --json",
			},
		},
	}
}
