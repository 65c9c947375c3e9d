// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	libconfig "github.com/bureau-foundation/dcos/lib/config"
)

type keysParams struct {
	cli.JSONOutput
}

func keysCommand(app *cli.App) *cli.Command {
	var params keysParams

	return &cli.Command{
		Name:    "keys",
		Summary: "List the configuration keys",
		Usage:   "dcos config keys [--json]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 0, "dcos config keys [--json]"); err != nil {
				return err
			}
			keys, err := libconfig.Describe()
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(app.Out(), keys); done {
				return err
			}

			table := cli.NewTable(app.Out(), "KEY", "TYPE", "DESCRIPTION")
			for _, key := range keys {
				table.AppendRow([]any{key.Key, key.Type, key.Description})
			}
			table.Render()
			return nil
		},
	}
}
