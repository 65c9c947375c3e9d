// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	"github.com/bureau-foundation/dcos/lib/login"
)

type listProvidersParams struct {
	cli.JSONOutput
}

func listProvidersCommand(app *cli.App) *cli.Command {
	var params listProvidersParams

	return &cli.Command{
		Name:    "list-providers",
		Summary: "List the login providers of a cluster",
		Description: `List the login providers a cluster advertises. Without <url>, the
attached cluster is asked. With --json, the providers are printed as the
cluster describes them, keyed by provider ID.`,
		Usage:  "dcos auth list-providers [<url>] [--json]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := cli.MaxArgs(args, 1, "dcos auth list-providers [<url>] [--json]"); err != nil {
				return err
			}
			session, err := app.Session(ctx)
			if err != nil {
				return err
			}

			var acquirer *login.Acquirer
			if len(args) == 1 {
				acquirer, err = session.LoginClient(args[0])
			} else {
				profile, attachedErr := session.Attached()
				if attachedErr != nil {
					return attachedErr
				}
				acquirer, err = session.Acquirer(profile)
			}
			if err != nil {
				return err
			}

			providers, err := acquirer.Providers(ctx)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(app.Out(), providers); done {
				return err
			}

			table := cli.NewTable(app.Out(), "PROVIDER ID", "LOGIN METHOD")
			for _, provider := range providers.Sorted() {
				table.AppendRow([]any{provider.ID, provider.Summary()})
			}
			table.Render()
			return nil
		},
	}
}
