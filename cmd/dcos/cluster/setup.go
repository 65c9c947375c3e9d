// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"context"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	"github.com/bureau-foundation/dcos/lib/setup"
)

type setupParams struct {
	setup.Flags
}

func setupCommand(app *cli.App) *cli.Command {
	var params setupParams

	return &cli.Command{
		Name:    "setup",
		Summary: "Set up the CLI to communicate with a cluster",
		Description: `Configure a new cluster and attach to it.

Setup reaches the cluster at <url>, establishes trust in its certificate,
logs in, and stores the profile under the cluster's ID. When the cluster
serves a certificate the system does not trust, its CA is downloaded and
its fingerprint shown for confirmation before it is pinned. Running setup
again for a configured cluster replaces the profile.

DCOS_URL, DCOS_CLUSTER_URL and DCOS_CLUSTER are ignored during setup: the
URL argument takes precedence.`,
		Usage: "dcos cluster setup <url> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in with a password read from the environment",
				Command:     "dcos cluster setup https://dcos.example.com --username alice --password-env ALICE_PASSWORD",
			},
			{
				Description: "Log in as a service account",
				Command:     "dcos cluster setup https://dcos.example.com --username ci --private-key ./ci.pem",
			},
			{
				Description: "Trust a CA bundle you already have",
				Command:     "dcos cluster setup https://dcos.example.com --ca-certs ./dcos-ca.crt",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 1, "dcos cluster setup <url> [flags]"); err != nil {
				return err
			}
			if err := checkSetupFlags(params.Flags); err != nil {
				return err
			}
			session, err := app.Session(ctx)
			if err != nil {
				return err
			}
			_, err = session.Setup().Run(ctx, args[0], params.Flags)
			return err
		},
	}
}

// checkSetupFlags rejects flag combinations that cannot mean anything.
func checkSetupFlags(flags setup.Flags) error {
	if flags.Insecure && flags.CACerts != "" {
		return cli.Validation("--insecure and --ca-certs are mutually exclusive")
	}
	passwordSources := 0
	for _, source := range []string{flags.Password, flags.PasswordEnv, flags.PasswordFile} {
		if source != "" {
			passwordSources++
		}
	}
	if passwordSources > 1 {
		return cli.Validation("only one of --password, --password-env and --password-file may be set")
	}
	if flags.PrivateKey != "" && passwordSources > 0 {
		return cli.Validation("--private-key cannot be combined with a password")
	}
	return nil
}
