// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	"github.com/bureau-foundation/dcos/lib/login"
)

type loginParams struct {
	login.Flags
	Token string `flag:"token" desc:"store this token without contacting a login provider"`
}

func loginCommand(app *cli.App) *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Log in to the attached cluster",
		Description: `Log in to the attached cluster and store the token.

The provider is chosen from --provider, then from the credentials given
(a private key selects a service account provider, a password a
password provider), then from the only provider the cluster offers.
Missing credentials are prompted for on a terminal. A token given with
--token is stored as is.`,
		Usage:  "dcos auth login [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 0, "dcos auth login [flags]"); err != nil {
				return err
			}
			session, err := app.Session(ctx)
			if err != nil {
				return err
			}
			profile, err := session.Attached()
			if err != nil {
				return err
			}
			if params.Token != "" {
				if err := session.Clusters.SaveToken(profile, params.Token, params.Provider); err != nil {
					return err
				}
				session.Logger.Info("Login successful")
				return nil
			}
			credentials, err := params.Flags.Resolve(login.LookupFunc(session.Env.Lookup), session.Fs)
			if err != nil {
				return err
			}
			acquirer, err := session.Acquirer(profile)
			if err != nil {
				return err
			}

			result, err := acquirer.Login(ctx, credentials)
			if errors.Is(err, login.ErrAuthDisabled) {
				session.Logger.Warn("This cluster does not require authenticated requests.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := session.Clusters.SaveToken(profile, result.Token, result.ProviderID); err != nil {
				return err
			}
			session.Logger.Info("Login successful")
			return nil
		},
	}
}
