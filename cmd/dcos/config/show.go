// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"
	"sort"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	libconfig "github.com/bureau-foundation/dcos/lib/config"
	"github.com/bureau-foundation/dcos/lib/errdef"
)

const maskedToken = "********"

func showCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "show",
		Summary: "Print configuration values",
		Description: `Print the effective value of <key>, taking environment overrides into
account. Without <key>, print every set key and its value; the token is
masked in that listing.`,
		Usage: "dcos config show [<key>]",
		Run: func(ctx context.Context, args []string) error {
			if err := cli.MaxArgs(args, 1, "dcos config show [<key>]"); err != nil {
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
			resolver := session.Resolver(profile)

			if len(args) == 1 {
				value, source := resolver.Lookup(args[0])
				if source == libconfig.SourceUnset || value == nil {
					return errdef.Absent("unknown key %q", args[0])
				}
				fmt.Fprintln(app.Out(), libconfig.FormatValue(value))
				return nil
			}

			keys, err := effectiveKeys(profile.Config, resolver)
			if err != nil {
				return err
			}
			for _, key := range keys {
				value := resolver.String(key)
				if key == libconfig.KeyToken {
					value = maskedToken
				}
				fmt.Fprintf(app.Out(), "%s %s\n", key, value)
			}
			return nil
		},
	}
}

// effectiveKeys returns the keys set in the file plus the schema keys set
// only through the environment, sorted.
func effectiveKeys(document *libconfig.Document, resolver *libconfig.Resolver) ([]string, error) {
	seen := make(map[string]bool)
	if document != nil {
		for _, key := range document.Keys() {
			seen[key] = true
		}
	}
	described, err := libconfig.Describe()
	if err != nil {
		return nil, err
	}
	for _, info := range described {
		if _, source := resolver.Lookup(info.Key); source == libconfig.SourceEnv {
			seen[info.Key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
