// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	"github.com/bureau-foundation/dcos/cmd/dcos/commands"
	"github.com/bureau-foundation/dcos/lib/session"
)

// TestCommandTree walks the production command tree and checks that
// every command below the root has a summary for its parent's listing
// and that sibling names are unique.
func TestCommandTree(t *testing.T) {
	root := commands.Root(cli.NewApp(session.Environment{Root: t.TempDir()}, session.Options{}))
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing Summary", strings.Join(path, " "))
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: neither Run nor Subcommands", strings.Join(path, " "))
		}
		seen := make(map[string]bool)
		for _, sub := range command.Subcommands {
			if seen[sub.Name] {
				t.Errorf("%s: duplicate subcommand %q", strings.Join(path, " "), sub.Name)
			}
			seen[sub.Name] = true
		}
	})
}

// TestCommandTreeFlags builds every command's flag set, which panics on
// a malformed params struct.
func TestCommandTreeFlags(t *testing.T) {
	root := commands.Root(cli.NewApp(session.Environment{Root: t.TempDir()}, session.Options{}))
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		if command.Params == nil {
			return
		}
		flagSet := cli.FlagsFromParams(command.Name, command.Params())
		if !flagSet.HasFlags() {
			t.Errorf("%s: Params declares no flags", strings.Join(path, " "))
		}
	})
}

func TestRun_UnknownGlobalFlag(t *testing.T) {
	err := run([]string{"--verbos", "cluster", "list"})
	if err == nil {
		t.Fatal("expected an error for an unknown global flag")
	}
	if !strings.Contains(err.Error(), "--verbose") {
		t.Errorf("error %q does not suggest --verbose", err)
	}
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
