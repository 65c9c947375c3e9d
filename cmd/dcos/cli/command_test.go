// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

func execute(command *Command, args ...string) (string, error) {
	var help bytes.Buffer
	command.Help = &help
	err := command.Execute(context.Background(), args)
	return help.String(), err
}

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "dcos",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(_ context.Context, args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "cluster",
				Run: func(_ context.Context, args []string) error {
					called = "cluster"
					return nil
				},
			},
		},
	}

	if _, err := execute(root, "cluster"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "cluster" {
		t.Errorf("dispatched to %q, want %q", called, "cluster")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "dcos",
		Subcommands: []*Command{
			{
				Name: "cluster",
				Subcommands: []*Command{
					{
						Name: "attach",
						Run: func(_ context.Context, args []string) error {
							called = "cluster attach"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if _, err := execute(root, "cluster", "attach", "prod"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "cluster attach" {
		t.Errorf("dispatched to %q, want %q", called, "cluster attach")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "prod" {
		t.Errorf("args = %v, want [prod]", receivedArgs)
	}
}

func TestCommand_Execute_ParamsFlags(t *testing.T) {
	var params struct {
		JSONOutput
		Name string `flag:"name" desc:"custom name"`
	}
	var target string

	command := &Command{
		Name:   "setup",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if _, err := execute(command, "https://cluster.example", "--name", "prod", "--json"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if params.Name != "prod" {
		t.Errorf("Name = %q, want %q", params.Name, "prod")
	}
	if !params.OutputJSON {
		t.Error("OutputJSON = false, want true")
	}
	if target != "https://cluster.example" {
		t.Errorf("target = %q, want %q", target, "https://cluster.example")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	var params struct {
		Insecure bool   `flag:"insecure" desc:"skip verification"`
		CACerts  string `flag:"ca-certs" desc:"CA bundle"`
	}
	command := &Command{
		Name:   "setup",
		Params: func() any { return &params },
		Run:    func(context.Context, []string) error { return nil },
	}

	_, err := execute(command, "--insecrue")
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	message := err.Error()
	if !strings.Contains(message, "did you mean --insecure") {
		t.Errorf("error = %q, want suggestion for '--insecure'", message)
	}
	if !strings.Contains(message, "insecrue") {
		t.Errorf("error = %q, should mention the bad flag", message)
	}
	if !strings.Contains(message, "--help") {
		t.Errorf("error = %q, should point to --help", message)
	}
	if !errdef.Is(err, errdef.Validation) {
		t.Errorf("kind = %v, want validation", errdef.KindOf(err))
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	var params struct {
		Insecure bool `flag:"insecure" desc:"skip verification"`
	}
	command := &Command{
		Name:   "setup",
		Params: func() any { return &params },
		Run:    func(context.Context, []string) error { return nil },
	}

	_, err := execute(command, "--zzzzzzzzz")
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "dcos",
		Subcommands: []*Command{
			{Name: "cluster"},
			{Name: "config"},
			{Name: "version"},
		},
	}

	_, err := execute(root, "clustr")
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"cluster\"") {
		t.Errorf("error = %q, want suggestion for 'cluster'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "dcos",
		Subcommands: []*Command{
			{Name: "cluster"},
			{Name: "auth"},
		},
	}

	_, err := execute(root, "zzzzzzz")
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "dcos",
				Summary: "Manage DC/OS clusters",
				Subcommands: []*Command{
					{Name: "cluster", Summary: "Manage your DC/OS clusters"},
				},
			}

			help, err := execute(root, helpArg)
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
			if !strings.Contains(help, "Manage your DC/OS clusters") {
				t.Errorf("help output = %q, want the subcommand listing", help)
			}
		})
	}
}

func TestCommand_Execute_HelpAfterFlags(t *testing.T) {
	var params struct {
		Name string `flag:"name" desc:"custom name"`
	}
	ran := false
	command := &Command{
		Name:   "setup",
		Params: func() any { return &params },
		Run: func(context.Context, []string) error {
			ran = true
			return nil
		},
	}

	help, err := execute(command, "--name", "prod", "--help")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if ran {
		t.Error("Run was called for --help")
	}
	if !strings.Contains(help, "--name") {
		t.Errorf("help output = %q, want the flag listing", help)
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "dcos",
		Subcommands: []*Command{
			{Name: "cluster", Summary: "Manage your DC/OS clusters"},
		},
	}

	help, err := execute(root)
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
	if !strings.Contains(help, "Usage:") {
		t.Errorf("help output = %q, want usage", help)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "dcos",
		Description: "Command-line interface for DC/OS clusters.",
		Subcommands: []*Command{
			{Name: "auth", Summary: "Authenticate to DC/OS cluster"},
			{Name: "cluster", Summary: "Manage your DC/OS clusters"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Set up a new cluster",
				Command:     "dcos cluster setup https://dcos.example.com",
			},
			{
				Description: "List configured clusters",
				Command:     "dcos cluster list",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Command-line interface for DC/OS clusters.",
		"Usage:",
		"dcos <command> [flags]",
		"Commands:",
		"auth",
		"Authenticate to DC/OS cluster",
		"cluster",
		"Manage your DC/OS clusters",
		"Examples:",
		"dcos cluster setup https://dcos.example.com",
		"dcos cluster list",
		"Run 'dcos <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "dcos"}
	cluster := &Command{Name: "cluster", parent: root}
	setup := &Command{Name: "setup", parent: cluster}

	if got := root.fullName(); got != "dcos" {
		t.Errorf("root.fullName() = %q, want %q", got, "dcos")
	}
	if got := cluster.fullName(); got != "dcos cluster" {
		t.Errorf("cluster.fullName() = %q, want %q", got, "dcos cluster")
	}
	if got := setup.fullName(); got != "dcos cluster setup" {
		t.Errorf("setup.fullName() = %q, want %q", got, "dcos cluster setup")
	}
}
