// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1}, // substitution
		{"abc", "ab", 1},  // deletion
		{"ab", "abc", 1},  // insertion
		{"abc", "bac", 2}, // transposition (counted as 2 edits)
		{"kitten", "sitting", 3},
		{"cluster", "clsuter", 2},
		{"attach", "atach", 1},
		{"setup", "steup", 2},
	}

	for _, test := range tests {
		t.Run(test.a+"->"+test.b, func(t *testing.T) {
			if got := levenshtein(test.a, test.b); got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
			if reverse := levenshtein(test.b, test.a); reverse != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.b, test.a, reverse, test.want)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "setup"},
		{Name: "list"},
		{Name: "attach"},
		{Name: "rename"},
		{Name: "remove"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"stup", "setup"},
		{"lst", "list"},
		{"atach", "attach"},
		{"attachh", "attach"},
		{"renam", "rename"},
		{"zzzzzzzzz", ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := suggestCommand(test.input, commands); got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("setup", pflag.ContinueOnError)
		flagSet.Bool("insecure", false, "")
		flagSet.Bool("no-check", false, "")
		flagSet.String("ca-certs", "", "")
		flagSet.BoolP("verbose", "v", false, "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"long typo", []string{"--insecrue"}, "--insecure"},
		{"with value", []string{"--ca-cert=/tmp/ca.pem"}, "--ca-certs"},
		{"after known flag", []string{"--insecure", "--nocheck"}, "--no-check"},
		{"known shorthand skipped", []string{"-v", "--no-chek"}, "--no-check"},
		{"nothing close", []string{"--zzzzzzzzzz"}, ""},
		{"positional only", []string{"https://cluster.example"}, ""},
		{"after terminator", []string{"--", "--insecrue"}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
