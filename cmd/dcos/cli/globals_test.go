// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

func TestParseGlobals(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		globals Globals
		rest    []string
	}{
		{"none", []string{"cluster", "list"}, Globals{}, []string{"cluster", "list"}},
		{"verbose", []string{"-v", "cluster", "list"}, Globals{Verbosity: 1}, []string{"cluster", "list"}},
		{"very verbose", []string{"-vv", "auth", "login"}, Globals{Verbosity: 2}, []string{"auth", "login"}},
		{"log level", []string{"--log-level", "debug", "version"}, Globals{LogLevel: "debug"}, []string{"version"}},
		{"log level inline", []string{"--log-level=info", "version"}, Globals{LogLevel: "info"}, []string{"version"}},
		{"debug", []string{"--debug", "version"}, Globals{Debug: true}, []string{"version"}},
		{"version", []string{"--version"}, Globals{Version: true}, []string{}},
		{"stops at command", []string{"cluster", "-v"}, Globals{}, []string{"cluster", "-v"}},
		{"help", []string{"-v", "--help"}, Globals{Verbosity: 1}, []string{"--help"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			globals, rest, err := ParseGlobals(test.args)
			if err != nil {
				t.Fatalf("ParseGlobals(%v) error: %v", test.args, err)
			}
			if globals != test.globals {
				t.Errorf("globals = %+v, want %+v", globals, test.globals)
			}
			if len(rest) != len(test.rest) || (len(rest) > 0 && !reflect.DeepEqual(rest, test.rest)) {
				t.Errorf("rest = %v, want %v", rest, test.rest)
			}
		})
	}
}

func TestParseGlobals_UnknownFlag(t *testing.T) {
	_, _, err := ParseGlobals([]string{"--verison"})
	if err == nil {
		t.Fatal("ParseGlobals = nil error, want unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --version") {
		t.Errorf("error = %q, want suggestion", err)
	}
}

func TestGlobals_Level(t *testing.T) {
	tests := []struct {
		name         string
		globals      Globals
		envVerbosity int
		envLevel     string
		want         logrus.Level
		notice       string
	}{
		{name: "default", want: logrus.WarnLevel},
		{name: "-v", globals: Globals{Verbosity: 1}, want: logrus.InfoLevel},
		{name: "-vvv", globals: Globals{Verbosity: 3}, want: logrus.DebugLevel},
		{name: "flag beats environment", globals: Globals{Verbosity: 1}, envVerbosity: 2, want: logrus.InfoLevel},
		{name: "DCOS_VERBOSITY", envVerbosity: 2, want: logrus.DebugLevel},
		{name: "DCOS_LOG_LEVEL", envLevel: "error", want: logrus.ErrorLevel},
		{name: "--debug", globals: Globals{Debug: true}, want: logrus.DebugLevel, notice: "--debug flag is deprecated"},
		{name: "--log-level=info", globals: Globals{LogLevel: "info"}, want: logrus.InfoLevel, notice: "Please use the -v flag"},
		{name: "--log-level=error", globals: Globals{LogLevel: "error"}, want: logrus.WarnLevel, notice: "It is enabled by default"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var notices bytes.Buffer
			deprecated := Deprecation(&notices, func(string) (string, bool) { return "", false })
			level, err := test.globals.Level(test.envVerbosity, test.envLevel, deprecated)
			if err != nil {
				t.Fatalf("Level() error: %v", err)
			}
			if level != test.want {
				t.Errorf("Level() = %v, want %v", level, test.want)
			}
			if test.notice == "" && notices.Len() > 0 {
				t.Errorf("unexpected notice %q", notices.String())
			}
			if !strings.Contains(notices.String(), test.notice) {
				t.Errorf("notice = %q, want %q", notices.String(), test.notice)
			}
		})
	}
}

func TestGlobals_LevelInvalidName(t *testing.T) {
	deprecated := Deprecation(&bytes.Buffer{}, func(string) (string, bool) { return "", false })
	_, err := Globals{}.Level(0, "loud", deprecated)
	if !errdef.Is(err, errdef.Validation) {
		t.Errorf("Level() error = %v, want validation", err)
	}
}

func TestDeprecation_FailOnDeprecation(t *testing.T) {
	lookup := func(key string) (string, bool) { return "1", key == EnvFailOnDeprecation }
	var notices bytes.Buffer
	_, err := Globals{Debug: true}.Level(0, "", Deprecation(&notices, lookup))
	if err == nil {
		t.Fatal("Level() = nil error, want deprecation failure")
	}
	if !strings.Contains(notices.String(), "--debug flag is deprecated") {
		t.Errorf("notice = %q", notices.String())
	}
}

func TestNewLogger_MessageOnlyOffTerminal(t *testing.T) {
	var output bytes.Buffer
	logger := NewLogger(&output, logrus.InfoLevel)
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(output.String(), "hidden") {
		t.Errorf("debug entry logged at info level: %q", output.String())
	}
	if !strings.Contains(output.String(), `"msg":"shown"`) {
		t.Errorf("output = %q, want a JSON entry", output.String())
	}
}

func TestMessageFormatter(t *testing.T) {
	formatted, err := messageFormatter{}.Format(&logrus.Entry{Message: "Removed cluster: prod"})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if string(formatted) != "Removed cluster: prod\n" {
		t.Errorf("Format = %q", formatted)
	}
}
