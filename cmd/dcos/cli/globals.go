// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Globals are the flags accepted before the first command word.
type Globals struct {
	// Verbosity is the number of -v flags: 1 selects info, 2 or more
	// select debug.
	Verbosity int

	// LogLevel is the deprecated --log-level value.
	LogLevel string

	// Debug is the deprecated --debug flag.
	Debug bool

	// Version requests the version report instead of a command.
	Version bool
}

// ParseGlobals consumes the global flags at the front of args and
// returns the rest. Parsing stops at the first command word, so
// subcommand flags such as `cluster list -v` are left alone.
func ParseGlobals(args []string) (Globals, []string, error) {
	var (
		globals Globals
		help    bool
	)
	flagSet := pflag.NewFlagSet("dcos", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(io.Discard)
	flagSet.CountVarP(&globals.Verbosity, "verbose", "v", "increase verbosity (-v info, -vv debug)")
	flagSet.StringVar(&globals.LogLevel, "log-level", "", "log level (deprecated, use -v or -vv)")
	flagSet.BoolVar(&globals.Debug, "debug", false, "debug logging (deprecated, use -vv)")
	flagSet.BoolVar(&globals.Version, "version", false, "print the CLI and cluster versions")
	flagSet.BoolVarP(&help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if suggestion := suggestFlag(args, flagSet); suggestion != "" {
			return globals, nil, Validation("%v (did you mean %s?)\n\nRun 'dcos --help' for usage.", err, suggestion)
		}
		return globals, nil, Validation("%v\n\nRun 'dcos --help' for usage.", err)
	}
	rest := flagSet.Args()
	if help {
		rest = append([]string{"--help"}, rest...)
	}
	return globals, rest, nil
}

// Level resolves the log level. Flags take precedence over the
// environment's verbosity, which takes precedence over its log level
// name; without any of them the level is warn. Deprecated flags print a
// notice through deprecated.
func (g Globals) Level(envVerbosity int, envLevel string, deprecated func(string) error) (logrus.Level, error) {
	if g.Debug {
		if err := deprecated("The --debug flag is deprecated. Please use the -vv flag."); err != nil {
			return logrus.WarnLevel, err
		}
		return logrus.DebugLevel, nil
	}
	switch {
	case g.Verbosity > 1:
		return logrus.DebugLevel, nil
	case g.Verbosity == 1:
		return logrus.InfoLevel, nil
	}

	if g.LogLevel != "" {
		level, err := parseLevel(g.LogLevel)
		if err != nil {
			return logrus.WarnLevel, err
		}
		var notice string
		switch level {
		case logrus.DebugLevel:
			notice = "The --log-level flag is deprecated. Please use the -vv flag."
		case logrus.InfoLevel:
			notice = "The --log-level flag is deprecated. Please use the -v flag."
		default:
			notice = fmt.Sprintf("The --log-level=%s flag is deprecated. It is enabled by default.", g.LogLevel)
			level = logrus.WarnLevel
		}
		if err := deprecated(notice); err != nil {
			return logrus.WarnLevel, err
		}
		return level, nil
	}

	switch {
	case envVerbosity > 1:
		return logrus.DebugLevel, nil
	case envVerbosity == 1:
		return logrus.InfoLevel, nil
	}
	if envLevel != "" {
		return parseLevel(envLevel)
	}
	return logrus.WarnLevel, nil
}

// parseLevel accepts the logrus level names plus "critical".
func parseLevel(name string) (logrus.Level, error) {
	if strings.EqualFold(name, "critical") {
		return logrus.ErrorLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.WarnLevel, Validation("invalid log level %q", name).
			WithHint("Valid levels are debug, info, warning, error and critical.")
	}
	return level, nil
}

// EnvFailOnDeprecation turns every deprecation notice into an error.
const EnvFailOnDeprecation = "DCOS_CLI_FAIL_ON_DEPRECATION"

// Deprecation returns the function commands call when a deprecated
// feature is used. It prints msg to w and, when DCOS_CLI_FAIL_ON_DEPRECATION
// is set, fails.
func Deprecation(w io.Writer, lookup func(string) (string, bool)) func(msg string) error {
	return func(msg string) error {
		fmt.Fprintln(w, msg)
		if _, ok := lookup(EnvFailOnDeprecation); ok {
			return Validation("usage of deprecated feature (%s=1)", EnvFailOnDeprecation)
		}
		return nil
	}
}
