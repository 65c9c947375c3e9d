// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bureau-foundation/dcos/lib/cluster"
	"github.com/bureau-foundation/dcos/lib/config"
	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/fsutil"
)

// Environment variables read once per process.
const (
	EnvDir       = "DCOS_DIR"
	EnvVerbosity = "DCOS_VERBOSITY"
	EnvLogLevel  = "DCOS_LOG_LEVEL"
	EnvPager     = "DCOS_PAGER_COMMAND"
)

// Environment is the process environment as the CLI sees it.
type Environment struct {
	// Root is the absolute configuration root, $DCOS_DIR or ~/.dcos.
	Root string

	ClusterOverride string
	LegacyConfig    string
	Verbosity       int
	LogLevel        string
	PagerCommand    string

	// Lookup reads any other variable (DCOS_<SECTION>_<KEY>,
	// credentials).
	Lookup config.LookupFunc
}

// FromOS resolves the environment of the running process.
func FromOS() (Environment, error) {
	return Resolve(os.LookupEnv)
}

// Resolve builds an Environment from lookup.
func Resolve(lookup config.LookupFunc) (Environment, error) {
	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	root := get(EnvDir)
	if root == "" {
		defaultRoot, err := fsutil.DefaultRoot()
		if err != nil {
			return Environment{}, err
		}
		root = defaultRoot
	}
	absolute, err := filepath.Abs(root)
	if err != nil {
		return Environment{}, errdef.Wrap(errdef.Validation, err, "Invalid %s %q.", EnvDir, root)
	}

	environment := Environment{
		Root:            absolute,
		ClusterOverride: get(cluster.EnvCluster),
		LegacyConfig:    get(cluster.EnvLegacyConfig),
		LogLevel:        strings.ToLower(get(EnvLogLevel)),
		PagerCommand:    get(EnvPager),
		Lookup:          lookup,
	}
	if raw := get(EnvVerbosity); raw != "" {
		verbosity, err := strconv.Atoi(raw)
		if err != nil || verbosity < 0 {
			return Environment{}, errdef.InvalidInput("Invalid %s %q: expected a non-negative integer.", EnvVerbosity, raw)
		}
		environment.Verbosity = verbosity
	}
	return environment, nil
}
