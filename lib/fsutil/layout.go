// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// File and directory names inside the CLI root.
const (
	// ClustersDirName is the directory holding one subdirectory per
	// cluster profile.
	ClustersDirName = "clusters"

	// ConfigFile is the TOML configuration of a profile, and also the
	// name of the legacy global config at the root.
	ConfigFile = "dcos.toml"

	// CAFile is the pinned cluster CA certificate of a profile.
	CAFile = "dcos_ca.crt"

	// AttachedFile is the empty marker whose presence makes a profile
	// the attached one.
	AttachedFile = "attached"

	// DefaultRootName is the root directory name under the user's home
	// when DCOS_DIR is not set.
	DefaultRootName = ".dcos"
)

// Layout locates files in the CLI's on-disk tree:
//
//	<root>/
//	  dcos.toml                 legacy global config (optional)
//	  clusters/
//	    <cluster_id>/
//	      dcos.toml
//	      dcos_ca.crt           pinned CA (optional)
//	      attached              marker (optional)
type Layout struct {
	Root string
}

// DefaultRoot returns "$HOME/.dcos".
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("fsutil: cannot determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultRootName), nil
}

// ClustersDir returns <root>/clusters.
func (l Layout) ClustersDir() string {
	return filepath.Join(l.Root, ClustersDirName)
}

// ClusterDir returns <root>/clusters/<id>.
func (l Layout) ClusterDir(id string) string {
	return filepath.Join(l.ClustersDir(), id)
}

// LegacyConfig returns <root>/dcos.toml.
func (l Layout) LegacyConfig() string {
	return filepath.Join(l.Root, ConfigFile)
}

// ConfigPath returns the dcos.toml path inside a profile directory.
func ConfigPath(profileDir string) string {
	return filepath.Join(profileDir, ConfigFile)
}

// CAPath returns the dcos_ca.crt path inside a profile directory.
func CAPath(profileDir string) string {
	return filepath.Join(profileDir, CAFile)
}

// AttachedPath returns the attached marker path inside a profile directory.
func AttachedPath(profileDir string) string {
	return filepath.Join(profileDir, AttachedFile)
}
