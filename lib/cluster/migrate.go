// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"context"
	"fmt"
	"io"

	"github.com/bureau-foundation/dcos/lib/config"
	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/fsutil"
)

// EnvLegacyConfig points at a single-file configuration from before the
// per-cluster layout.
const EnvLegacyConfig = "DCOS_CONFIG"

const deprecationNotice = "DCOS_CONFIG is deprecated, please unset it and use `dcos cluster attach` to select a cluster."

// Prober returns the cluster ID of the cluster a legacy document points
// at.
type Prober func(ctx context.Context, document *config.Document) (string, error)

// Migrate moves a legacy single-file configuration into the per-cluster
// layout. It only acts when no profile exists yet. A failed probe leaves
// the legacy file in place and is logged, not returned: commands keep
// working without the migration.
func (s *Store) Migrate(ctx context.Context, probe Prober, notices io.Writer) error {
	legacyPath, fromEnv := s.lookup(EnvLegacyConfig)
	if !fromEnv || legacyPath == "" {
		legacyPath, fromEnv = s.layout.LegacyConfig(), false
	}

	profiles, err := s.List()
	if err != nil {
		return err
	}
	if len(profiles) > 0 || !fsutil.Exists(s.fs, legacyPath) {
		if fromEnv {
			fmt.Fprintln(notices, deprecationNotice)
		}
		return nil
	}

	data, err := fsutil.ReadSecureFile(s.fs, legacyPath)
	if errdef.Is(err, errdef.PermissionsTooOpen) {
		return err
	}
	if err != nil {
		return fmt.Errorf("cluster: reading legacy config %s: %w", legacyPath, err)
	}
	document, err := config.Parse(data, legacyPath)
	if err != nil {
		s.logger.WithError(err).Warn("legacy config is not migratable")
		return nil
	}
	if document.Display(config.KeyURL) == "" {
		s.logger.WithField("path", legacyPath).Debug("legacy config has no core.dcos_url, not migrating")
		return nil
	}

	id, err := probe(ctx, document)
	if err != nil {
		s.logger.WithError(err).WithField("path", legacyPath).Warn("could not reach cluster to migrate legacy config")
		return nil
	}
	if err := validID(id); err != nil {
		s.logger.WithError(err).Warn("cluster reported an unusable ID, not migrating")
		return nil
	}

	dir := s.layout.ClusterDir(id)
	if err := fsutil.EnsureDir(s.fs, dir); err != nil {
		return err
	}
	if err := fsutil.WriteAtomic(s.fs, fsutil.ConfigPath(dir), data, fsutil.SecretMode); err != nil {
		return fmt.Errorf("cluster: migrating %s: %w", legacyPath, err)
	}
	if err := s.fs.Remove(legacyPath); err != nil {
		s.logger.WithError(err).WithField("path", legacyPath).Warn("could not remove migrated legacy config")
	}
	if err := s.attachDir(dir); err != nil {
		return err
	}

	fmt.Fprintf(notices, "Your config file has been migrated to the per-cluster layout in %s.\n", dir)
	if fromEnv {
		fmt.Fprintln(notices, deprecationNotice)
	}
	return nil
}
