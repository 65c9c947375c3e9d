// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cluster manages the set of configured clusters: one profile
// directory per cluster under <root>/clusters, at most one of them
// marked attached with an empty "attached" file.
//
// Profiles under construction live in draft directories whose names
// start with ".setup-". Listing never returns a draft, so a setup that
// dies halfway leaves nothing a command could pick up.
package cluster

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/config"
	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/fsutil"
)

// EnvCluster selects the current cluster by name or ID for one process
// without touching the attached marker.
const EnvCluster = "DCOS_CLUSTER"

// DraftPrefix starts the name of every directory setup is still writing.
const DraftPrefix = ".setup-"

// ErrExists is returned by Materialize when the target profile exists.
var ErrExists = errors.New("cluster: profile already exists")

// Store reads and writes the profiles under one root.
type Store struct {
	fs     afero.Fs
	layout fsutil.Layout
	lookup config.LookupFunc
	logger *logrus.Logger
}

// NewStore returns a store over layout. lookup resolves DCOS_CLUSTER;
// nil disables the override.
func NewStore(filesystem afero.Fs, layout fsutil.Layout, lookup config.LookupFunc, logger *logrus.Logger) *Store {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{fs: filesystem, layout: layout, lookup: lookup, logger: logger}
}

// Layout returns the directory layout the store works in.
func (s *Store) Layout() fsutil.Layout { return s.layout }

// Fs returns the filesystem the store works on.
func (s *Store) Fs() afero.Fs { return s.fs }

// ConfigStore returns the TOML store of the profile in dir.
func (s *Store) ConfigStore(dir string) *config.Store {
	return config.NewStore(s.fs, fsutil.ConfigPath(dir))
}

// List returns every committed profile, sorted by name then ID. Broken
// profiles are logged and skipped, except that a profile readable by
// others fails the listing.
func (s *Store) List() ([]*Profile, error) {
	entries, err := afero.ReadDir(s.fs, s.layout.ClustersDir())
	if errors.Is(err, fs.ErrNotExist) {
		return []*Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cluster: reading %s: %w", s.layout.ClustersDir(), err)
	}

	profiles := []*Profile{}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), DraftPrefix) {
			continue
		}
		dir := s.layout.ClusterDir(entry.Name())
		if !fsutil.Exists(s.fs, fsutil.ConfigPath(dir)) {
			continue
		}
		profile, err := s.load(dir)
		if errdef.Is(err, errdef.PermissionsTooOpen) {
			return nil, err
		}
		if err != nil {
			s.logger.WithError(err).WithField("dir", dir).Warn("skipping unreadable cluster profile")
			continue
		}
		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Name != profiles[j].Name {
			return profiles[i].Name < profiles[j].Name
		}
		return profiles[i].ID < profiles[j].ID
	})
	return profiles, nil
}

func (s *Store) load(dir string) (*Profile, error) {
	document, err := s.ConfigStore(dir).Load()
	if err != nil {
		return nil, err
	}
	profile := FromDocument(dir, document)
	profile.ID = filepath.Base(dir)
	profile.Attached = fsutil.Exists(s.fs, fsutil.AttachedPath(dir))
	return profile, nil
}

// Get resolves selector to one profile: an exact ID, else an exact
// name, else a unique ID or name prefix.
func (s *Store) Get(selector string) (*Profile, error) {
	profiles, err := s.List()
	if err != nil {
		return nil, err
	}
	return selectProfile(profiles, selector)
}

func selectProfile(profiles []*Profile, selector string) (*Profile, error) {
	if selector == "" {
		return nil, errdef.InvalidInput("A cluster name or ID is required.")
	}
	for _, profile := range profiles {
		if profile.ID == selector {
			return profile, nil
		}
	}

	var named []*Profile
	for _, profile := range profiles {
		if profile.Name == selector {
			named = append(named, profile)
		}
	}
	if len(named) == 1 {
		return named[0], nil
	}
	if len(named) > 1 {
		return nil, ambiguous(selector, named)
	}

	var prefixed []*Profile
	for _, profile := range profiles {
		if strings.HasPrefix(profile.ID, selector) || strings.HasPrefix(profile.Name, selector) {
			prefixed = append(prefixed, profile)
		}
	}
	switch len(prefixed) {
	case 0:
		return nil, errdef.Absent("Cluster [%s] does not exist", selector).
			WithHint("Run `dcos cluster list` to see the configured clusters.")
	case 1:
		return prefixed[0], nil
	}
	return nil, ambiguous(selector, prefixed)
}

func ambiguous(selector string, matches []*Profile) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Multiple clusters matching %q, please use the exact cluster ID.", selector)
	for _, profile := range matches {
		fmt.Fprintf(&builder, "\n  %s (%s)", profile.ID, profile.Name)
	}
	return errdef.Ambiguity("%s", builder.String())
}

// Attached resolves the current cluster: DCOS_CLUSTER when set, else
// the profile carrying the marker, else the only profile (which is then
// marked).
func (s *Store) Attached() (*Profile, error) {
	if selector, ok := s.lookup(EnvCluster); ok && selector != "" {
		return s.Get(selector)
	}

	profiles, err := s.List()
	if err != nil {
		return nil, err
	}

	var attached []*Profile
	for _, profile := range profiles {
		if profile.Attached {
			attached = append(attached, profile)
		}
	}
	switch len(attached) {
	case 1:
		return attached[0], nil
	case 0:
	default:
		return nil, errdef.Ambiguity("Multiple clusters are attached.").
			WithHint("Run `dcos cluster attach <cluster-name>` to pick one.")
	}

	if len(profiles) == 1 {
		if err := s.attachDir(profiles[0].Dir); err != nil {
			return nil, err
		}
		profiles[0].Attached = true
		return profiles[0], nil
	}
	return nil, errdef.Missing("No cluster is attached. Please run `dcos cluster attach <cluster-name>`.")
}

// Attach makes id the attached cluster.
func (s *Store) Attach(id string) error {
	dir := s.layout.ClusterDir(id)
	if !fsutil.Exists(s.fs, fsutil.ConfigPath(dir)) {
		return errdef.Absent("Cluster [%s] does not exist", id)
	}
	return s.attachDir(dir)
}

// AttachDraft marks a draft attached while setup runs.
func (s *Store) AttachDraft(draft *Draft) error {
	return s.attachDir(draft.Dir)
}

// Detach removes every attached marker, drafts included.
func (s *Store) Detach() error {
	entries, err := afero.ReadDir(s.fs, s.layout.ClustersDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cluster: reading %s: %w", s.layout.ClustersDir(), err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		marker := fsutil.AttachedPath(s.layout.ClusterDir(entry.Name()))
		if err := s.fs.Remove(marker); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cluster: detaching %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (s *Store) attachDir(dir string) error {
	if err := s.Detach(); err != nil {
		return err
	}
	return fsutil.EnsureFile(s.fs, fsutil.AttachedPath(dir), 0o644)
}

// Rename sets the display name of the selected cluster. Names are
// unique across profiles.
func (s *Store) Rename(selector, name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errdef.InvalidInput("The new cluster name must not be empty.")
	}
	profiles, err := s.List()
	if err != nil {
		return nil, err
	}
	profile, err := selectProfile(profiles, selector)
	if err != nil {
		return nil, err
	}
	for _, other := range profiles {
		if other.ID != profile.ID && other.Name == name {
			return nil, errdef.Ambiguity("A cluster named %q already exists", name)
		}
	}

	document, err := s.ConfigStore(profile.Dir).Update(func(document *config.Document) error {
		document.Set(config.KeyClusterName, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	renamed := FromDocument(profile.Dir, document)
	renamed.ID = profile.ID
	renamed.Attached = profile.Attached
	return renamed, nil
}

// Remove deletes the selected cluster's profile directory.
func (s *Store) Remove(selector string) (*Profile, error) {
	profile, err := s.Get(selector)
	if err != nil {
		return nil, err
	}
	if err := s.fs.RemoveAll(profile.Dir); err != nil {
		return nil, fmt.Errorf("cluster: removing %s: %w", profile.Dir, err)
	}
	return profile, nil
}

// RemoveAll deletes every committed profile and returns them.
func (s *Store) RemoveAll() ([]*Profile, error) {
	profiles, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, profile := range profiles {
		if err := s.fs.RemoveAll(profile.Dir); err != nil {
			return nil, fmt.Errorf("cluster: removing %s: %w", profile.Dir, err)
		}
	}
	return profiles, nil
}

// Save writes profile's fields into its document and persists it.
func (s *Store) Save(profile *Profile) error {
	document := config.NewDocument()
	if profile.Config != nil {
		document = profile.Config.Clone()
	}
	profile.ApplyTo(document)
	if err := s.ConfigStore(profile.Dir).Save(document); err != nil {
		return err
	}
	profile.Config = document
	return nil
}

// SaveToken records a token and the provider that issued it.
func (s *Store) SaveToken(profile *Profile, token, providerID string) error {
	document, err := s.ConfigStore(profile.Dir).Update(func(document *config.Document) error {
		setOrUnset(document, config.KeyToken, token)
		setOrUnset(document, config.KeyTokenProvider, providerID)
		return nil
	})
	if err != nil {
		return err
	}
	profile.Token = token
	profile.ProviderID = providerID
	profile.Config = document
	return nil
}

// Draft is a profile directory setup is still writing.
type Draft struct {
	ID  string
	Dir string
}

// ConfigPath is the draft's dcos.toml.
func (d *Draft) ConfigPath() string { return fsutil.ConfigPath(d.Dir) }

// ReserveDraft creates a fresh draft directory.
func (s *Store) ReserveDraft() (*Draft, error) {
	id := DraftPrefix + uuid.NewString()
	dir := s.layout.ClusterDir(id)
	if err := fsutil.EnsureDir(s.fs, dir); err != nil {
		return nil, err
	}
	return &Draft{ID: id, Dir: dir}, nil
}

// Discard removes the draft.
func (s *Store) Discard(draft *Draft) error {
	if err := s.fs.RemoveAll(draft.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cluster: discarding draft %s: %w", draft.ID, err)
	}
	return nil
}

func validID(id string) error {
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return errdef.InvalidInput("Invalid cluster ID %q.", id)
	}
	return nil
}

// Materialize renames draft to clusters/<id>. It returns ErrExists
// without touching anything when that profile already exists.
func (s *Store) Materialize(draft *Draft, id string) (*Profile, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	target := s.layout.ClusterDir(id)
	if fsutil.Exists(s.fs, target) {
		return nil, ErrExists
	}
	if err := s.fs.Rename(draft.Dir, target); err != nil {
		return nil, fmt.Errorf("cluster: committing %s: %w", id, err)
	}
	return s.load(target)
}

// Replace materializes draft over an existing clusters/<id>: the old
// profile is moved aside, the draft renamed in, and the old one deleted.
// A failed rename puts the old profile back.
func (s *Store) Replace(draft *Draft, id string) (*Profile, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	target := s.layout.ClusterDir(id)
	aside := s.layout.ClusterDir(DraftPrefix + uuid.NewString() + "-old")
	if err := s.fs.Rename(target, aside); err != nil {
		return nil, fmt.Errorf("cluster: moving aside %s: %w", id, err)
	}
	if err := s.fs.Rename(draft.Dir, target); err != nil {
		if restoreErr := s.fs.Rename(aside, target); restoreErr != nil {
			s.logger.WithError(restoreErr).WithField("dir", aside).Error("could not restore previous profile")
		}
		return nil, fmt.Errorf("cluster: committing %s: %w", id, err)
	}
	if err := s.fs.RemoveAll(aside); err != nil {
		s.logger.WithError(err).WithField("dir", aside).Warn("could not delete previous profile")
	}
	return s.load(target)
}
