// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"path/filepath"

	"github.com/bureau-foundation/dcos/lib/config"
	"github.com/bureau-foundation/dcos/lib/fsutil"
	"github.com/bureau-foundation/dcos/lib/trust"
	"github.com/bureau-foundation/dcos/lib/version"
)

// Profile is one configured cluster: the typed view of its dcos.toml
// plus where it lives and whether it is attached.
type Profile struct {
	ID         string
	Name       string
	URL        string
	TLS        trust.Policy
	Token      string
	ProviderID string
	Version    string
	Attached   bool

	// Dir is the profile directory, clusters/<ID>.
	Dir string

	// Config is the document the profile was read from.
	Config *config.Document
}

// FromDocument builds the profile stored in dir. The ID is the
// directory name unless the document records one; the name falls back
// to the ID.
func FromDocument(dir string, document *config.Document) *Profile {
	profile := &Profile{
		ID:         document.Display(config.KeyClusterID),
		Name:       document.Display(config.KeyClusterName),
		URL:        document.Display(config.KeyURL),
		TLS:        trust.ParsePolicy(document.Display(config.KeySSLVerify)),
		Token:      document.Display(config.KeyToken),
		ProviderID: document.Display(config.KeyTokenProvider),
		Version:    document.Display(config.KeyVersion),
		Dir:        dir,
		Config:     document,
	}
	if profile.ID == "" {
		profile.ID = filepath.Base(dir)
	}
	if profile.Name == "" {
		profile.Name = profile.ID
	}
	if profile.Version == "" {
		profile.Version = version.Unknown
	}
	return profile
}

// ApplyTo writes the profile's fields into document. Empty credentials
// are removed rather than written as empty strings.
func (p *Profile) ApplyTo(document *config.Document) {
	document.Set(config.KeyClusterName, p.Name)
	document.Set(config.KeyURL, p.URL)
	document.Set(config.KeySSLVerify, p.TLS.SSLVerify())
	setOrUnset(document, config.KeyToken, p.Token)
	setOrUnset(document, config.KeyTokenProvider, p.ProviderID)
	if p.Version != "" && p.Version != version.Unknown {
		document.Set(config.KeyVersion, p.Version)
	}
}

func setOrUnset(document *config.Document, key, value string) {
	if value == "" {
		document.Set(key, nil)
		return
	}
	document.Set(key, value)
}

// CAPath is the pinned bundle, or "" when the TLS policy does not pin.
func (p *Profile) CAPath() string {
	if p.TLS.Mode != trust.ModePinned {
		return ""
	}
	return p.TLS.CAPath
}

// ConfigPath is the profile's dcos.toml.
func (p *Profile) ConfigPath() string { return fsutil.ConfigPath(p.Dir) }

// Status is the reachability of a cluster as shown by `cluster list`.
type Status string

const (
	StatusAvailable    Status = "AVAILABLE"
	StatusUnavailable  Status = "UNAVAILABLE"
	StatusUnconfigured Status = "UNCONFIGURED"
)
