// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"

	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/fsutil"
)

// Well-known keys.
const (
	KeyURL           = "core.dcos_url"
	KeyToken         = "core.dcos_acs_token"
	KeyTokenProvider = "core.dcos_acs_token_provider"
	KeyVersion       = "core.dcos_version"
	KeySSLVerify     = "core.ssl_verify"
	KeyTimeout       = "core.timeout"
	KeyPromptLogin   = "core.prompt_login"
	KeyMesosURL      = "core.mesos_master_url"
	KeyClusterName   = "cluster.name"
	KeyClusterID     = "cluster.id"
)

// Store persists one profile's document.
//
// Every dcos.toml may hold a token, so every read enforces owner-only
// permissions and every write produces mode 0600. There is no code path
// that writes a token through anything other than [Store.Save].
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store for the TOML file at path.
func NewStore(filesystem afero.Fs, path string) *Store {
	return &Store{fs: filesystem, path: path}
}

// Path returns the file path.
func (s *Store) Path() string { return s.path }

// Load reads and parses the file. A missing file yields an empty
// document; a file readable by group or other is PermissionsTooOpen.
func (s *Store) Load() (*Document, error) {
	data, err := fsutil.ReadSecureFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data, s.path)
}

// Save writes document atomically with mode 0600.
func (s *Store) Save(document *Document) error {
	data, err := document.Marshal()
	if err != nil {
		return err
	}
	return fsutil.WriteAtomic(s.fs, s.path, data, fsutil.SecretMode)
}

// Update loads the document, applies mutate to a copy, validates every
// schema-backed section against the pre-state, and saves. When mutate
// or validation fails the file is not touched.
func (s *Store) Update(mutate func(document *Document) error) (*Document, error) {
	pre, err := s.Load()
	if err != nil {
		return nil, err
	}
	post := pre.Clone()
	if err := mutate(post); err != nil {
		return nil, err
	}
	for _, section := range post.Sections() {
		if _, err := LoadSchema(section); err != nil {
			// Sections owned by plugins carry no schema here.
			continue
		}
		if err := Validate(pre, post, section); err != nil {
			return nil, err
		}
	}
	if err := s.Save(post); err != nil {
		return nil, err
	}
	return post, nil
}

// SetString parses raw according to key's schema, stores it, and returns
// the human-readable change message. Changing core.dcos_url removes the
// token, since a token is only valid for the cluster that issued it.
func (s *Store) SetString(key, raw string) (string, error) {
	section, subkey, err := SplitKey(key)
	if err != nil {
		return "", err
	}
	schema, err := LoadSchema(section)
	if err != nil {
		return "", err
	}
	property, err := schema.Property(subkey)
	if err != nil {
		return "", err
	}
	value, err := ParseValue(property, key, raw)
	if err != nil {
		return "", err
	}

	var (
		oldValue    any
		existed     bool
		tokenUnset  bool
		valueUnset  = value == nil
		messageBase = fmt.Sprintf("[%s]: ", key)
	)
	_, err = s.Update(func(document *Document) error {
		oldValue, existed = document.Get(key)
		if key == KeyURL && existed && !reflect.DeepEqual(oldValue, value) {
			if _, hadToken := document.Get(KeyToken); hadToken {
				_, _ = document.Unset(KeyToken)
				_, _ = document.Unset(KeyTokenProvider)
				tokenUnset = true
			}
		}
		document.Set(key, value)
		return nil
	})
	if err != nil {
		return "", err
	}

	message := messageBase
	switch {
	case valueUnset:
		message += "removed"
	case key == KeyToken:
		switch {
		case !existed:
			message += "set"
		case reflect.DeepEqual(oldValue, value):
			message += "already set to that value"
		default:
			message += "changed"
		}
	case !existed:
		message += fmt.Sprintf("set to '%s'", FormatValue(value))
	case reflect.DeepEqual(oldValue, value):
		message += fmt.Sprintf("already set to '%s'", FormatValue(oldValue))
	default:
		message += fmt.Sprintf("changed from '%s' to '%s'", FormatValue(oldValue), FormatValue(value))
	}
	if tokenUnset {
		message += fmt.Sprintf("\n[%s]: removed", KeyToken)
	}
	return message, nil
}

// UnsetKey removes key and returns the change message. Unsetting
// core.dcos_url also removes the token.
func (s *Store) UnsetKey(key string) (string, error) {
	if _, _, err := SplitKey(key); err != nil {
		return "", err
	}
	tokenUnset := false
	_, err := s.Update(func(document *Document) error {
		if _, err := document.Unset(key); err != nil {
			return err
		}
		if key == KeyURL {
			if _, err := document.Unset(KeyToken); err == nil {
				tokenUnset = true
				_, _ = document.Unset(KeyTokenProvider)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	message := fmt.Sprintf("Removed [%s]", key)
	if tokenUnset {
		message += fmt.Sprintf(" and [%s]", KeyToken)
	}
	return message, nil
}

// ValidateAll checks every schema-backed section of the stored document
// and returns all violations.
func (s *Store) ValidateAll() ([]string, error) {
	document, err := s.Load()
	if err != nil {
		return nil, err
	}
	var violations []string
	for _, section := range document.Sections() {
		schema, err := LoadSchema(section)
		if errdef.Is(err, errdef.NotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		sectionViolations, err := schema.Validate(document.Section(section))
		if err != nil {
			return nil, err
		}
		violations = append(violations, sectionViolations...)
	}
	return violations, nil
}
