// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
)

// Source identifies where a resolved value came from.
type Source string

const (
	SourceEnv   Source = "env"
	SourceFile  Source = "file"
	SourceUnset Source = "unset"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvNames returns the environment variables consulted for key, in
// order. "section.subkey" maps to DCOS_SECTION_SUBKEY. For the core
// section the section is dropped (DCOS_SUBKEY), and when the subkey
// already begins with "dcos" the bare subkey is tried first, so
// core.dcos_url resolves DCOS_URL before DCOS_DCOS_URL.
func EnvNames(key string) []string {
	section, subkey, found := strings.Cut(key, ".")
	if !found {
		return nil
	}
	normalize := func(value string) string {
		return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(value))
	}
	if section != "core" {
		return []string{"DCOS_" + normalize(section) + "_" + normalize(subkey)}
	}
	upper := normalize(subkey)
	if strings.HasPrefix(upper, "DCOS") {
		return []string{upper, "DCOS_" + upper}
	}
	return []string{"DCOS_" + upper}
}

// Resolver answers "what is the effective value of key": an environment
// override when one is set, else the document's value.
type Resolver struct {
	document  Reader
	lookupEnv LookupFunc
}

// NewResolver returns a resolver over document. A nil lookup disables
// environment overrides.
func NewResolver(document Reader, lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &Resolver{document: document, lookupEnv: lookup}
}

// Lookup returns the effective value of key and where it came from.
// Environment values are coerced through the section schema, so
// DCOS_TIMEOUT=10 yields int64(10). A value that cannot be coerced is
// returned as the raw string.
func (r *Resolver) Lookup(key string) (any, Source) {
	for _, name := range EnvNames(key) {
		raw, ok := r.lookupEnv(name)
		if !ok {
			continue
		}
		return coerceEnv(key, raw), SourceEnv
	}
	if value, ok := r.document.Get(key); ok {
		return value, SourceFile
	}
	return nil, SourceUnset
}

// String returns the effective value of key formatted for display, or ""
// when it is unset.
func (r *Resolver) String(key string) string {
	value, source := r.Lookup(key)
	if source == SourceUnset || value == nil {
		return ""
	}
	return FormatValue(value)
}

// Int returns the effective integer value of key.
func (r *Resolver) Int(key string) (int64, bool) {
	value, source := r.Lookup(key)
	if source == SourceUnset {
		return 0, false
	}
	switch typed := value.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case float64:
		return int64(typed), true
	}
	return 0, false
}

// Bool returns the effective boolean value of key, or fallback when the
// key is unset or not a boolean.
func (r *Resolver) Bool(key string, fallback bool) bool {
	value, source := r.Lookup(key)
	if source == SourceUnset {
		return fallback
	}
	if typed, ok := value.(bool); ok {
		return typed
	}
	return fallback
}

func coerceEnv(key, raw string) any {
	section, subkey, err := SplitKey(key)
	if err != nil {
		return raw
	}
	schema, err := LoadSchema(section)
	if err != nil {
		return raw
	}
	property, err := schema.Property(subkey)
	if err != nil {
		return raw
	}
	value, err := ParseValue(property, key, raw)
	if err != nil || value == nil {
		return raw
	}
	return value
}
