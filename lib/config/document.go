// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

// Reader is the read-only projection of a [Document].
type Reader interface {
	// Get returns the value at a dotted path. Tables are returned as
	// map[string]any.
	Get(path string) (any, bool)

	// Display returns the value at path formatted for display, or "" if
	// it is unset.
	Display(path string) string

	// Keys returns the full dotted path of every leaf, sorted.
	Keys() []string

	// Section returns a copy of a top-level table, or nil.
	Section(name string) map[string]any
}

// Document is a parsed TOML tree addressed by dotted paths. The zero
// value is not usable; construct with [NewDocument] or [Parse].
type Document struct {
	tree map[string]any
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{tree: map[string]any{}}
}

// Parse decodes TOML data. path is only used in the error message.
func Parse(data []byte, path string) (*Document, error) {
	tree := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, errdef.Wrap(errdef.ConfigMalformed, err,
				"Error parsing config file at [%s]: %v", path, err)
		}
	}
	return &Document{tree: tree}, nil
}

// Marshal encodes the document as TOML.
func (d *Document) Marshal() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := toml.NewEncoder(&buffer)
	if err := encoder.Encode(d.tree); err != nil {
		return nil, fmt.Errorf("config: encoding TOML: %w", err)
	}
	return buffer.Bytes(), nil
}

// View returns d as a [Reader].
func (d *Document) View() Reader { return d }

// Get returns the value at path.
func (d *Document) Get(path string) (any, bool) {
	var current any = d.tree
	for _, segment := range strings.Split(path, ".") {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = table[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Display returns the value at path formatted for display.
func (d *Document) Display(path string) string {
	value, ok := d.Get(path)
	if !ok || value == nil {
		return ""
	}
	return FormatValue(value)
}

// Set stores value at path, creating intermediate tables. A nil value
// removes the key.
func (d *Document) Set(path string, value any) {
	if value == nil {
		_, _ = d.Unset(path)
		return
	}
	segments := strings.Split(path, ".")
	table := d.tree
	for _, segment := range segments[:len(segments)-1] {
		next, ok := table[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			table[segment] = next
		}
		table = next
	}
	table[segments[len(segments)-1]] = value
}

// Unset removes the leaf at path and returns its previous value. A
// missing path is NotFound; a path naming a table is Ambiguous and the
// message lists the properties under it.
func (d *Document) Unset(path string) (any, error) {
	value, ok := d.Get(path)
	if !ok {
		return nil, errdef.Absent("Property %q doesn't exist", path)
	}
	if table, isTable := value.(map[string]any); isTable {
		var message strings.Builder
		fmt.Fprintf(&message, "Property %q doesn't fully specify a value - possible properties are:", path)
		for _, key := range leafKeys(path, table) {
			message.WriteString("\n")
			message.WriteString(key)
		}
		return nil, errdef.Ambiguity("%s", message.String())
	}

	segments := strings.Split(path, ".")
	parent := d.tree
	for _, segment := range segments[:len(segments)-1] {
		parent = parent[segment].(map[string]any)
	}
	delete(parent, segments[len(segments)-1])
	return value, nil
}

// Keys returns every leaf path, sorted.
func (d *Document) Keys() []string {
	return leafKeys("", d.tree)
}

// Section returns a deep copy of a top-level table.
func (d *Document) Section(name string) map[string]any {
	table, ok := d.tree[name].(map[string]any)
	if !ok {
		return nil
	}
	return copyTable(table)
}

// Sections returns the names of the top-level tables, sorted.
func (d *Document) Sections() []string {
	var names []string
	for name, value := range d.tree {
		if _, ok := value.(map[string]any); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	return &Document{tree: copyTable(d.tree)}
}

func leafKeys(prefix string, table map[string]any) []string {
	var keys []string
	for key, value := range table {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			keys = append(keys, leafKeys(full, nested)...)
			continue
		}
		keys = append(keys, full)
	}
	sort.Strings(keys)
	return keys
}

func copyTable(table map[string]any) map[string]any {
	result := make(map[string]any, len(table))
	for key, value := range table {
		result[key] = copyValue(value)
	}
	return result
}

func copyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return copyTable(typed)
	case []any:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = copyValue(item)
		}
		return items
	default:
		return value
	}
}
