// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"github.com/xeipuuv/gojsonschema"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

//go:embed schemas/*.jsonc
var schemaFiles embed.FS

// Property describes one key of a section schema.
type Property struct {
	Type        string `json:"type"`
	Format      string `json:"format,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Schema is the compiled JSON-Schema of one top-level section.
type Schema struct {
	Section    string
	Properties map[string]Property

	compiled *gojsonschema.Schema
}

var (
	schemaCacheMu sync.Mutex
	schemaCache   = map[string]*Schema{}
)

// Sections returns the names of every section that has a schema.
func Sections() []string {
	entries, err := fs.ReadDir(schemaFiles, "schemas")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// LoadSchema returns the schema of section. An unknown section is a
// NotFound error.
func LoadSchema(section string) (*Schema, error) {
	schemaCacheMu.Lock()
	defer schemaCacheMu.Unlock()

	if cached, ok := schemaCache[section]; ok {
		return cached, nil
	}

	source, err := schemaFiles.ReadFile("schemas/" + section + ".jsonc")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errdef.Absent("Subcommand '%s' is not configurable.", section)
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading schema %s: %w", section, err)
	}

	document := jsonc.ToJSON(source)

	var decoded struct {
		Properties map[string]Property `json:"properties"`
	}
	if err := json.Unmarshal(document, &decoded); err != nil {
		return nil, fmt.Errorf("config: decoding schema %s: %w", section, err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("config: compiling schema %s: %w", section, err)
	}

	schema := &Schema{Section: section, Properties: decoded.Properties, compiled: compiled}
	schemaCache[section] = schema
	return schema, nil
}

// Property returns the schema entry for key (the part after the section).
func (s *Schema) Property(key string) (Property, error) {
	property, ok := s.Properties[key]
	if !ok {
		return Property{}, errdef.Absent("No schema found for %s.%s", s.Section, key)
	}
	return property, nil
}

// Validate checks a section table against the schema and returns one
// line per violation, naming the offending key, sorted. A nil table
// validates as empty.
func (s *Schema) Validate(table map[string]any) ([]string, error) {
	if table == nil {
		table = map[string]any{}
	}
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(table))
	if err != nil {
		return nil, fmt.Errorf("config: validating section %s: %w", s.Section, err)
	}
	var violations []string
	for _, violation := range result.Errors() {
		field := s.Section
		if name := violation.Field(); name != "(root)" {
			field += "." + name
		}
		violations = append(violations, fmt.Sprintf("Error at %s: %s", field, violation.Description()))
	}
	sort.Strings(violations)
	return violations, nil
}

// SplitKey splits "section.subkey". A key without a section is a
// Validation error.
func SplitKey(key string) (section, subkey string, err error) {
	section, subkey, found := strings.Cut(key, ".")
	if !found || section == "" || subkey == "" {
		return "", "", errdef.InvalidInput(
			"Property name must have both a section and key: <section>.<key> - E.g. marathon.url")
	}
	return section, subkey, nil
}

// Validate checks section in post against its schema. Violations that
// already existed in pre do not fail the check on their own; any new
// violation fails it with every post violation listed.
func Validate(pre, post Reader, section string) error {
	schema, err := LoadSchema(section)
	if err != nil {
		return err
	}

	postViolations, err := schema.Validate(post.Section(section))
	if err != nil {
		return err
	}
	if len(postViolations) == 0 {
		return nil
	}

	preViolations, err := schema.Validate(pre.Section(section))
	if err != nil {
		return err
	}
	existing := map[string]bool{}
	for _, violation := range preViolations {
		existing[violation] = true
	}
	for _, violation := range postViolations {
		if !existing[violation] {
			return errdef.Malformed("%s", strings.Join(postViolations, "\n"))
		}
	}
	return nil
}

// KeyInfo documents one configurable key.
type KeyInfo struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Describe lists every key of every section schema, sorted by key.
func Describe() ([]KeyInfo, error) {
	var keys []KeyInfo
	for _, section := range Sections() {
		schema, err := LoadSchema(section)
		if err != nil {
			return nil, err
		}
		for name, property := range schema.Properties {
			keys = append(keys, KeyInfo{
				Key:         section + "." + name,
				Type:        property.Type,
				Description: property.Description,
			})
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Key < keys[j].Key })
	return keys, nil
}
