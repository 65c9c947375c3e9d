// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestEnvNames(t *testing.T) {
	cases := map[string][]string{
		"core.dcos_url":       {"DCOS_URL", "DCOS_DCOS_URL"},
		"core.dcos_acs_token": {"DCOS_ACS_TOKEN", "DCOS_DCOS_ACS_TOKEN"},
		"core.timeout":        {"DCOS_TIMEOUT"},
		"core.ssl_verify":     {"DCOS_SSL_VERIFY"},
		"marathon.url":        {"DCOS_MARATHON_URL"},
		"package.cosmos_url":  {"DCOS_PACKAGE_COSMOS_URL"},
		"job.service-name":    {"DCOS_JOB_SERVICE_NAME"},
		"nosection":           nil,
	}
	for key, want := range cases {
		assert.Equal(t, want, EnvNames(key), "EnvNames(%q)", key)
	}
}

func TestResolver_EnvironmentWins(t *testing.T) {
	document, err := Parse([]byte(sampleTOML), "x")
	require.NoError(t, err)

	resolver := NewResolver(document, mapLookup(map[string]string{
		"DCOS_URL":     "https://override.example",
		"DCOS_TIMEOUT": "42",
	}))

	value, source := resolver.Lookup("core.dcos_url")
	assert.Equal(t, "https://override.example", value)
	assert.Equal(t, SourceEnv, source)

	timeout, ok := resolver.Int("core.timeout")
	assert.True(t, ok)
	assert.Equal(t, int64(42), timeout)
}

func TestResolver_RawNameBeforePrefixed(t *testing.T) {
	resolver := NewResolver(NewDocument(), mapLookup(map[string]string{
		"DCOS_URL":      "https://raw.example",
		"DCOS_DCOS_URL": "https://prefixed.example",
	}))
	assert.Equal(t, "https://raw.example", resolver.String("core.dcos_url"))

	resolver = NewResolver(NewDocument(), mapLookup(map[string]string{
		"DCOS_DCOS_URL": "https://prefixed.example",
	}))
	assert.Equal(t, "https://prefixed.example", resolver.String("core.dcos_url"))
}

func TestResolver_FallsBackToFile(t *testing.T) {
	document, err := Parse([]byte(sampleTOML), "x")
	require.NoError(t, err)
	resolver := NewResolver(document, nil)

	value, source := resolver.Lookup("cluster.name")
	assert.Equal(t, "prod", value)
	assert.Equal(t, SourceFile, source)

	_, source = resolver.Lookup("core.ssh_user")
	assert.Equal(t, SourceUnset, source)

	assert.True(t, resolver.Bool("core.prompt_login", true))
}

func TestResolver_UncoercibleEnvIsRaw(t *testing.T) {
	resolver := NewResolver(NewDocument(), mapLookup(map[string]string{
		"DCOS_TIMEOUT": "soon",
	}))

	value, source := resolver.Lookup("core.timeout")
	assert.Equal(t, "soon", value)
	assert.Equal(t, SourceEnv, source)

	_, ok := resolver.Int("core.timeout")
	assert.False(t, ok)
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		name     string
		property Property
		raw      string
		want     any
	}{
		{name: "string", property: Property{Type: "string"}, raw: "core", want: "core"},
		{name: "quoted string", property: Property{Type: "string"}, raw: `"core"`, want: "core"},
		{name: "integer", property: Property{Type: "integer"}, raw: "7", want: int64(7)},
		{name: "number", property: Property{Type: "number"}, raw: "1.5", want: 1.5},
		{name: "boolean", property: Property{Type: "boolean"}, raw: "False", want: false},
		{name: "array", property: Property{Type: "array"}, raw: `["a", 1]`, want: []any{"a", float64(1)}},
		{name: "object", property: Property{Type: "object"}, raw: `{"a": true}`, want: map[string]any{"a": true}},
		{name: "null clears", property: Property{Type: "integer"}, raw: "null", want: nil},
		{name: "uri", property: Property{Type: "string", Format: "uri"}, raw: "http://10.0.0.1:8080/", want: "http://10.0.0.1:8080"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			value, err := ParseValue(testCase.property, "section.key", testCase.raw)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, value)
		})
	}
}
