// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

// ParseValue coerces raw into the type the schema declares for key. The
// literal "null" yields nil, which callers treat as "unset". Surrounding
// single or double quotes are stripped first.
func ParseValue(property Property, key, raw string) (any, error) {
	value := unquote(raw)
	if value == "null" {
		return nil, nil
	}

	switch property.Type {
	case "string":
		if property.Format == "uri" {
			return parseURL(key, value)
		}
		return value, nil

	case "integer":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errdef.InvalidInput("Unable to parse %q as an int for %s", value, key)
		}
		return parsed, nil

	case "number":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errdef.InvalidInput("Unable to parse %q as a float for %s", value, key)
		}
		return parsed, nil

	case "boolean":
		switch strings.ToLower(value) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, errdef.InvalidInput("Unable to parse %q as a boolean for %s", value, key)

	case "array":
		var parsed []any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return nil, errdef.InvalidInput("Unable to parse %q as an array for %s: %v", value, key, err)
		}
		return parsed, nil

	case "object":
		var parsed map[string]any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return nil, errdef.InvalidInput("Unable to parse %q as a JSON object for %s: %v", value, key, err)
		}
		return parsed, nil

	default:
		return nil, fmt.Errorf("config: unknown schema type %q for %s", property.Type, key)
	}
}

// NormalizeURL defaults a scheme-less URL to https and trims trailing
// slashes, so that "cluster.example/" becomes "https://cluster.example".
func NormalizeURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		value = "https://" + value
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Host == "" {
		return "", errdef.InvalidInput("Unable to parse %q as a url", raw)
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed.String(), nil
}

func parseURL(key, value string) (string, error) {
	normalized, err := NormalizeURL(value)
	if err != nil {
		return "", errdef.InvalidInput("Unable to parse %q as a url for %s", value, key)
	}
	return normalized, nil
}

// FormatValue renders a stored value for display. Strings are shown
// verbatim, composite values as compact JSON.
func FormatValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case []any, map[string]any:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	default:
		return fmt.Sprint(typed)
	}
}

func unquote(value string) string {
	if len(value) > 1 {
		if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
