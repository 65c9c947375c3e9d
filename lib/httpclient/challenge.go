// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"strings"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

// Challenge schemes a cluster may send with a 401.
const (
	SchemeACSJWT   = "acsjwt"
	SchemeOAuthJWT = "oauthjwt"
	SchemeBasic    = "basic"
)

// Challenge is a parsed WWW-Authenticate header.
type Challenge struct {
	// Scheme is the lowercased scheme token.
	Scheme string

	// Params holds the auth-params following the scheme (realm=...).
	Params map[string]string
}

// ParseChallenge parses a WWW-Authenticate header value. An empty header
// is treated as acsjwt, which is what clusters that predate the header
// imply. Schemes other than acsjwt, oauthjwt, and Basic are Unsupported.
func ParseChallenge(header string) (Challenge, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Challenge{Scheme: SchemeACSJWT, Params: map[string]string{}}, nil
	}

	scheme, rest, _ := strings.Cut(header, " ")
	challenge := Challenge{
		Scheme: strings.ToLower(scheme),
		Params: parseParams(rest),
	}
	switch challenge.Scheme {
	case SchemeACSJWT, SchemeOAuthJWT, SchemeBasic:
		return challenge, nil
	}
	return Challenge{}, errdef.New(errdef.Unsupported,
		"Server responded with an HTTP 'www-authenticate' field of '%s', DC/OS only supports ['oauthjwt', 'acsjwt']", header)
}

func parseParams(raw string) map[string]string {
	params := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || key == "" {
			continue
		}
		params[strings.ToLower(strings.TrimSpace(key))] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return params
}
