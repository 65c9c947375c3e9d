// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

func TestParseChallenge(t *testing.T) {
	cases := map[string]string{
		"":                               SchemeACSJWT,
		"acsjwt":                         SchemeACSJWT,
		`ACSJWT realm="dcos"`:            SchemeACSJWT,
		"oauthjwt":                       SchemeOAuthJWT,
		`Basic realm="mesos", charset=x`: SchemeBasic,
	}
	for header, want := range cases {
		challenge, err := ParseChallenge(header)
		require.NoError(t, err, "header %q", header)
		assert.Equal(t, want, challenge.Scheme, "header %q", header)
	}
}

func TestParseChallenge_Params(t *testing.T) {
	challenge, err := ParseChallenge(`Basic realm="mesos", charset="UTF-8"`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"realm": "mesos", "charset": "UTF-8"}, challenge.Params)
}

func TestParseChallenge_Unsupported(t *testing.T) {
	_, err := ParseChallenge("Negotiate abc")
	require.Error(t, err)
	assert.True(t, errdef.Is(err, errdef.Unsupported))
	assert.Contains(t, err.Error(), "Negotiate abc")
}
