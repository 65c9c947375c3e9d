// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trust

import (
	"context"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/httpclient"
)

func serverPEM(server *httptest.Server) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})
}

func newCAServer(t *testing.T, getAllowed bool) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != caInfoPath {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method == http.MethodGet && !getAllowed {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]string{"certificate": string(serverPEM(server))},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

type scriptedConfirmer struct {
	answer  error
	message string
}

func (c *scriptedConfirmer) Confirm(message string) error {
	c.message = message
	return c.answer
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{
		"":                   System,
		"true":               System,
		"TRUE":               System,
		"false":              Insecure,
		"/etc/dcos/ca.crt":   Pinned("/etc/dcos/ca.crt"),
		" /tmp/dcos_ca.crt ": Pinned("/tmp/dcos_ca.crt"),
	}
	for raw, want := range cases {
		policy := ParsePolicy(raw)
		assert.Equal(t, want, policy, "ParsePolicy(%q)", raw)
		assert.Equal(t, policy, ParsePolicy(policy.SSLVerify()), "round trip of %q", raw)
	}
}

func TestPolicy_TLSConfig(t *testing.T) {
	filesystem := afero.NewMemMapFs()

	config, err := System.TLSConfig(filesystem)
	require.NoError(t, err)
	assert.Nil(t, config)

	config, err = Insecure.TLSConfig(filesystem)
	require.NoError(t, err)
	assert.True(t, config.InsecureSkipVerify)

	_, err = Pinned("/missing.crt").TLSConfig(filesystem)
	assert.True(t, errdef.Is(err, errdef.ConfigMalformed))

	require.NoError(t, afero.WriteFile(filesystem, "/garbage.crt", []byte("not pem"), 0o644))
	_, err = Pinned("/garbage.crt").TLSConfig(filesystem)
	assert.True(t, errdef.Is(err, errdef.ConfigMalformed))
}

func TestStore_NeedsPinning(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), nil)

	tlsServer := newCAServer(t, true)
	needs, err := store.NeedsPinning(context.Background(), tlsServer.URL)
	require.NoError(t, err)
	assert.True(t, needs)

	plain := httptest.NewServer(http.NotFoundHandler())
	defer plain.Close()
	needs, err = store.NeedsPinning(context.Background(), plain.URL)
	require.NoError(t, err)
	assert.False(t, needs)
}

func TestStore_NeedsPinningSurfacesUnreachable(t *testing.T) {
	server := httptest.NewTLSServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	_, err := NewStore(afero.NewMemMapFs(), nil).NeedsPinning(context.Background(), address)
	assert.True(t, errdef.Is(err, errdef.Unreachable), "error: %v", err)
}

func TestStore_FetchCA(t *testing.T) {
	for _, getAllowed := range []bool{true, false} {
		server := newCAServer(t, getAllowed)
		authority, err := NewStore(afero.NewMemMapFs(), nil).FetchCA(context.Background(), server.URL)
		require.NoError(t, err, "GET allowed: %v", getAllowed)
		assert.Equal(t, server.Certificate().Raw, authority.Certificate.Raw)
	}
}

func TestFingerprint(t *testing.T) {
	server := newCAServer(t, true)
	fingerprint := Fingerprint(server.Certificate())

	parts := strings.Split(fingerprint, ":")
	assert.Len(t, parts, 32)
	assert.Equal(t, strings.ToUpper(fingerprint), fingerprint)
}

func TestConfirm(t *testing.T) {
	server := newCAServer(t, true)
	certificate := server.Certificate()

	confirmer := &scriptedConfirmer{}
	require.NoError(t, Confirm(confirmer, certificate, false))
	assert.Contains(t, confirmer.message, "Cluster Certificate Authority:")
	assert.Contains(t, confirmer.message, "SHA256 fingerprint: "+Fingerprint(certificate))
	assert.True(t, strings.HasSuffix(confirmer.message, "Do you trust it? [y/n] "))

	confirmer = &scriptedConfirmer{answer: errdef.Aborted("no")}
	assert.True(t, errdef.Is(Confirm(confirmer, certificate, false), errdef.UserAborted))

	confirmer = &scriptedConfirmer{answer: errors.New("must not be asked")}
	assert.NoError(t, Confirm(confirmer, certificate, true))
	assert.Empty(t, confirmer.message)
}

func TestStore_InstallPinsBundle(t *testing.T) {
	profileDir := t.TempDir()
	filesystem := afero.NewOsFs()
	server := newCAServer(t, true)
	store := NewStore(filesystem, nil)

	authority, err := store.FetchCA(context.Background(), server.URL)
	require.NoError(t, err)
	policy, err := store.Install(authority.PEM, profileDir)
	require.NoError(t, err)

	assert.Equal(t, ModePinned, policy.Mode)
	assert.Equal(t, filepath.Join(profileDir, "dcos_ca.crt"), policy.CAPath)

	tlsConfig, err := policy.TLSConfig(filesystem)
	require.NoError(t, err)
	client, err := httpclient.New(server.URL, httpclient.TLS(tlsConfig))
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "/")
	assert.NoError(t, err)
}
