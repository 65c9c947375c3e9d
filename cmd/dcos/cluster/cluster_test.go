// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	libcluster "github.com/bureau-foundation/dcos/lib/cluster"
	libconfig "github.com/bureau-foundation/dcos/lib/config"
	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/fsutil"
	"github.com/bureau-foundation/dcos/lib/login"
	"github.com/bureau-foundation/dcos/lib/session"
)

type harness struct {
	t      *testing.T
	app    *cli.App
	fs     afero.Fs
	out    *bytes.Buffer
	errOut *bytes.Buffer
	opened []string
}

func newHarness(t *testing.T, env map[string]string) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		fs:     afero.NewBasePathFs(afero.NewOsFs(), t.TempDir()),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	h.app = cli.NewApp(session.Environment{Root: "/dcos", Lookup: lookup}, session.Options{
		Fs:     h.fs,
		In:     strings.NewReader(""),
		Out:    h.out,
		ErrOut: h.errOut,
		Logger: cli.NewLogger(h.errOut, logrus.InfoLevel),
		Opener: login.OpenerFunc(func(_ context.Context, url string) error {
			h.opened = append(h.opened, url)
			return nil
		}),
	})
	return h
}

func (h *harness) run(args ...string) error {
	command := Command(h.app)
	command.Help = io.Discard
	return command.Execute(context.Background(), args)
}

func (h *harness) session() *session.Session {
	opened, err := h.app.Session(context.Background())
	require.NoError(h.t, err)
	return opened
}

// addProfile writes clusters/<id>/dcos.toml with the given name and URL.
func (h *harness) addProfile(id, name, url string, attached bool) {
	h.t.Helper()
	document := libconfig.NewDocument()
	document.Set(libconfig.KeyClusterName, name)
	if url != "" {
		document.Set(libconfig.KeyURL, url)
	}
	dir := fsutil.Layout{Root: "/dcos"}.ClusterDir(id)
	require.NoError(h.t, libconfig.NewStore(h.fs, fsutil.ConfigPath(dir)).Save(document))
	if attached {
		require.NoError(h.t, afero.WriteFile(h.fs, fsutil.AttachedPath(dir), nil, 0o600))
	}
}

// versionServer answers the version endpoint only.
func versionServer(t *testing.T, clusterVersion string) string {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dcos-metadata/dcos-version.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"version":"`+clusterVersion+`","dcos-variant":"open"}`)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func deadURL(t *testing.T) string {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()
	return address
}

func TestAttach_AmbiguousSelector(t *testing.T) {
	h := newHarness(t, nil)
	h.addProfile("prod-a", "prod-a", "https://a.example", false)
	h.addProfile("prod-b", "prod-b", "https://b.example", false)

	err := h.run("attach", "prod")
	require.Error(t, err)
	assert.True(t, errdef.Is(err, errdef.Ambiguous))
	assert.Contains(t, err.Error(), "prod-a")
	assert.Contains(t, err.Error(), "prod-b")

	_, err = h.session().Attached()
	assert.True(t, errdef.Is(err, errdef.ConfigMissing), "nothing attached after a failed attach")
}

func TestAttach_ByName(t *testing.T) {
	h := newHarness(t, nil)
	h.addProfile("1111", "staging", "https://staging.example", true)
	h.addProfile("2222", "prod", "https://prod.example", false)

	require.NoError(t, h.run("attach", "prod"))

	attached, err := h.session().Attached()
	require.NoError(t, err)
	assert.Equal(t, "2222", attached.ID)
	assert.False(t, fsutil.Exists(h.fs, fsutil.AttachedPath("/dcos/clusters/1111")))
}

func TestAttach_RequiresSelector(t *testing.T) {
	h := newHarness(t, nil)
	err := h.run("attach")
	assert.True(t, errdef.Is(err, errdef.Validation))
}

func TestRemove_Attached(t *testing.T) {
	h := newHarness(t, nil)
	h.addProfile("abc", "prod", "https://prod.example", true)

	require.NoError(t, h.run("remove", "abc"))
	assert.Contains(t, h.errOut.String(), "Removed cluster: abc")

	profiles, err := h.session().Clusters.List()
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = h.session().Attached()
	assert.True(t, errdef.Is(err, errdef.ConfigMissing))

	err = h.run("list", "--attached")
	assert.True(t, errdef.Is(err, errdef.ConfigMissing))
}

func TestRemove_ArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"nothing", []string{"remove"}, "either a cluster name"},
		{"both", []string{"remove", "abc", "--all"}, "cannot accept both"},
		{"too many", []string{"remove", "abc", "def"}, "unexpected argument: def"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t, nil)
			err := h.run(test.args...)
			require.Error(t, err)
			assert.True(t, errdef.Is(err, errdef.Validation))
			assert.Contains(t, err.Error(), test.want)
		})
	}
}

func TestRemove_All(t *testing.T) {
	h := newHarness(t, nil)
	h.addProfile("a", "alpha", "https://a.example", true)
	h.addProfile("b", "beta", "https://b.example", false)

	require.NoError(t, h.run("remove", "--all"))

	profiles, err := h.session().Clusters.List()
	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.Contains(t, h.errOut.String(), "Removed cluster: alpha")
	assert.Contains(t, h.errOut.String(), "Removed cluster: beta")
}

func TestRemove_Unavailable(t *testing.T) {
	h := newHarness(t, nil)
	h.addProfile("up", "alive", versionServer(t, "2.1.0"), true)
	h.addProfile("down", "gone", deadURL(t), false)

	require.NoError(t, h.run("remove", "--unavailable"))

	profiles, err := h.session().Clusters.List()
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "up", profiles[0].ID)
}

func TestList_JSON(t *testing.T) {
	h := newHarness(t, nil)
	h.addProfile("1111", "beta", deadURL(t), false)
	h.addProfile("2222", "alpha", versionServer(t, "2.1.0"), true)
	h.addProfile("3333", "gamma", "", false)

	require.NoError(t, h.run("list", "--json"))

	var items []item
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &items))
	require.Len(t, items, 3)

	assert.Equal(t, "alpha", items[0].Name)
	assert.Equal(t, "2222", items[0].ClusterID)
	assert.Equal(t, libcluster.StatusAvailable, items[0].Status)
	assert.Equal(t, "2.1.0", items[0].Version)
	assert.True(t, items[0].Attached)

	assert.Equal(t, "beta", items[1].Name)
	assert.Equal(t, libcluster.StatusUnavailable, items[1].Status)
	assert.False(t, items[1].Attached)

	assert.Equal(t, "gamma", items[2].Name)
	assert.Equal(t, libcluster.StatusUnconfigured, items[2].Status)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &raw))
	for _, key := range []string{"name", "cluster_id", "url", "version", "attached", "status"} {
		assert.Contains(t, raw[0], key)
	}
}

func TestList_ProbesBoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			seen := peak.Load()
			if current <= seen || peak.CompareAndSwap(seen, current) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		_, _ = io.WriteString(w, `{"version":"2.1.0","dcos-variant":"open"}`)
	}))
	t.Cleanup(server.Close)

	h := newHarness(t, nil)
	for i := 0; i < 3*probeConcurrency; i++ {
		h.addProfile("c"+strconv.Itoa(i), "cluster-"+strconv.Itoa(i), server.URL, false)
	}

	require.NoError(t, h.run("list", "--json"))

	var items []item
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &items))
	require.Len(t, items, 3*probeConcurrency)
	for _, row := range items {
		assert.Equal(t, libcluster.StatusAvailable, row.Status, row.ClusterID)
	}
	assert.Equal(t, 4, probeConcurrency)
	assert.LessOrEqual(t, peak.Load(), int32(probeConcurrency))
}

func TestList_EmptyJSON(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.run("list", "--json"))
	assert.Equal(t, "[]\n", h.out.String())
}

func TestList_Table(t *testing.T) {
	h := newHarness(t, nil)
	address := versionServer(t, "1.13.1")
	h.addProfile("abc", "prod", address, true)

	require.NoError(t, h.run("list"))

	output := h.out.String()
	for _, want := range []string{"NAME", "ID", "STATUS", "VERSION", "URL", "*", "prod", "abc", "AVAILABLE", "1.13.1", address} {
		assert.Contains(t, output, want)
	}
}

func TestRename(t *testing.T) {
	h := newHarness(t, nil)
	h.addProfile("abc", "prod", "https://prod.example", true)

	require.NoError(t, h.run("rename", "prod", "production"))

	profile, err := h.session().Clusters.Get("production")
	require.NoError(t, err)
	assert.Equal(t, "abc", profile.ID)
	assert.Contains(t, h.errOut.String(), "Renamed prod to production")
}

func TestOpen(t *testing.T) {
	h := newHarness(t, nil)
	h.addProfile("abc", "prod", "https://prod.example", true)
	h.addProfile("def", "staging", "https://staging.example", false)

	require.NoError(t, h.run("open"))
	require.NoError(t, h.run("open", "staging"))
	assert.Equal(t, []string{"https://prod.example", "https://staging.example"}, h.opened)
}

func TestSetup_FlagConflicts(t *testing.T) {
	h := newHarness(t, nil)
	err := h.run("setup", "https://dcos.example", "--insecure", "--ca-certs", "/tmp/ca.crt")
	assert.True(t, errdef.Is(err, errdef.Validation))

	err = h.run("setup", "https://dcos.example", "--password", "x", "--password-env", "PASSWORD")
	assert.True(t, errdef.Is(err, errdef.Validation))

	err = h.run("setup")
	assert.True(t, errdef.Is(err, errdef.Validation))
}

func TestSetup_AuthDisabledCluster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/", "/pkgpanda/active.buildinfo.full.json":
		case "/metadata":
			_, _ = io.WriteString(w, `{"CLUSTER_ID":"abc"}`)
		case "/dcos-metadata/dcos-version.json":
			_, _ = io.WriteString(w, `{"version":"2.1.0"}`)
		case "/mesos/state-summary":
			_, _ = io.WriteString(w, `{"cluster":"prod"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	h := newHarness(t, nil)
	require.NoError(t, h.run("setup", server.URL))

	attached, err := h.session().Attached()
	require.NoError(t, err)
	assert.Equal(t, "abc", attached.ID)
	assert.Equal(t, "prod", attached.Name)
	assert.Equal(t, server.URL, attached.URL)
	assert.Contains(t, h.errOut.String(), "You are now attached to cluster")
}
