// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"io/fs"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

func TestEnsureDir_CreatesWithDirMode(t *testing.T) {
	filesystem := afero.NewMemMapFs()

	require.NoError(t, EnsureDir(filesystem, "/root/.dcos/clusters"))

	info, err := filesystem.Stat("/root/.dcos/clusters")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, DirMode, info.Mode().Perm())
}

func TestEnsureDir_RejectsFile(t *testing.T) {
	filesystem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(filesystem, "/dcos", nil, 0o644))

	assert.Error(t, EnsureDir(filesystem, "/dcos"))
}

func TestEnsureFile_LeavesExistingContent(t *testing.T) {
	filesystem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(filesystem, "/dcos.toml", []byte("x = 1\n"), 0o600))

	require.NoError(t, EnsureFile(filesystem, "/dcos.toml", SecretMode))

	data, err := afero.ReadFile(filesystem, "/dcos.toml")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
}

func TestEnsureFile_CreatesEmpty(t *testing.T) {
	filesystem := afero.NewMemMapFs()

	require.NoError(t, EnsureFile(filesystem, "/attached", 0o644))

	data, err := afero.ReadFile(filesystem, "/attached")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCheckSecretMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mode bits are not enforced on windows")
	}

	cases := []struct {
		name    string
		mode    uint32
		wantErr bool
	}{
		{name: "owner read write", mode: 0o600},
		{name: "owner read only", mode: 0o400},
		{name: "group readable", mode: 0o640, wantErr: true},
		{name: "world readable", mode: 0o644, wantErr: true},
		{name: "world writable", mode: 0o602, wantErr: true},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			filesystem := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(filesystem, "/dcos.toml", []byte("[core]\n"), 0o600))
			require.NoError(t, filesystem.Chmod("/dcos.toml", fileMode(testCase.mode)))

			err := CheckSecretMode(filesystem, "/dcos.toml")
			if !testCase.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errdef.Is(err, errdef.PermissionsTooOpen))
			assert.Contains(t, err.Error(), "chmod 600 /dcos.toml")
		})
	}
}

func TestReadSecureFile_DoesNotRepairMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mode bits are not enforced on windows")
	}
	filesystem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(filesystem, "/dcos.toml", []byte("[core]\n"), 0o644))
	require.NoError(t, filesystem.Chmod("/dcos.toml", 0o644))

	_, err := ReadSecureFile(filesystem, "/dcos.toml")
	require.Error(t, err)

	info, err := filesystem.Stat("/dcos.toml")
	require.NoError(t, err)
	assert.Equal(t, fileMode(0o644), info.Mode().Perm())
}

func TestWriteAtomic_ReplacesContentWithMode(t *testing.T) {
	filesystem := afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
	require.NoError(t, filesystem.MkdirAll("/profile", 0o755))
	require.NoError(t, afero.WriteFile(filesystem, "/profile/dcos.toml", []byte("old"), 0o600))

	require.NoError(t, WriteAtomic(filesystem, "/profile/dcos.toml", []byte("new"), SecretMode))

	data, err := afero.ReadFile(filesystem, "/profile/dcos.toml")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := filesystem.Stat("/profile/dcos.toml")
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, SecretMode, info.Mode().Perm())
	}

	entries, err := afero.ReadDir(filesystem, "/profile")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not survive")
}

func TestWriteAtomic_CreatesParentDirectory(t *testing.T) {
	filesystem := afero.NewMemMapFs()

	require.NoError(t, WriteAtomic(filesystem, "/clusters/abc/dcos.toml", []byte("[core]\n"), SecretMode))

	assert.True(t, IsDir(filesystem, "/clusters/abc"))
	assert.True(t, Exists(filesystem, "/clusters/abc/dcos.toml"))
}

func TestCopyFile(t *testing.T) {
	filesystem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(filesystem, "/tmp/ca.pem", []byte("PEM"), 0o600))

	require.NoError(t, CopyFile(filesystem, "/tmp/ca.pem", "/profile/dcos_ca.crt", 0o644))

	data, err := afero.ReadFile(filesystem, "/profile/dcos_ca.crt")
	require.NoError(t, err)
	assert.Equal(t, "PEM", string(data))
}

func TestLayout_Paths(t *testing.T) {
	layout := Layout{Root: "/home/operator/.dcos"}

	assert.Equal(t, "/home/operator/.dcos/clusters", layout.ClustersDir())
	assert.Equal(t, "/home/operator/.dcos/clusters/abc", layout.ClusterDir("abc"))
	assert.Equal(t, "/home/operator/.dcos/dcos.toml", layout.LegacyConfig())
	assert.Equal(t, "/p/dcos_ca.crt", CAPath("/p"))
	assert.Equal(t, "/p/attached", AttachedPath("/p"))
	assert.Equal(t, "/p/dcos.toml", ConfigPath("/p"))
}

func fileMode(mode uint32) fs.FileMode {
	return fs.FileMode(mode)
}
