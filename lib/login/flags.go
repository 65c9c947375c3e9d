// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package login

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

// Environment variables consulted for credentials.
const (
	EnvUsername       = "DCOS_USERNAME"
	EnvPassword       = "DCOS_PASSWORD"
	EnvPrivateKeyPath = "DCOS_PRIVATE_KEY_PATH"
)

// Flags are the login options shared by every command that logs in.
// Embed it in a command's params struct to get the flags.
type Flags struct {
	Provider     string `flag:"provider" desc:"login provider ID to use"`
	Username     string `flag:"username" desc:"username for login (default $DCOS_USERNAME)"`
	Password     string `flag:"password" desc:"password on the command line (insecure)"`
	PasswordEnv  string `flag:"password-env" desc:"name of an environment variable holding the password"`
	PasswordFile string `flag:"password-file" desc:"path of a file holding the password"`
	PrivateKey   string `flag:"private-key" desc:"path of the service account private key"`
}

// Credentials are resolved Flags.
type Credentials struct {
	ProviderID string
	Username   string
	Password   string
	PrivateKey *rsa.PrivateKey
}

// HasPassword reports whether a password was supplied.
func (c Credentials) HasPassword() bool { return c.Password != "" }

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Resolve reads the secrets the flags point at. The password comes from
// the first of --password, --password-env, --password-file that is set.
func (f Flags) Resolve(lookup LookupFunc, filesystem afero.Fs) (Credentials, error) {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	credentials := Credentials{
		ProviderID: f.Provider,
		Username:   f.Username,
		Password:   f.Password,
	}
	if credentials.Username == "" {
		credentials.Username, _ = lookup(EnvUsername)
	}

	switch {
	case credentials.Password != "":
	case f.PasswordEnv != "":
		password, ok := lookup(f.PasswordEnv)
		if !ok {
			return Credentials{}, errdef.InvalidInput("Couldn't read password from '%s' env var.", f.PasswordEnv)
		}
		credentials.Password = password
	case f.PasswordFile != "":
		data, err := afero.ReadFile(filesystem, f.PasswordFile)
		if err != nil {
			return Credentials{}, errdef.Wrap(errdef.Validation, err, "Couldn't read password file %s: %v", f.PasswordFile, err)
		}
		credentials.Password = strings.TrimRightFunc(string(data), unicode.IsSpace)
	}

	if f.PrivateKey != "" {
		key, err := ReadPrivateKey(filesystem, f.PrivateKey)
		if err != nil {
			return Credentials{}, err
		}
		credentials.PrivateKey = key
	}
	return credentials, nil
}

// ReadPrivateKey parses an RSA private key in PEM form.
func ReadPrivateKey(filesystem afero.Fs, path string) (*rsa.PrivateKey, error) {
	data, err := afero.ReadFile(filesystem, path)
	if err != nil {
		return nil, errdef.Wrap(errdef.Validation, err, "Couldn't read private key %s: %v", path, err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, errdef.Wrap(errdef.Validation, err, "Invalid private key %s: %v", path, err)
	}
	return key, nil
}

// FromEnvironment builds credentials from DCOS_USERNAME, DCOS_PASSWORD,
// and DCOS_PRIVATE_KEY_PATH. ok is false when no username is set.
func FromEnvironment(lookup LookupFunc, filesystem afero.Fs) (credentials Credentials, ok bool, err error) {
	username, _ := lookup(EnvUsername)
	if username == "" {
		return Credentials{}, false, nil
	}
	credentials.Username = username
	credentials.Password, _ = lookup(EnvPassword)
	if path, set := lookup(EnvPrivateKeyPath); set && path != "" {
		credentials.PrivateKey, err = ReadPrivateKey(filesystem, path)
		if err != nil {
			return Credentials{}, false, err
		}
	}
	if credentials.Password == "" && credentials.PrivateKey == nil {
		return Credentials{}, false, nil
	}
	return credentials, true, nil
}

// String omits the secrets.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{ProviderID:%q Username:%q}", c.ProviderID, c.Username)
}
