// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package trust decides how the CLI verifies a cluster's TLS
// certificate and, for clusters signed by their own certificate
// authority, fetches that authority, shows it to the operator, and pins
// it into the cluster profile.
package trust

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

// Mode is a verification strategy.
type Mode string

const (
	// ModeSystem verifies against the operating system's roots.
	ModeSystem Mode = "system"

	// ModeInsecure disables verification.
	ModeInsecure Mode = "insecure"

	// ModePinned verifies against a single CA bundle on disk and
	// nothing else.
	ModePinned Mode = "pinned"
)

// Policy is the parsed form of core.ssl_verify.
type Policy struct {
	Mode   Mode
	CAPath string
}

// System is the default policy.
var System = Policy{Mode: ModeSystem}

// Insecure disables verification.
var Insecure = Policy{Mode: ModeInsecure}

// Pinned returns a policy trusting only the bundle at path.
func Pinned(path string) Policy {
	return Policy{Mode: ModePinned, CAPath: path}
}

// ParsePolicy interprets a core.ssl_verify value: "false" disables
// verification, "true" or empty uses system roots, and anything else is
// the path of a CA bundle.
func ParsePolicy(raw string) Policy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "true":
		return System
	case "false":
		return Insecure
	}
	return Pinned(strings.TrimSpace(raw))
}

// SSLVerify renders the policy back to its core.ssl_verify value.
func (p Policy) SSLVerify() string {
	switch p.Mode {
	case ModeInsecure:
		return "false"
	case ModePinned:
		return p.CAPath
	}
	return "true"
}

// TLSConfig builds the client TLS configuration for p. System policy
// returns nil, which means the transport defaults. A pinned bundle that
// cannot be read or contains no certificate is ConfigMalformed.
func (p Policy) TLSConfig(filesystem afero.Fs) (*tls.Config, error) {
	switch p.Mode {
	case ModeInsecure:
		return &tls.Config{InsecureSkipVerify: true}, nil //nolint:gosec // core.ssl_verify=false
	case ModePinned:
		data, err := afero.ReadFile(filesystem, p.CAPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errdef.Malformed("The CA bundle configured in core.ssl_verify doesn't exist: %s", p.CAPath).
					WithHint("Run `dcos config set core.ssl_verify <path>` with a valid bundle, or set it up again with `dcos cluster setup`.")
			}
			return nil, errdef.Wrap(errdef.ConfigMalformed, err, "Unable to read the CA bundle %s: %v", p.CAPath, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(data) {
			return nil, errdef.Malformed("The CA bundle %s doesn't contain any PEM certificate.", p.CAPath)
		}
		return &tls.Config{RootCAs: pool}, nil
	}
	return nil, nil
}
