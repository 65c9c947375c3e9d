// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trust

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/fsutil"
	"github.com/bureau-foundation/dcos/lib/httpclient"
)

// caInfoPath serves the cluster CA. Older clusters only accept POST.
const caInfoPath = "/ca/api/v2/info"

// Authority is a cluster certificate authority as fetched from the
// cluster.
type Authority struct {
	// PEM is the bundle as served, written verbatim on install.
	PEM []byte

	// Certificate is the first certificate of the bundle.
	Certificate *x509.Certificate
}

// Confirmer asks the operator a yes/no question; a nil return means yes.
type Confirmer interface {
	Confirm(message string) error
}

// Store probes cluster certificates and manages pinned bundles.
type Store struct {
	fs      afero.Fs
	logger  *logrus.Logger
	options []httpclient.Option
}

// NewStore returns a Store writing bundles to filesystem. options are
// applied to every probe client (timeouts, logger).
func NewStore(filesystem afero.Fs, logger *logrus.Logger, options ...httpclient.Option) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{fs: filesystem, logger: logger, options: options}
}

func (s *Store) client(baseURL string, tlsConfig *tls.Config, extra ...httpclient.Option) (*httpclient.Client, error) {
	options := append([]httpclient.Option{httpclient.Logger(s.logger)}, s.options...)
	if tlsConfig != nil {
		options = append(options, httpclient.TLS(tlsConfig))
	}
	return httpclient.New(baseURL, append(options, extra...)...)
}

// NeedsPinning reports whether baseURL presents a certificate the system
// roots do not trust. Plain HTTP never needs pinning. Failures other than
// certificate verification are returned unchanged.
func (s *Store) NeedsPinning(ctx context.Context, baseURL string) (bool, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return false, errdef.InvalidInput("Invalid cluster URL %q.", baseURL)
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return false, nil
	}

	client, err := s.client(baseURL, nil,
		httpclient.NoFollow(),
		httpclient.Success(func(int) bool { return true }))
	if err != nil {
		return false, err
	}
	_, err = client.Head(ctx, "/")
	if err == nil {
		return false, nil
	}
	if errdef.Is(err, errdef.TLSTrustError) {
		s.logger.WithError(err).Debug("cluster certificate is not trusted by system roots")
		return true, nil
	}
	return false, err
}

// FetchCA retrieves the cluster CA without verifying the connection that
// carries it. The operator confirms the fingerprint before it is trusted.
func (s *Store) FetchCA(ctx context.Context, baseURL string) (*Authority, error) {
	client, err := s.client(baseURL, &tls.Config{InsecureSkipVerify: true}) //nolint:gosec // bootstrap fetch, verified by fingerprint
	if err != nil {
		return nil, err
	}

	response, err := client.Get(ctx, caInfoPath, httpclient.WithSuccess(func(status int) bool {
		return httpclient.IsSuccess(status) || status == http.StatusMethodNotAllowed
	}))
	if err != nil {
		return nil, err
	}
	if response.StatusCode == http.StatusMethodNotAllowed {
		s.logger.Debug("CA endpoint rejected GET, retrying as POST")
		response, err = client.Post(ctx, caInfoPath, struct{}{})
		if err != nil {
			return nil, err
		}
	}

	var info struct {
		Result struct {
			Certificate string `json:"certificate"`
		} `json:"result"`
	}
	if err := response.Decode(&info); err != nil {
		return nil, err
	}
	return ParseAuthority([]byte(info.Result.Certificate))
}

// ParseAuthority decodes a PEM bundle, keeping the first certificate.
func ParseAuthority(data []byte) (*Authority, error) {
	rest := data
	for len(rest) > 0 {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" || len(block.Headers) != 0 {
			continue
		}
		certificate, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errdef.Wrap(errdef.TLSTrustError, err, "Unable to parse the cluster CA certificate: %v", err)
		}
		return &Authority{PEM: bytes.TrimSpace(data), Certificate: certificate}, nil
	}
	return nil, errdef.New(errdef.TLSTrustError, "The cluster CA bundle doesn't contain any PEM certificate.")
}

// Fingerprint is the SHA-256 of the certificate's DER encoding as
// colon-separated upper-case hex.
func Fingerprint(certificate *x509.Certificate) string {
	sum := sha256.Sum256(certificate.Raw)
	parts := make([]string, len(sum))
	for index, value := range sum {
		parts[index] = fmt.Sprintf("%02X", value)
	}
	return strings.Join(parts, ":")
}

const confirmTemplate = `Cluster Certificate Authority:

  Issuer: %s

  Validity:
    From:  %s
    Until: %s

  SHA256 fingerprint: %s

Do you trust it? [y/n] `

// Confirm shows certificate to the operator and asks whether to trust
// it. autoYes accepts without asking.
func Confirm(confirmer Confirmer, certificate *x509.Certificate, autoYes bool) error {
	if autoYes {
		return nil
	}
	return confirmer.Confirm(fmt.Sprintf(confirmTemplate,
		certificate.Issuer,
		certificate.NotBefore,
		certificate.NotAfter,
		Fingerprint(certificate),
	))
}

// Install writes bundle into profileDir and returns the pinned policy
// pointing at it.
func (s *Store) Install(bundle []byte, profileDir string) (Policy, error) {
	path := fsutil.CAPath(profileDir)
	if absolute, err := filepath.Abs(path); err == nil {
		path = absolute
	}
	if err := fsutil.WriteAtomic(s.fs, path, append(bytes.TrimSpace(bundle), '\n'), 0o644); err != nil {
		return Policy{}, fmt.Errorf("trust: installing CA bundle: %w", err)
	}
	return Pinned(path), nil
}
