// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

const sslErrorMessage = "An SSL error occurred. To configure your SSL settings, please run: `dcos config set core.ssl_verify <value>`"

const authFailedMessage = "Authentication failed. Please run `dcos auth login`."

// classifyTransport maps an error from http.Client.Do (or from reading
// the body) onto the error taxonomy. TLS failures are checked first
// because a handshake timeout is also a net timeout.
func classifyTransport(requestURL string, err error) error {
	switch {
	case isTLSError(err):
		return errdef.Wrap(errdef.TLSTrustError, err, sslErrorMessage).WithURL(requestURL)
	case isTimeout(err):
		return errdef.Wrap(errdef.Timeout, err, "Request to URL [%s] timed out.", requestURL).WithURL(requestURL)
	case isUnreachable(err):
		return errdef.Wrap(errdef.Unreachable, err, "URL [%s] is unreachable.", requestURL).WithURL(requestURL)
	default:
		return errdef.Wrap(errdef.Transport, err, "HTTP Exception: %s", unwrapURLError(err)).WithURL(requestURL)
	}
}

func isTLSError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var invalid x509.CertificateInvalidError
	var verification *tls.CertificateVerificationError
	var record tls.RecordHeaderError
	var alert tls.AlertError
	if errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid) ||
		errors.As(err, &verification) ||
		errors.As(err, &record) ||
		errors.As(err, &alert) {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "tls: ") || strings.Contains(message, "x509: ")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// unwrapURLError strips the "Get \"url\": " prefix url.Error adds; the
// URL is already carried on the returned error.
func unwrapURLError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}

func authenticationFailed(response *Response) error {
	result := errdef.New(errdef.AuthenticationFailed, authFailedMessage).WithURL(response.URL)
	result.Status = response.StatusCode
	result.Body = ErrorBody(response.Body)
	return result
}

// classifyStatus maps a non-success response onto the error taxonomy.
func classifyStatus(response *Response) error {
	body := ErrorBody(response.Body)

	var result *errdef.Error
	switch response.StatusCode {
	case http.StatusBadRequest:
		message := "Bad request."
		if body != "" {
			message += "\n" + body
		}
		result = errdef.New(errdef.BadRequest, "%s", message)
	case http.StatusUnauthorized:
		return authenticationFailed(response)
	case http.StatusForbidden:
		result = errdef.New(errdef.Forbidden, "You are not authorized to perform this operation.")
	case http.StatusUnprocessableEntity:
		result = errdef.New(errdef.Unprocessable, "%s", body)
	default:
		result = errdef.New(errdef.HTTPError, "Error while fetching [%s]: HTTP %d: %q", response.URL, response.StatusCode, body)
	}
	result.Status = response.StatusCode
	result.Body = body
	return result.WithURL(response.URL)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if typed, ok := errdef.As(err); ok {
		return typed.Status
	}
	return 0
}
