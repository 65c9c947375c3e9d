// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package errdef defines the error taxonomy shared by every layer of the
// CLI: configuration, cluster selection, transport, identity, and remote
// services.
//
// Errors carry a [Kind] so that callers can make decisions (re-engage
// the trust store on a TLS failure, re-authenticate on an expired token)
// without parsing message text. Each kind renders as a single line; an
// optional hint is appended after a blank line.
package errdef

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	// Unknown is the kind of any error not created through this package.
	Unknown Kind = iota

	// Validation indicates the user supplied bad input: wrong argument
	// count, unparseable flag values, values that fail type coercion.
	Validation

	// ConfigMissing indicates a required config key or attached cluster
	// is absent. The message names the key and the command that fixes it.
	ConfigMissing

	// ConfigMalformed indicates a TOML parse error or a schema violation.
	ConfigMalformed

	// NotFound indicates a selector or key matched nothing.
	NotFound

	// Ambiguous indicates a selector matched several candidates or a
	// key names a table rather than a value.
	Ambiguous

	// PermissionsTooOpen indicates a secret-bearing file is readable by
	// group or other.
	PermissionsTooOpen

	// Unreachable indicates a dial or DNS failure.
	Unreachable

	// Timeout indicates a request deadline was exceeded.
	Timeout

	// TLSTrustError indicates certificate verification or the TLS
	// handshake failed.
	TLSTrustError

	// Transport is any other request-level failure.
	Transport

	// AuthenticationFailed indicates the cluster rejected the credentials
	// or the stored token.
	AuthenticationFailed

	// Forbidden indicates the identity is known but lacks permission.
	Forbidden

	// Unsupported indicates an authentication scheme or provider the
	// CLI does not implement.
	Unsupported

	// BadRequest is an HTTP 400 from a remote service.
	BadRequest

	// Unprocessable is an HTTP 422 from a remote service.
	Unprocessable

	// HTTPError is any other non-success HTTP status.
	HTTPError

	// UserAborted indicates the user declined a prompt (fingerprint
	// rejection) or interrupted it.
	UserAborted
)

var kindNames = map[Kind]string{
	Unknown:              "unknown",
	Validation:           "validation",
	ConfigMissing:        "config_missing",
	ConfigMalformed:      "config_malformed",
	NotFound:             "not_found",
	Ambiguous:            "ambiguous",
	PermissionsTooOpen:   "permissions_too_open",
	Unreachable:          "unreachable",
	Timeout:              "timeout",
	TLSTrustError:        "tls_trust_error",
	Transport:            "transport",
	AuthenticationFailed: "authentication_failed",
	Forbidden:            "forbidden",
	Unsupported:          "unsupported",
	BadRequest:           "bad_request",
	Unprocessable:        "unprocessable",
	HTTPError:            "http_error",
	UserAborted:          "user_aborted",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified error. Network and remote-service kinds carry the
// URL they concern; remote-service kinds also carry the status and the
// (bounded) response body.
type Error struct {
	Kind Kind

	// Message is the single-line human-readable description.
	Message string

	// Hint is an optional follow-up instruction shown after the message.
	Hint string

	// URL is the request URL for network and HTTP kinds.
	URL string

	// Status is the HTTP status code for remote-service kinds.
	Status int

	// Body is the response body for remote-service kinds.
	Body string

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the message followed by the hint, if one is set.
func (e *Error) Error() string {
	message := e.Message
	if message == "" && e.Err != nil {
		message = e.Err.Error()
	}
	if e.Hint != "" {
		return message + "\n\n" + e.Hint
	}
	return message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// WithURL sets the URL and returns the receiver for chaining.
func (e *Error) WithURL(url string) *Error {
	e.URL = url
	return e
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around cause. The message is
// formatted from format and args; the cause is reachable through
// errors.Is and errors.As but not repeated in the message.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return Unknown
}

// Is reports whether err's chain contains an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var classified *Error
	ok := errors.As(err, &classified)
	return classified, ok
}

// Convenience constructors for the kinds that are created directly from
// user-facing code paths. Network and HTTP kinds are constructed by the
// HTTP client, which has the URL and status at hand.

func InvalidInput(format string, args ...any) *Error { return New(Validation, format, args...) }

func Missing(format string, args ...any) *Error { return New(ConfigMissing, format, args...) }

func Malformed(format string, args ...any) *Error { return New(ConfigMalformed, format, args...) }

func Absent(format string, args ...any) *Error { return New(NotFound, format, args...) }

func Ambiguity(format string, args ...any) *Error { return New(Ambiguous, format, args...) }

func Aborted(format string, args ...any) *Error { return New(UserAborted, format, args...) }
