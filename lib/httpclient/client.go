// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpclient is the authenticating HTTP client every command uses
// to talk to a cluster.
//
// A [Client] is bound to one cluster: its base URL, its TLS policy, and
// its token. Relative request targets resolve against the base URL. The
// token is sent as "Authorization: token=<jwt>" and only to the
// cluster's own origin (same scheme and host), never to third parties
// the caller happens to reach with the same client.
//
// Failures are translated into the [errdef] taxonomy: transport errors
// become TLSTrustError, Unreachable, Timeout, or Transport; non-success
// statuses become BadRequest, AuthenticationFailed, Forbidden,
// Unprocessable, or HTTPError. A 401 carrying a recognised
// WWW-Authenticate challenge is recovered exactly once through the
// client's [Reauthenticator]. There are no other retries.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/version"
)

// Default deadlines. core.timeout overrides both.
const (
	DefaultTimeout     = 5 * time.Second
	DefaultDialTimeout = 5 * time.Second
)

// Reauthenticator obtains a fresh token after the cluster rejected the
// current one. Implementations persist the token themselves.
type Reauthenticator interface {
	Reauthenticate(ctx context.Context, challenge Challenge) (string, error)
}

// ReauthenticatorFunc adapts a function to [Reauthenticator].
type ReauthenticatorFunc func(ctx context.Context, challenge Challenge) (string, error)

// Reauthenticate calls f.
func (f ReauthenticatorFunc) Reauthenticate(ctx context.Context, challenge Challenge) (string, error) {
	return f(ctx, challenge)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// Decode JSON-decodes the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errdef.Wrap(errdef.Transport, err, "HTTP Exception: invalid JSON response from [%s]: %v", r.URL, err)
	}
	return nil
}

// Client issues requests against one cluster.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	logger      *logrus.Logger
	header      http.Header
	success     func(status int) bool
	reauth      Reauthenticator
	timeout     time.Duration
	dialTimeout time.Duration
	tlsConfig   *tls.Config
	transport   http.RoundTripper
	noFollow    bool

	mu    sync.Mutex
	token string
}

// Option configures a [Client].
type Option func(*Client)

// TLS sets the TLS configuration. nil means system roots.
func TLS(config *tls.Config) Option {
	return func(c *Client) { c.tlsConfig = config }
}

// Token sets the token sent to the cluster's origin.
func Token(token string) Option {
	return func(c *Client) { c.token = token }
}

// Timeout sets the overall request deadline.
func Timeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// DialTimeout sets the connect deadline.
func DialTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.dialTimeout = timeout }
}

// Logger sets the logger used for request tracing at debug level.
func Logger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Header adds a header sent on every request.
func Header(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithReauthenticator sets the handler for rejected tokens.
func WithReauthenticator(reauth Reauthenticator) Option {
	return func(c *Client) { c.reauth = reauth }
}

// Success replaces the default 2xx success predicate.
func Success(predicate func(status int) bool) Option {
	return func(c *Client) { c.success = predicate }
}

// NoFollow disables redirect following; redirect responses are returned
// as-is (and are successes only if the predicate says so).
func NoFollow() Option {
	return func(c *Client) { c.noFollow = true }
}

// Transport replaces the round tripper. The TLS and dial settings of the
// client are not applied to a replaced transport.
func Transport(transport http.RoundTripper) Option {
	return func(c *Client) { c.transport = transport }
}

// New returns a client for the cluster at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errdef.InvalidInput("httpclient: invalid base URL %q", baseURL)
	}

	client := &Client{
		baseURL:     parsed,
		header:      http.Header{},
		timeout:     DefaultTimeout,
		dialTimeout: DefaultDialTimeout,
		success:     IsSuccess,
	}
	for _, option := range options {
		option(client)
	}
	if client.logger == nil {
		client.logger = logrus.New()
		client.logger.SetLevel(logrus.WarnLevel)
	}

	transport := client.transport
	if transport == nil {
		pooled := cleanhttp.DefaultPooledTransport()
		pooled.DialContext = (&net.Dialer{
			Timeout:   client.dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
		pooled.TLSHandshakeTimeout = client.dialTimeout
		if client.tlsConfig != nil {
			pooled.TLSClientConfig = client.tlsConfig
		}
		transport = pooled
	}

	client.httpClient = &http.Client{
		Transport: transport,
		Timeout:   client.timeout,
	}
	if client.noFollow {
		client.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client, nil
}

// IsSuccess is the default predicate: any 2xx status.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// BaseURL returns the cluster URL the client resolves against.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// SetToken replaces the token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// CurrentToken returns the token in use.
func (c *Client) CurrentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// RequestOption adjusts a single request.
type RequestOption func(*requestSettings)

type requestSettings struct {
	header  http.Header
	success func(status int) bool
}

// WithHeader sets a header on one request. An explicit Accept or
// Authorization replaces the defaults.
func WithHeader(key, value string) RequestOption {
	return func(settings *requestSettings) { settings.header.Set(key, value) }
}

// WithSuccess replaces the success predicate for one request.
func WithSuccess(predicate func(status int) bool) RequestOption {
	return func(settings *requestSettings) { settings.success = predicate }
}

// Resolve returns the absolute URL for target. Absolute targets are
// returned unchanged; relative targets are joined onto the base URL's
// path, keeping their query string.
func (c *Client) Resolve(target string) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return "", errdef.InvalidInput("httpclient: invalid URL %q", target)
	}
	if parsed.IsAbs() {
		return parsed.String(), nil
	}
	resolved := *c.baseURL
	resolved.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(parsed.Path, "/")
	resolved.RawPath = ""
	resolved.RawQuery = parsed.RawQuery
	resolved.Fragment = ""
	return resolved.String(), nil
}

// sameOrigin reports whether target shares scheme and host with the base.
func (c *Client) sameOrigin(target *url.URL) bool {
	return strings.EqualFold(target.Scheme, c.baseURL.Scheme) &&
		strings.EqualFold(target.Host, c.baseURL.Host)
}

// Do performs a request. body may be nil. The response body is read in
// full (bounded by [MaxResponseSize]) before Do returns.
func (c *Client) Do(ctx context.Context, method, target string, body []byte, options ...RequestOption) (*Response, error) {
	settings := requestSettings{header: http.Header{}, success: c.success}
	for _, option := range options {
		option(&settings)
	}

	requestURL, err := c.Resolve(target)
	if err != nil {
		return nil, err
	}

	response, err := c.roundTrip(ctx, method, requestURL, body, settings)
	if err != nil {
		return nil, err
	}
	if settings.success(response.StatusCode) {
		return response, nil
	}

	if response.StatusCode == http.StatusUnauthorized {
		challenge, err := ParseChallenge(response.Header.Get("WWW-Authenticate"))
		if err != nil {
			return nil, err
		}
		if c.reauth == nil {
			return nil, authenticationFailed(response)
		}

		c.logger.WithField("scheme", challenge.Scheme).Info("token rejected, re-authenticating")
		token, err := c.reauth.Reauthenticate(ctx, challenge)
		if err != nil {
			return nil, err
		}
		c.SetToken(token)

		response, err = c.roundTrip(ctx, method, requestURL, body, settings)
		if err != nil {
			return nil, err
		}
		if settings.success(response.StatusCode) {
			return response, nil
		}
	}

	return nil, classifyStatus(response)
}

func (c *Client) roundTrip(ctx context.Context, method, requestURL string, body []byte, settings requestSettings) (*Response, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	var request *http.Request
	var err error
	if bodyReader != nil {
		request, err = http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	} else {
		request, err = http.NewRequestWithContext(ctx, method, requestURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("httpclient: creating request: %w", err)
	}

	for key, values := range c.header {
		request.Header[key] = values
	}
	request.Header.Set("User-Agent", version.UserAgent())
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := c.CurrentToken(); token != "" && c.sameOrigin(request.URL) {
		request.Header.Set("Authorization", "token="+token)
	}
	for key, values := range settings.header {
		request.Header[key] = values
	}

	started := time.Now()
	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"url":    requestURL,
		}).WithError(err).Debug("request failed")
		return nil, classifyTransport(requestURL, err)
	}
	defer httpResponse.Body.Close()

	data, err := readBody(httpResponse.Body)
	if err != nil {
		return nil, classifyTransport(requestURL, err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      requestURL,
		"status":   httpResponse.StatusCode,
		"duration": time.Since(started).Round(time.Millisecond).String(),
	}).Debug("request completed")

	return &Response{
		StatusCode: httpResponse.StatusCode,
		Header:     httpResponse.Header,
		Body:       data,
		URL:        requestURL,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, target string, options ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, target, nil, options...)
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, target string, options ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodHead, target, nil, options...)
}

// Post performs a POST request with a JSON-encoded body.
func (c *Client) Post(ctx context.Context, target string, in any, options ...RequestOption) (*Response, error) {
	encoded, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("httpclient: encoding request body: %w", err)
	}
	return c.Do(ctx, http.MethodPost, target, encoded, options...)
}

// JSON performs a request with an optional JSON body and decodes a JSON
// response into out (when out is non-nil).
func (c *Client) JSON(ctx context.Context, method, target string, in, out any, options ...RequestOption) error {
	var body []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encoding request body: %w", err)
		}
		body = encoded
	}
	response, err := c.Do(ctx, method, target, body, options...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return response.Decode(out)
}
