// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package login

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/clock"
	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/httpclient"
)

// maxAttempts bounds how often an operator may retype credentials.
const maxAttempts = 3

// serviceTokenLifetime is the validity of the JWS a service account
// signs to log in.
const serviceTokenLifetime = 5 * time.Minute

const invalidTokenMessage = "Your core.dcos_acs_token is invalid. Please run: `dcos auth login`"

// Prompter asks the operator for input.
type Prompter interface {
	Input(message string) (string, error)
	Password(message string) (string, error)
	Select(message string, choices []string) (int, error)
	Interactive() bool
}

// Result is an acquired token and the provider that issued it.
type Result struct {
	Token      string
	ProviderID string
}

// Options configure an [Acquirer]. Zero values get working defaults,
// except Prompter: without one the acquirer never prompts.
type Options struct {
	Prompter Prompter
	Opener   Opener
	Clock    clock.Clock
	Logger   *logrus.Logger
	ErrOut   io.Writer
	Lookup   LookupFunc
	Fs       afero.Fs

	// ProviderID is the provider the profile last logged in with;
	// Reauthenticate prefers it while the cluster still advertises it.
	ProviderID string

	// PromptLogin allows Reauthenticate to prompt on a terminal
	// (core.prompt_login).
	PromptLogin bool

	// Persist stores a token obtained by Reauthenticate.
	Persist func(Result) error
}

// Acquirer obtains tokens from one cluster. It implements
// [httpclient.Reauthenticator].
type Acquirer struct {
	client  *httpclient.Client
	options Options
}

var _ httpclient.Reauthenticator = (*Acquirer)(nil)

// NewAcquirer returns an acquirer talking to the cluster through client.
// client must carry neither a token nor a reauthenticator.
func NewAcquirer(client *httpclient.Client, options Options) *Acquirer {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = logrus.New()
	}
	if options.ErrOut == nil {
		options.ErrOut = io.Discard
	}
	if options.Lookup == nil {
		options.Lookup = func(string) (string, bool) { return "", false }
	}
	if options.Fs == nil {
		options.Fs = afero.NewOsFs()
	}
	return &Acquirer{client: client, options: options}
}

// Providers lists the providers the cluster advertises.
func (a *Acquirer) Providers(ctx context.Context) (Providers, error) {
	return Discover(ctx, a.client)
}

// Login discovers providers, selects one for credentials, and runs its
// flow. Missing credentials are prompted for when a Prompter is set.
func (a *Acquirer) Login(ctx context.Context, credentials Credentials) (Result, error) {
	providers, err := Discover(ctx, a.client)
	if err != nil {
		return Result{}, err
	}
	provider, err := a.Select(providers, credentials)
	if err != nil {
		return Result{}, err
	}

	a.options.Logger.WithField("provider", provider.ID).Info("using login provider")
	flow := &flow{
		Acquirer:    a,
		provider:    provider,
		credentials: credentials,
		allowPrompt: a.options.Prompter != nil,
	}
	token, err := flow.run(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Token: token, ProviderID: provider.ID}, nil
}

// Select picks the provider to log in with: an explicit --provider, then
// the first provider matching the supplied credentials, then the only
// provider advertised, then an interactive choice.
func (a *Acquirer) Select(providers Providers, credentials Credentials) (*Provider, error) {
	if credentials.ProviderID != "" {
		if provider, ok := providers[credentials.ProviderID]; ok {
			return provider, nil
		}
		return nil, errdef.Absent("Unknown login provider ID '%s'. Available providers: %s",
			credentials.ProviderID, strings.Join(providers.IDs(), ", "))
	}

	sorted := providers.Sorted()
	if credentials.Username != "" {
		for _, provider := range sorted {
			if credentials.PrivateKey != nil && provider.Type == TypeUIDServiceKey {
				return provider, nil
			}
			if credentials.PrivateKey == nil && credentials.HasPassword() && provider.usesPassword() {
				return provider, nil
			}
		}
	}

	switch len(sorted) {
	case 0:
		return nil, errdef.Absent("The cluster doesn't advertise any login provider.")
	case 1:
		return sorted[0], nil
	}

	prompter := a.options.Prompter
	if prompter == nil || !prompter.Interactive() {
		return nil, errdef.InvalidInput("Multiple login providers are available, please choose one with --provider:%s",
			providers.describe())
	}
	summaries := make([]string, len(sorted))
	for index, provider := range sorted {
		summaries[index] = provider.Summary()
	}
	index, err := prompter.Select("Please select a login method:", summaries)
	if err != nil {
		return nil, err
	}
	return sorted[index], nil
}

// Reauthenticate is called when the cluster rejects the stored token. It
// logs in again with the profile's provider, using credentials from the
// environment or, on a terminal, from the operator, and persists the new
// token.
func (a *Acquirer) Reauthenticate(ctx context.Context, challenge httpclient.Challenge) (string, error) {
	if challenge.Scheme == httpclient.SchemeBasic {
		return "", errdef.New(errdef.AuthenticationFailed, invalidTokenMessage)
	}

	credentials, fromEnv, err := FromEnvironment(a.options.Lookup, a.options.Fs)
	if err != nil {
		return "", err
	}
	prompter := a.options.Prompter
	canPrompt := a.options.PromptLogin && prompter != nil && prompter.Interactive()
	if !fromEnv && !canPrompt {
		return "", errdef.New(errdef.AuthenticationFailed, invalidTokenMessage)
	}

	providers, err := Discover(ctx, a.client)
	if errors.Is(err, ErrAuthDisabled) {
		return "", errdef.New(errdef.AuthenticationFailed, invalidTokenMessage)
	}
	if err != nil {
		return "", err
	}
	if _, ok := providers[a.options.ProviderID]; ok {
		credentials.ProviderID = a.options.ProviderID
	}
	provider, err := a.Select(providers, credentials)
	if err != nil {
		return "", err
	}

	a.options.Logger.WithField("provider", provider.ID).Info("token rejected, logging in again")
	flow := &flow{
		Acquirer:    a,
		provider:    provider,
		credentials: credentials,
		allowPrompt: canPrompt,
	}
	token, err := flow.run(ctx)
	if err != nil {
		return "", err
	}
	if a.options.Persist != nil {
		if err := a.options.Persist(Result{Token: token, ProviderID: provider.ID}); err != nil {
			return "", err
		}
	}
	return token, nil
}

// flow is one login attempt sequence against one provider.
type flow struct {
	*Acquirer
	provider    *Provider
	credentials Credentials
	allowPrompt bool

	// prompted records whether the current attempt asked the operator
	// for anything; only then is a failed attempt retried.
	prompted bool
}

func (f *flow) run(ctx context.Context) (string, error) {
	for attempt := 1; ; attempt++ {
		f.prompted = false
		token, err := f.attempt(ctx, attempt)
		if err == nil {
			return token, nil
		}
		if !f.prompted || !errdef.Is(err, errdef.AuthenticationFailed) || attempt >= maxAttempts {
			return "", err
		}
		fmt.Fprintf(f.options.ErrOut, "Error: %v\n", err)
	}
}

func (f *flow) attempt(ctx context.Context, attempt int) (string, error) {
	switch {
	case f.provider.ClientMethod == MethodServiceCredential || f.provider.Type == TypeUIDServiceKey:
		return f.loginServiceAccount(ctx)
	case f.provider.usesBrowser():
		if attempt == 1 {
			f.openBrowser(ctx)
		}
		return f.loginBrowser(ctx)
	case f.provider.ClientMethod == MethodUserCredential || f.provider.ClientMethod == methodCredential || f.provider.usesPassword():
		return f.loginPassword(ctx)
	}
	return "", errdef.New(errdef.Unsupported, "Unsupported login method '%s' for provider '%s'.",
		f.provider.ClientMethod, f.provider.ID)
}

func (f *flow) ask(message, flagHint string, secret bool) (string, error) {
	if !f.allowPrompt {
		return "", errdef.InvalidInput("%s is required, use %s", strings.TrimSuffix(message, ": "), flagHint)
	}
	f.prompted = true
	if secret {
		return f.options.Prompter.Password(message)
	}
	return f.options.Prompter.Input(message)
}

func (f *flow) username() (string, error) {
	if f.credentials.Username != "" {
		return f.credentials.Username, nil
	}
	return f.ask("Username: ", "--username", false)
}

func (f *flow) loginPassword(ctx context.Context) (string, error) {
	uid, err := f.username()
	if err != nil {
		return "", err
	}
	password := f.credentials.Password
	if password == "" {
		password, err = f.ask("Password: ", "--password-env or --password-file", true)
		if err != nil {
			return "", err
		}
	}
	endpoint := f.provider.Config.StartFlowURL
	if endpoint == "" {
		endpoint = loginPath
	}
	return f.post(ctx, endpoint, credentialRequest{UID: uid, Password: password})
}

func (f *flow) loginServiceAccount(ctx context.Context) (string, error) {
	if f.credentials.PrivateKey == nil {
		return "", errdef.InvalidInput("Provider '%s' requires a service account private key, use --private-key", f.provider.ID)
	}
	uid, err := f.username()
	if err != nil {
		return "", err
	}
	token, err := ServiceToken(uid, f.credentials, f.options.Clock)
	if err != nil {
		return "", err
	}
	return f.post(ctx, loginPath, credentialRequest{UID: uid, Token: token})
}

func (f *flow) openBrowser(ctx context.Context) {
	target, err := f.client.Resolve(f.provider.Config.StartFlowURL)
	if err != nil {
		target = f.provider.Config.StartFlowURL
	}
	fmt.Fprintf(f.options.ErrOut, "If your browser didn't open, please follow this link:\n\n    %s\n\n", target)
	if f.options.Opener == nil {
		return
	}
	if err := f.options.Opener.Open(ctx, target); err != nil {
		f.options.Logger.WithError(err).Debug("could not open browser")
	}
}

func (f *flow) loginBrowser(ctx context.Context) (string, error) {
	token, err := f.ask("Enter token from the browser: ", "--token", false)
	if err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)

	if f.provider.ClientMethod == MethodBrowserOIDCToken {
		return f.post(ctx, loginPath, credentialRequest{Token: token})
	}
	return token, f.verify(ctx, token)
}

// verify checks a pasted token against a guarded resource. 403 means the
// token is valid but lacks permission for that resource.
func (f *flow) verify(ctx context.Context, token string) error {
	response, err := f.client.Head(ctx, challengePath,
		httpclient.WithHeader("Authorization", "token="+token),
		httpclient.WithSuccess(func(int) bool { return true }))
	if err != nil {
		return err
	}
	switch response.StatusCode {
	case http.StatusOK, http.StatusForbidden:
		return nil
	case http.StatusUnauthorized:
		return errdef.New(errdef.AuthenticationFailed, "Invalid auth token.")
	}
	return errdef.New(errdef.HTTPError, "Unexpected status code %d while verifying the token.", response.StatusCode)
}

type credentialRequest struct {
	UID      string `json:"uid,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

func (f *flow) post(ctx context.Context, endpoint string, request credentialRequest) (string, error) {
	var response struct {
		Token string `json:"token"`
	}
	err := f.client.JSON(ctx, http.MethodPost, endpoint, request, &response)
	if err != nil {
		if typed, ok := errdef.As(err); ok && typed.Kind == errdef.AuthenticationFailed {
			return "", errdef.Wrap(errdef.AuthenticationFailed, err, "Authentication failed: %s", describeRejection(typed.Body))
		}
		return "", err
	}
	if response.Token == "" {
		return "", errdef.New(errdef.AuthenticationFailed, "The cluster's login response didn't contain a token.")
	}
	return response.Token, nil
}

// describeRejection extracts the human-readable reason from an IAM error
// body ({"title": ..., "description": ...}).
func describeRejection(body string) string {
	var apiError struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if json.Unmarshal([]byte(body), &apiError) == nil {
		if apiError.Description != "" {
			return apiError.Description
		}
		if apiError.Title != "" {
			return apiError.Title
		}
	}
	return "the cluster rejected the credentials."
}

// ServiceToken signs the short-lived RS256 login token a service account
// exchanges for an authentication token.
func ServiceToken(uid string, credentials Credentials, now clock.Clock) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"uid": uid,
		"exp": now.Now().Add(serviceTokenLifetime).Unix(),
	})
	signed, err := token.SignedString(credentials.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("login: signing service login token: %w", err)
	}
	return signed, nil
}
