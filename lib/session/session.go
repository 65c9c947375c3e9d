// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session carries the per-invocation state of the CLI: the
// resolved environment, the filesystem, the cluster store, and the
// operator's terminal. Commands receive a Session instead of reaching
// for globals.
package session

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/clock"
	"github.com/bureau-foundation/dcos/lib/cluster"
	"github.com/bureau-foundation/dcos/lib/config"
	"github.com/bureau-foundation/dcos/lib/dcos"
	"github.com/bureau-foundation/dcos/lib/fsutil"
	"github.com/bureau-foundation/dcos/lib/httpclient"
	"github.com/bureau-foundation/dcos/lib/login"
	"github.com/bureau-foundation/dcos/lib/prompt"
	"github.com/bureau-foundation/dcos/lib/setup"
	"github.com/bureau-foundation/dcos/lib/trust"
)

// Options override the process defaults of a Session. Zero fields use
// the OS filesystem, the standard streams, and the real clock.
type Options struct {
	Fs     afero.Fs
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
	Logger *logrus.Logger
	Opener login.Opener
	Clock  clock.Clock

	// HTTPOptions are appended to every cluster client, after the
	// profile's own settings.
	HTTPOptions []httpclient.Option
}

// Session is the state shared by every command of one invocation.
type Session struct {
	Env      Environment
	Fs       afero.Fs
	Layout   fsutil.Layout
	Clusters *cluster.Store
	Logger   *logrus.Logger

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	Prompter *prompt.Prompter
	Opener   login.Opener
	Clock    clock.Clock

	httpOptions []httpclient.Option
}

// Open builds a Session and migrates a legacy configuration when there
// is one.
func Open(ctx context.Context, env Environment, options Options) (*Session, error) {
	if options.Fs == nil {
		options.Fs = afero.NewOsFs()
	}
	if options.In == nil {
		options.In = os.Stdin
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.ErrOut == nil {
		options.ErrOut = os.Stderr
	}
	if options.Logger == nil {
		options.Logger = logrus.New()
		options.Logger.SetOutput(options.ErrOut)
	}
	if options.Opener == nil {
		options.Opener = login.BrowserOpener{}
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if env.Lookup == nil {
		env.Lookup = func(string) (string, bool) { return "", false }
	}

	layout := fsutil.Layout{Root: env.Root}
	session := &Session{
		Env:         env,
		Fs:          options.Fs,
		Layout:      layout,
		Clusters:    cluster.NewStore(options.Fs, layout, env.Lookup, options.Logger),
		Logger:      options.Logger,
		In:          options.In,
		Out:         options.Out,
		ErrOut:      options.ErrOut,
		Prompter:    prompt.New(options.In, options.ErrOut),
		Opener:      options.Opener,
		Clock:       options.Clock,
		httpOptions: options.HTTPOptions,
	}

	if err := session.Clusters.Migrate(ctx, session.probe, session.ErrOut); err != nil {
		return nil, err
	}
	return session, nil
}

// probe asks the cluster a legacy document points at for its ID.
func (s *Session) probe(ctx context.Context, document *config.Document) (string, error) {
	client, err := s.documentClient(document)
	if err != nil {
		return "", err
	}
	metadata, err := dcos.NewClient(client).Metadata(ctx)
	if err != nil {
		return "", err
	}
	return metadata.ClusterID, nil
}

// Attached returns the attached cluster.
func (s *Session) Attached() (*cluster.Profile, error) {
	return s.Clusters.Attached()
}

// Resolver returns the effective configuration of profile: environment
// overrides over its dcos.toml.
func (s *Session) Resolver(profile *cluster.Profile) *config.Resolver {
	document := profile.Config
	if document == nil {
		document = config.NewDocument()
	}
	return config.NewResolver(document.View(), s.Env.Lookup)
}

// ClientOptions are the HTTP settings profile records: its TLS policy,
// its token, and core.timeout.
func (s *Session) ClientOptions(profile *cluster.Profile) ([]httpclient.Option, error) {
	resolver := s.Resolver(profile)
	options := []httpclient.Option{httpclient.Logger(s.Logger)}

	policy := trust.ParsePolicy(resolver.String(config.KeySSLVerify))
	tlsConfig, err := policy.TLSConfig(s.Fs)
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		options = append(options, httpclient.TLS(tlsConfig))
	}
	if token := resolver.String(config.KeyToken); token != "" {
		options = append(options, httpclient.Token(token))
	}
	if seconds, ok := resolver.Int(config.KeyTimeout); ok && seconds > 0 {
		timeout := time.Duration(seconds) * time.Second
		options = append(options, httpclient.Timeout(timeout), httpclient.DialTimeout(timeout))
	}
	return append(options, s.httpOptions...), nil
}

// URL is the effective cluster URL of profile.
func (s *Session) URL(profile *cluster.Profile) string {
	return s.Resolver(profile).String(config.KeyURL)
}

func (s *Session) documentClient(document *config.Document) (*httpclient.Client, error) {
	profile := cluster.FromDocument("", document)
	options, err := s.ClientOptions(profile)
	if err != nil {
		return nil, err
	}
	return httpclient.New(s.URL(profile), options...)
}

// HTTPClient returns a client for profile that logs in again, and
// stores the new token, when the cluster rejects the current one.
func (s *Session) HTTPClient(profile *cluster.Profile, extra ...httpclient.Option) (*httpclient.Client, error) {
	acquirer, err := s.Acquirer(profile)
	if err != nil {
		return nil, err
	}
	options, err := s.ClientOptions(profile)
	if err != nil {
		return nil, err
	}
	options = append(options, httpclient.WithReauthenticator(acquirer))
	return httpclient.New(s.URL(profile), append(options, extra...)...)
}

// DCOS returns the metadata client of profile, honoring
// core.mesos_master_url.
func (s *Session) DCOS(profile *cluster.Profile, extra ...httpclient.Option) (*dcos.Client, error) {
	client, err := s.HTTPClient(profile, extra...)
	if err != nil {
		return nil, err
	}
	api := dcos.NewClient(client)
	if mesosURL := s.Resolver(profile).String(config.KeyMesosURL); mesosURL != "" {
		api = api.WithMesosURL(mesosURL)
	}
	return api, nil
}

// Acquirer returns the credential acquirer of profile. It talks to the
// cluster through a client without token or reauthenticator, and
// persists what it obtains through the cluster store.
func (s *Session) Acquirer(profile *cluster.Profile) (*login.Acquirer, error) {
	resolver := s.Resolver(profile)
	options, err := s.ClientOptions(profile)
	if err != nil {
		return nil, err
	}
	// A later Token option wins; clear the profile's token.
	options = append(options, httpclient.Token(""))
	client, err := httpclient.New(s.URL(profile), options...)
	if err != nil {
		return nil, err
	}
	return login.NewAcquirer(client, s.loginOptions(login.Options{
		ProviderID:  profile.ProviderID,
		PromptLogin: resolver.Bool(config.KeyPromptLogin, true),
		Persist: func(result login.Result) error {
			if profile.Dir == "" {
				return nil
			}
			return s.Clusters.SaveToken(profile, result.Token, result.ProviderID)
		},
	})), nil
}

func (s *Session) loginOptions(options login.Options) login.Options {
	options.Prompter = s.Prompter
	options.Opener = s.Opener
	options.Clock = s.Clock
	options.Logger = s.Logger
	options.ErrOut = s.ErrOut
	options.Lookup = login.LookupFunc(s.Env.Lookup)
	options.Fs = s.Fs
	return options
}

// LoginClient returns an acquirer for an arbitrary URL, for commands
// that talk to a cluster that is not configured yet.
func (s *Session) LoginClient(rawURL string) (*login.Acquirer, error) {
	normalized, err := config.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	client, err := httpclient.New(normalized, append([]httpclient.Option{httpclient.Logger(s.Logger)}, s.httpOptions...)...)
	if err != nil {
		return nil, err
	}
	return login.NewAcquirer(client, s.loginOptions(login.Options{})), nil
}

// Setup returns the cluster setup pipeline.
func (s *Session) Setup() *setup.Pipeline {
	return &setup.Pipeline{
		Store:    s.Clusters,
		Trust:    trust.NewStore(s.Fs, s.Logger, s.httpOptions...),
		Prompter: s.Prompter,
		Logger:   s.Logger,
		ErrOut:   s.ErrOut,
		Lookup:   s.Env.Lookup,
		Options:  s.httpOptions,
		Authenticators: func(client *httpclient.Client) setup.Authenticator {
			return login.NewAcquirer(client, s.loginOptions(login.Options{}))
		},
	}
}
