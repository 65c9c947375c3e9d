// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package setup turns a cluster URL into a committed, attached profile.
//
// A run writes into a draft profile directory that [cluster.Store.List]
// does not show. The draft only becomes clusters/<id> once the cluster
// is trusted, authenticated, and has reported its ID; any earlier
// failure discards it and puts the previous attachment back.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/cluster"
	"github.com/bureau-foundation/dcos/lib/config"
	"github.com/bureau-foundation/dcos/lib/dcos"
	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/fsutil"
	"github.com/bureau-foundation/dcos/lib/httpclient"
	"github.com/bureau-foundation/dcos/lib/login"
	"github.com/bureau-foundation/dcos/lib/trust"
	"github.com/bureau-foundation/dcos/lib/version"
)

// EnvSetupToken supplies a token and skips login entirely.
const EnvSetupToken = "DCOS_CLUSTER_SETUP_ACS_TOKEN"

// Variables that would otherwise redirect the run away from the URL
// passed on the command line.
var overridingEnv = []string{"DCOS_URL", "DCOS_CLUSTER_URL", cluster.EnvCluster}

const ignoredURLNotice = "Ignoring DCOS_URL environment variable, the cluster URL passed as argument takes precedence."

// Flags are the options of `dcos cluster setup`.
type Flags struct {
	Insecure  bool   `flag:"insecure" desc:"allow requests to bypass TLS certificate verification (insecure)"`
	NoCheck   bool   `flag:"no-check" desc:"do not check the CA certificate downloaded from the cluster (insecure)"`
	CACerts   string `flag:"ca-certs" desc:"path of a PEM-encoded CA bundle to trust for this cluster"`
	Name      string `flag:"name" desc:"custom name for the cluster"`
	NoTimeout bool   `flag:"no-timeout" desc:"do not time out HTTP requests made during setup"`

	login.Flags
}

// Prompter is the operator interaction setup needs: credential prompts
// and the CA confirmation.
type Prompter interface {
	login.Prompter
	trust.Confirmer
}

// Authenticator logs in to one cluster.
type Authenticator interface {
	Login(ctx context.Context, credentials login.Credentials) (login.Result, error)
}

// Pipeline runs cluster setups.
type Pipeline struct {
	Store *cluster.Store
	Trust *trust.Store

	// Authenticators returns the authenticator for a cluster. client
	// carries no token and no reauthenticator.
	Authenticators func(client *httpclient.Client) Authenticator

	Prompter Prompter
	Logger   *logrus.Logger
	ErrOut   io.Writer

	// Lookup reads the environment; Unsetenv removes a variable from
	// it. They default to the process environment.
	Lookup   config.LookupFunc
	Unsetenv func(key string) error

	// Options are applied to every client the run creates.
	Options []httpclient.Option
}

// Run sets up the cluster at rawURL and attaches it.
func (p *Pipeline) Run(ctx context.Context, rawURL string, flags Flags) (*cluster.Profile, error) {
	p.defaults()

	clusterURL, err := config.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	hidden := p.sanitizeEnvironment()
	lookup := func(key string) (string, bool) {
		if hidden[key] {
			return "", false
		}
		return p.Lookup(key)
	}
	credentials, err := flags.Flags.Resolve(login.LookupFunc(lookup), p.Store.Fs())
	if err != nil {
		return nil, err
	}

	previous := p.previouslyAttached()
	draft, err := p.Store.ReserveDraft()
	if err != nil {
		return nil, err
	}
	run := &run{
		Pipeline:    p,
		flags:       flags,
		credentials: credentials,
		lookup:      lookup,
		draft:       draft,
		url:         clusterURL,
	}

	profile, err := run.execute(ctx)
	if err != nil && !run.committed {
		p.rollback(draft, previous)
	}
	return profile, err
}

func (p *Pipeline) defaults() {
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	if p.ErrOut == nil {
		p.ErrOut = io.Discard
	}
	if p.Lookup == nil {
		p.Lookup = os.LookupEnv
	}
	if p.Unsetenv == nil {
		p.Unsetenv = os.Unsetenv
	}
	if p.Authenticators == nil {
		p.Authenticators = func(client *httpclient.Client) Authenticator {
			return login.NewAcquirer(client, login.Options{
				Prompter: p.Prompter,
				Logger:   p.Logger,
				ErrOut:   p.ErrOut,
				Lookup:   login.LookupFunc(p.Lookup),
				Fs:       p.Store.Fs(),
			})
		}
	}
}

// sanitizeEnvironment removes the variables that would override the URL
// being set up. The removal lasts for the rest of the process.
func (p *Pipeline) sanitizeEnvironment() map[string]bool {
	hidden := map[string]bool{}
	noticed := false
	for _, key := range overridingEnv {
		if _, ok := p.Lookup(key); !ok {
			continue
		}
		hidden[key] = true
		if err := p.Unsetenv(key); err != nil {
			p.Logger.WithError(err).WithField("variable", key).Debug("could not unset environment variable")
		}
		if key != cluster.EnvCluster && !noticed {
			fmt.Fprintln(p.ErrOut, ignoredURLNotice)
			noticed = true
		}
	}
	return hidden
}

func (p *Pipeline) previouslyAttached() string {
	profiles, err := p.Store.List()
	if err != nil {
		return ""
	}
	for _, profile := range profiles {
		if profile.Attached {
			return profile.ID
		}
	}
	return ""
}

func (p *Pipeline) rollback(draft *cluster.Draft, previous string) {
	if err := p.Store.Discard(draft); err != nil {
		p.Logger.WithError(err).Warn("could not discard setup draft")
	}
	var err error
	if previous != "" {
		err = p.Store.Attach(previous)
	} else {
		err = p.Store.Detach()
	}
	if err != nil {
		p.Logger.WithError(err).Warn("could not restore the previously attached cluster")
	}
}

// run is the state of one setup.
type run struct {
	*Pipeline
	flags       Flags
	credentials login.Credentials
	lookup      func(string) (string, bool)
	draft       *cluster.Draft
	committed   bool

	url        string
	policy     trust.Policy
	options    []httpclient.Option
	token      string
	providerID string
}

func (r *run) execute(ctx context.Context) (*cluster.Profile, error) {
	if err := r.Store.AttachDraft(r.draft); err != nil {
		return nil, err
	}
	if err := r.writeDraft(func(document *config.Document) {
		document.Set(config.KeyURL, r.url)
	}); err != nil {
		return nil, err
	}
	document, err := r.Store.ConfigStore(r.draft.Dir).Load()
	if err != nil {
		return nil, err
	}
	r.url = document.Display(config.KeyURL)

	r.Logger.WithField("url", r.url).Info("Setting up the cluster...")

	if err := r.configureTrust(ctx); err != nil {
		return nil, err
	}
	if err := r.detectCanonicalURL(ctx); err != nil {
		return nil, err
	}
	if err := r.authenticate(ctx); err != nil {
		return nil, err
	}

	profile, err := r.describe(ctx)
	if err != nil {
		return nil, err
	}
	return r.commit(profile)
}

func (r *run) writeDraft(mutate func(document *config.Document)) error {
	_, err := r.Store.ConfigStore(r.draft.Dir).Update(func(document *config.Document) error {
		mutate(document)
		return nil
	})
	return err
}

func (r *run) clientOptions() []httpclient.Option {
	options := append([]httpclient.Option{httpclient.Logger(r.Logger)}, r.Options...)
	if r.flags.NoTimeout {
		options = append(options, httpclient.Timeout(0))
	}
	return options
}

// configureTrust settles the TLS policy: --insecure, then --ca-certs,
// then the cluster CA when the system roots do not verify the cluster.
func (r *run) configureTrust(ctx context.Context) error {
	policy, err := r.choosePolicy(ctx)
	if err != nil {
		return err
	}
	tlsConfig, err := policy.TLSConfig(r.Store.Fs())
	if err != nil {
		return err
	}
	r.policy = policy
	r.options = r.clientOptions()
	if tlsConfig != nil {
		r.options = append(r.options, httpclient.TLS(tlsConfig))
	}
	return r.writeDraft(func(document *config.Document) {
		document.Set(config.KeySSLVerify, policy.SSLVerify())
	})
}

func (r *run) choosePolicy(ctx context.Context) (trust.Policy, error) {
	if !strings.HasPrefix(r.url, "https://") {
		return trust.System, nil
	}
	if r.flags.Insecure {
		r.Logger.Warn("TLS certificate verification is disabled for this cluster")
		return trust.Insecure, nil
	}
	if r.flags.CACerts != "" {
		bundle, err := afero.ReadFile(r.Store.Fs(), r.flags.CACerts)
		if err != nil {
			return trust.Policy{}, errdef.Wrap(errdef.Validation, err, "Unable to read CA bundle %s.", r.flags.CACerts)
		}
		if _, err := trust.ParseAuthority(bundle); err != nil {
			return trust.Policy{}, err
		}
		return r.Trust.Install(bundle, r.draft.Dir)
	}

	needsPinning, err := r.Trust.NeedsPinning(ctx, r.url)
	if err != nil {
		return trust.Policy{}, err
	}
	if !needsPinning {
		return trust.System, nil
	}
	authority, err := r.Trust.FetchCA(ctx, r.url)
	if err != nil {
		return trust.Policy{}, err
	}
	if err := trust.Confirm(r.confirmer(), authority.Certificate, r.flags.NoCheck); err != nil {
		return trust.Policy{}, err
	}
	return r.Trust.Install(authority.PEM, r.draft.Dir)
}

func (r *run) confirmer() trust.Confirmer {
	if r.Prompter == nil {
		return refuse{}
	}
	return r.Prompter
}

// refuse declines every confirmation; setups without a terminal must
// pass --no-check or --ca-certs to trust a cluster CA.
type refuse struct{}

func (refuse) Confirm(string) error {
	return errdef.Aborted("Couldn't get confirmation.").
		WithHint("Pass --no-check or --ca-certs to trust the cluster certificate without a prompt.")
}

// detectCanonicalURL follows a redirect of "/" to the same path on
// another host, so the profile records the URL the cluster answers on.
func (r *run) detectCanonicalURL(ctx context.Context) error {
	client, err := httpclient.New(r.url, append(r.options,
		httpclient.NoFollow(),
		httpclient.Success(func(int) bool { return true }))...)
	if err != nil {
		return err
	}
	response, err := client.Head(ctx, "/")
	if err != nil {
		return err
	}

	canonical := canonicalURL(r.url, response)
	if canonical == r.url {
		return nil
	}
	r.Logger.Warnf("Continuing cluster setup with: %s", canonical)
	r.url = canonical
	return r.writeDraft(func(document *config.Document) {
		document.Set(config.KeyURL, canonical)
	})
}

func canonicalURL(current string, response *httpclient.Response) string {
	base, err := url.Parse(current)
	if err != nil {
		return current
	}
	base.Host = strings.ToLower(base.Host)
	if response.StatusCode < http.StatusMultipleChoices || response.StatusCode >= http.StatusBadRequest {
		return base.String()
	}
	location, err := base.Parse(response.Header.Get("Location"))
	if err != nil || location.Host == "" {
		return base.String()
	}
	if strings.TrimRight(location.Path, "/") != strings.TrimRight(base.Path, "/") {
		return base.String()
	}
	canonical := &url.URL{
		Scheme: location.Scheme,
		Host:   strings.ToLower(location.Host),
		Path:   strings.TrimRight(location.Path, "/"),
	}
	return canonical.String()
}

func (r *run) authenticate(ctx context.Context) error {
	if token, ok := r.lookup(EnvSetupToken); ok && token != "" {
		r.Logger.Debugf("using token from %s", EnvSetupToken)
		r.token = token
		return nil
	}

	client, err := httpclient.New(r.url, r.options...)
	if err != nil {
		return err
	}
	result, err := r.Authenticators(client).Login(ctx, r.credentials)
	switch {
	case errors.Is(err, login.ErrAuthDisabled):
		r.Logger.Warn("This cluster does not require authenticated requests. Skipping login.")
		return nil
	case err != nil:
		return err
	}
	r.token = result.Token
	r.providerID = result.ProviderID
	return nil
}

// describe reads the cluster ID, name, and version.
func (r *run) describe(ctx context.Context) (*cluster.Profile, error) {
	client, err := httpclient.New(r.url, append(r.options, httpclient.Token(r.token))...)
	if err != nil {
		return nil, err
	}
	api := dcos.NewClient(client)

	metadata, err := api.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	profile := &cluster.Profile{
		ID:         metadata.ClusterID,
		Name:       r.flags.Name,
		URL:        r.url,
		TLS:        r.policy,
		Token:      r.token,
		ProviderID: r.providerID,
		Version:    version.Unknown,
	}
	if profile.Name == "" {
		summary, err := api.StateSummary(ctx)
		switch {
		case err != nil:
			r.Logger.WithError(err).Debug("could not read the Mesos cluster name")
		case summary.Cluster != "":
			profile.Name = summary.Cluster
		}
	}
	if profile.Name == "" {
		profile.Name = metadata.ClusterID
	}

	clusterVersion, err := api.Version(ctx)
	if err != nil {
		return nil, err
	}
	profile.Version = clusterVersion.Version
	if !version.Supported(profile.Version) {
		r.Logger.Warnf("DC/OS %s is not supported by this CLI, some commands may not work.", profile.Version)
	}
	return profile, nil
}

// commit writes the profile into the draft and renames the draft to
// its cluster ID, replacing an earlier setup of the same cluster.
func (r *run) commit(profile *cluster.Profile) (*cluster.Profile, error) {
	final := r.Store.Layout().ClusterDir(profile.ID)
	if profile.TLS.Mode == trust.ModePinned {
		profile.TLS = trust.Pinned(fsutil.CAPath(final))
	}
	document, err := r.Store.ConfigStore(r.draft.Dir).Load()
	if err != nil {
		return nil, err
	}
	profile.Dir = r.draft.Dir
	profile.Config = document
	if err := r.Store.Save(profile); err != nil {
		return nil, err
	}

	committed, err := r.Store.Materialize(r.draft, profile.ID)
	if errors.Is(err, cluster.ErrExists) {
		r.Logger.WithField("cluster", profile.ID).Info("replacing the existing profile of this cluster")
		committed, err = r.Store.Replace(r.draft, profile.ID)
	}
	if err != nil {
		return nil, err
	}
	r.committed = true

	if err := r.Store.Attach(committed.ID); err != nil {
		return nil, err
	}
	committed.Attached = true
	fmt.Fprintf(r.ErrOut, "You are now attached to cluster %s\n", committed.ID)
	return committed, nil
}
