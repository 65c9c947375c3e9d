// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package login

import (
	"fmt"
	"sort"
	"strings"
)

// Provider types a cluster may advertise.
const (
	TypeUIDPassword     = "dcos-uid-password"
	TypeUIDServiceKey   = "dcos-uid-servicekey"
	TypeUIDPasswordLDAP = "dcos-uid-password-ldap"
	TypeOIDCImplicit    = "oidc-implicit-flow"
	TypeOIDCAuthCode    = "oidc-authorization-code-flow"
	TypeSAML            = "saml-sp-initiated"
)

// Client methods: how the CLI obtains a token for a provider.
const (
	MethodUserCredential    = "dcos-usercredential-post-receive-authtoken"
	MethodServiceCredential = "dcos-servicecredential-post-receive-authtoken"
	MethodBrowserAuthToken  = "browser-prompt-authtoken"
	MethodBrowserOIDCToken  = "browser-prompt-oidcidtoken-get-authtoken"

	// methodCredential is what some clusters advertise for LDAP.
	methodCredential = "dcos-credential-post-receive-authtoken"
)

// Provider is one login method a cluster advertises.
type Provider struct {
	// ID is the key the provider is advertised under.
	ID           string         `json:"-"`
	Type         string         `json:"authentication-type"`
	ClientMethod string         `json:"client-method"`
	Description  string         `json:"description"`
	Config       ProviderConfig `json:"config"`
}

// ProviderConfig holds per-provider settings.
type ProviderConfig struct {
	// StartFlowURL is where the flow begins: the login endpoint for
	// credential providers, a browser URL for the others. It may be
	// relative to the cluster URL.
	StartFlowURL string `json:"start_flow_url"`
}

// Summary describes the provider for selection menus.
func (p *Provider) Summary() string {
	switch p.Type {
	case TypeUIDPassword:
		return "Log in using a standard DC/OS user account (username and password)"
	case TypeUIDServiceKey:
		return "Log in using a DC/OS service user account (username and private key)"
	case TypeUIDPasswordLDAP:
		return "Log in using an LDAP user account (username and password)"
	case TypeSAML:
		return fmt.Sprintf("Log in using SAML 2.0 (%s)", p.Description)
	case TypeOIDCImplicit, TypeOIDCAuthCode:
		return fmt.Sprintf("Log in using OpenID Connect (%s)", p.Description)
	}
	return p.Description
}

func (p *Provider) usesPassword() bool {
	return p.Type == TypeUIDPassword || p.Type == TypeUIDPasswordLDAP
}

func (p *Provider) usesBrowser() bool {
	return p.ClientMethod == MethodBrowserAuthToken || p.ClientMethod == MethodBrowserOIDCToken
}

// Providers maps provider IDs to providers.
type Providers map[string]*Provider

// IDs returns the provider IDs in sorted order.
func (p Providers) IDs() []string {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sorted returns the providers ordered by ID.
func (p Providers) Sorted() []*Provider {
	sorted := make([]*Provider, 0, len(p))
	for _, id := range p.IDs() {
		sorted = append(sorted, p[id])
	}
	return sorted
}

func (p Providers) describe() string {
	var builder strings.Builder
	for _, provider := range p.Sorted() {
		fmt.Fprintf(&builder, "\n  %s: %s", provider.ID, provider.Summary())
	}
	return builder.String()
}

func defaultPasswordProvider() *Provider {
	return &Provider{
		ID:           "dcos-users",
		Type:         TypeUIDPassword,
		ClientMethod: MethodUserCredential,
		Description:  "Default DC/OS login provider",
		Config:       ProviderConfig{StartFlowURL: loginPath},
	}
}

func defaultOIDCProvider() *Provider {
	return &Provider{
		ID:           "dcos-oidc-auth0",
		Type:         TypeOIDCImplicit,
		ClientMethod: MethodBrowserAuthToken,
		Description:  "Google, GitHub, or Microsoft",
		Config:       ProviderConfig{StartFlowURL: "/login?redirect_uri=urn:ietf:wg:oauth:2.0:oob"},
	}
}
