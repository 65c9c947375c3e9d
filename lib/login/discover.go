// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/httpclient"
)

const (
	providersPath = "/acs/api/v1/auth/providers"
	loginPath     = "/acs/api/v1/auth/login"

	// challengePath is a resource every cluster serves and guards with
	// authentication when authentication is enabled.
	challengePath = "/pkgpanda/active.buildinfo.full.json"
)

// ErrAuthDisabled means the cluster accepts unauthenticated requests.
var ErrAuthDisabled = errors.New("login: authentication is disabled on this cluster")

// Discover returns the login providers of the cluster client points at.
// client must not carry a token or a reauthenticator. Clusters that
// predate the providers endpoint get one provider synthesized from their
// WWW-Authenticate challenge.
func Discover(ctx context.Context, client *httpclient.Client) (Providers, error) {
	scheme, err := challenge(ctx, client)
	if err != nil {
		return nil, err
	}

	response, err := client.Get(ctx, providersPath, httpclient.WithSuccess(func(status int) bool {
		return httpclient.IsSuccess(status) || status == http.StatusNotFound
	}))
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusNotFound {
		providers := Providers{}
		if err := response.Decode(&providers); err != nil {
			return nil, err
		}
		for id, provider := range providers {
			if provider == nil {
				delete(providers, id)
				continue
			}
			provider.ID = id
		}
		// Open source clusters advertise only their local users and
		// leave the OIDC login implicit in the challenge.
		if scheme == httpclient.SchemeOAuthJWT {
			provider := defaultOIDCProvider()
			if _, ok := providers[provider.ID]; !ok {
				providers[provider.ID] = provider
			}
		}
		return providers, nil
	}

	switch scheme {
	case httpclient.SchemeACSJWT:
		provider := defaultPasswordProvider()
		return Providers{provider.ID: provider}, nil
	case httpclient.SchemeOAuthJWT:
		provider := defaultOIDCProvider()
		return Providers{provider.ID: provider}, nil
	}
	return nil, errdef.New(errdef.Unsupported, "Unsupported WWW-Authenticate challenge '%s'.", scheme)
}

// challenge sends an unauthenticated request to a guarded resource and
// returns the scheme of the 401 it gets back.
func challenge(ctx context.Context, client *httpclient.Client) (string, error) {
	response, err := client.Head(ctx, challengePath, httpclient.WithSuccess(func(int) bool { return true }))
	if err != nil {
		return "", err
	}
	switch response.StatusCode {
	case http.StatusOK:
		return "", ErrAuthDisabled
	case http.StatusUnauthorized:
		parsed, err := httpclient.ParseChallenge(response.Header.Get("WWW-Authenticate"))
		if err != nil {
			return "", err
		}
		return parsed.Scheme, nil
	}
	return "", errdef.New(errdef.HTTPError, "Expected status code 401 from [%s], got %d.", response.URL, response.StatusCode).WithURL(response.URL)
}
