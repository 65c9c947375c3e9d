// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dcos reads the identity metadata every cluster publishes: its
// ID, its version, and the Mesos cluster name.
package dcos

import (
	"context"
	"strings"

	"github.com/bureau-foundation/dcos/lib/errdef"
	"github.com/bureau-foundation/dcos/lib/httpclient"
	"github.com/bureau-foundation/dcos/lib/version"
)

// VersionPath is the endpoint publishing the cluster version.
const VersionPath = "/dcos-metadata/dcos-version.json"

const (
	metadataPath     = "/metadata"
	stateSummaryPath = "/mesos/state-summary"
)

// Metadata is the response of /metadata.
type Metadata struct {
	ClusterID  string `json:"CLUSTER_ID"`
	PublicIPv4 string `json:"PUBLIC_IPV4"`
}

// Version is the response of /dcos-metadata/dcos-version.json.
type Version struct {
	Version     string `json:"version"`
	Variant     string `json:"dcos-variant"`
	ImageCommit string `json:"dcos-image-commit"`
	BootstrapID string `json:"bootstrap-id"`
}

// StateSummary is the part of the Mesos state summary the CLI uses.
type StateSummary struct {
	Cluster string `json:"cluster"`
}

// Client reads cluster metadata.
type Client struct {
	http *httpclient.Client

	// mesosURL replaces the cluster URL for Mesos endpoints when
	// core.mesos_master_url is set.
	mesosURL string
}

// NewClient wraps an HTTP client bound to a cluster.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// WithMesosURL returns a client reading the state summary from masterURL.
func (c *Client) WithMesosURL(masterURL string) *Client {
	return &Client{http: c.http, mesosURL: strings.TrimRight(masterURL, "/")}
}

// Metadata returns the cluster metadata. A response without a cluster ID
// is an error: nothing downstream can name the profile.
func (c *Client) Metadata(ctx context.Context) (*Metadata, error) {
	var metadata Metadata
	if err := c.http.JSON(ctx, "GET", metadataPath, nil, &metadata); err != nil {
		return nil, err
	}
	if metadata.ClusterID == "" {
		return nil, errdef.New(errdef.Transport, "Error trying to find cluster id").WithURL(c.http.BaseURL() + metadataPath)
	}
	return &metadata, nil
}

// Version returns the cluster version. Clusters without the endpoint
// report version.Unknown rather than an error.
func (c *Client) Version(ctx context.Context) (*Version, error) {
	var result Version
	err := c.http.JSON(ctx, "GET", VersionPath, nil, &result)
	if err != nil {
		if errdef.Is(err, errdef.HTTPError) || errdef.Is(err, errdef.Transport) {
			return &Version{Version: version.Unknown}, nil
		}
		return nil, err
	}
	if result.Version == "" {
		result.Version = version.Unknown
	}
	return &result, nil
}

// DecodeVersion reads a version document fetched by other means, such
// as an [httpclient.Fetch] batch.
func DecodeVersion(response *httpclient.Response) (*Version, error) {
	var result Version
	if err := response.Decode(&result); err != nil {
		return nil, err
	}
	if result.Version == "" {
		result.Version = version.Unknown
	}
	return &result, nil
}

// StateSummary returns the Mesos state summary.
func (c *Client) StateSummary(ctx context.Context) (*StateSummary, error) {
	target := stateSummaryPath
	if c.mesosURL != "" {
		target = c.mesosURL + "/state-summary"
	}
	var summary StateSummary
	if err := c.http.JSON(ctx, "GET", target, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
