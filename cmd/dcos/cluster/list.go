// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"context"
	"time"

	"github.com/bureau-foundation/dcos/cmd/dcos/cli"
	libcluster "github.com/bureau-foundation/dcos/lib/cluster"
	"github.com/bureau-foundation/dcos/lib/dcos"
	"github.com/bureau-foundation/dcos/lib/httpclient"
	"github.com/bureau-foundation/dcos/lib/session"
	"github.com/bureau-foundation/dcos/lib/version"
)

const (
	// probeTimeout bounds each version probe of `cluster list`.
	probeTimeout = 3 * time.Second

	// probeConcurrency is how many clusters are probed at once.
	probeConcurrency = 4
)

// item is one row of `cluster list`.
type item struct {
	Name      string            `json:"name"`
	ClusterID string            `json:"cluster_id"`
	URL       string            `json:"url"`
	Version   string            `json:"version"`
	Attached  bool              `json:"attached"`
	Status    libcluster.Status `json:"status"`
}

type listParams struct {
	cli.JSONOutput
	Attached bool `json:"attached" flag:"attached" desc:"list the attached cluster only"`
}

func listCommand(app *cli.App) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the clusters configured and the ones linked to the current cluster",
		Description: `List the configured clusters.

Every cluster is probed for its version; clusters that answer within
three seconds are AVAILABLE, the others UNAVAILABLE. A profile without a
URL is UNCONFIGURED. The attached cluster is marked with "*".`,
		Usage: "dcos cluster list [--attached] [--json]",
		Examples: []cli.Example{
			{
				Description: "Show the attached cluster as JSON",
				Command:     "dcos cluster list --attached --json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := cli.ExactArgs(args, 0, "dcos cluster list [--attached] [--json]"); err != nil {
				return err
			}
			session, err := app.Session(ctx)
			if err != nil {
				return err
			}

			var profiles []*libcluster.Profile
			if params.Attached {
				attached, err := session.Attached()
				if err != nil {
					return err
				}
				profiles = []*libcluster.Profile{attached}
			} else {
				profiles, err = session.Clusters.List()
				if err != nil {
					return err
				}
				// Resolving the attached cluster marks the only profile
				// attached, and failures only mean no row gets a "*".
				if attached, err := session.Attached(); err == nil {
					for _, profile := range profiles {
						profile.Attached = profile.ID == attached.ID
					}
				}
			}

			items := describe(ctx, session, profiles)
			if done, err := params.EmitJSON(app.Out(), items); done {
				return err
			}

			table := cli.NewTable(app.Out(), "", "NAME", "ID", "STATUS", "VERSION", "URL")
			for _, row := range items {
				marker := ""
				if row.Attached {
					marker = "*"
				}
				table.AppendRow([]any{marker, row.Name, row.ClusterID, row.Status, row.Version, row.URL})
			}
			table.Render()
			return nil
		},
	}
}

// describe probes every profile for its version, at most
// probeConcurrency at a time, and returns the rows in profile order.
func describe(ctx context.Context, session *session.Session, profiles []*libcluster.Profile) []item {
	items := make([]item, len(profiles))
	index := make(map[string]int, len(profiles))
	var targets []httpclient.Target

	for i, profile := range profiles {
		items[i] = item{
			Name:      profile.Name,
			ClusterID: profile.ID,
			URL:       profile.URL,
			Version:   version.Unknown,
			Attached:  profile.Attached,
			Status:    libcluster.StatusUnavailable,
		}
		if profile.URL == "" {
			items[i].Status = libcluster.StatusUnconfigured
			continue
		}

		client, err := probeClient(session, profile)
		if err != nil {
			session.Logger.WithError(err).WithField("cluster", profile.ID).Debug("cannot probe cluster")
			continue
		}
		index[profile.ID] = i
		targets = append(targets, httpclient.Target{Key: profile.ID, Client: client, Path: dcos.VersionPath})
	}

	for result := range httpclient.Fetch(ctx, probeConcurrency, targets) {
		row := &items[index[result.Key]]
		if result.Err != nil {
			session.Logger.WithError(result.Err).WithField("cluster", result.Key).Debug("cluster is unavailable")
			continue
		}
		clusterVersion, err := dcos.DecodeVersion(result.Response)
		if err != nil {
			session.Logger.WithError(err).WithField("cluster", result.Key).Debug("unreadable version document")
			continue
		}
		row.Status = libcluster.StatusAvailable
		row.Version = clusterVersion.Version
	}
	return items
}

// probeClient talks to the URL the profile records, not an environment
// override, so every row describes its own cluster. It never logs in.
func probeClient(session *session.Session, profile *libcluster.Profile) (*httpclient.Client, error) {
	options, err := session.ClientOptions(profile)
	if err != nil {
		return nil, err
	}
	options = append(options, httpclient.Timeout(probeTimeout), httpclient.DialTimeout(probeTimeout))
	return httpclient.New(profile.URL, options...)
}
