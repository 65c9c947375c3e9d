// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool runs a bounded number of functions concurrently. It is the only
// place the CLI fans out; every goroutine it starts has returned by the
// time Wait does.
type Pool struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewPool returns a pool running at most size functions at once. A size
// below 1 means 1.
func NewPool(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(size)
	return &Pool{group: group, ctx: groupCtx}
}

// Go schedules fn, blocking while the pool is full. The context passed
// to fn is cancelled once any function returns an error.
func (p *Pool) Go(fn func(ctx context.Context) error) {
	p.group.Go(func() error { return fn(p.ctx) })
}

// Wait blocks until every scheduled function has returned and reports
// the first error.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

// Target is one request in a [Fetch] batch.
type Target struct {
	// Key identifies the request to the caller; it is echoed on the
	// result.
	Key    string
	Client *Client
	Path   string
}

// Result is the outcome of one [Target].
type Result struct {
	Key      string
	Response *Response
	Err      error
}

// Fetch issues a GET for every target, at most size at a time, and
// streams the results. Individual failures are reported on their Result
// and do not cancel the batch. The channel is closed after the last
// result.
func Fetch(ctx context.Context, size int, targets []Target) <-chan Result {
	results := make(chan Result, len(targets))
	pool := NewPool(ctx, size)
	for _, target := range targets {
		pool.Go(func(ctx context.Context) error {
			response, err := target.Client.Get(ctx, target.Path)
			results <- Result{Key: target.Key, Response: response, Err: err}
			return nil
		})
	}
	go func() {
		_ = pool.Wait()
		close(results)
	}()
	return results
}
