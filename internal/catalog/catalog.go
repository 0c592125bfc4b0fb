// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package catalog lists workflow templates from a GitHub contents API
// directory and downloads their bodies.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/sourcegraph/conc"
)

const (
	// DefaultTimeout bounds the listing and each body download.
	DefaultTimeout = 10 * time.Second
	userAgent      = "N8N-Workflow-Manager"
	maxBodyBytes   = 10 << 20
)

// ErrNotConfigured is returned when no repository URL is set.
var ErrNotConfigured = errors.New("template repository url not configured")

// Fetcher reads one repository directory listing.
type Fetcher struct {
	repoURL string
	token   string
	http    *http.Client
	timeout time.Duration
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(f *Fetcher) { f.http = h }
}

// WithTimeout sets the listing and per-download timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// New returns a Fetcher for the contents API URL repoURL, e.g.
// https://api.github.com/repos/<owner>/<repo>/contents/<dir>. token is sent
// as a bearer token on the listing request when non-empty.
func New(repoURL, token string, opts ...Option) *Fetcher {
	f := &Fetcher{
		repoURL: strings.TrimSpace(repoURL),
		token:   strings.TrimSpace(token),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Configured reports whether a repository URL is set.
func (f *Fetcher) Configured() bool { return f.repoURL != "" }

// List returns the .json files of the directory. Non-array listings (for
// example a single file URL) yield an empty result.
func (f *Fetcher) List(ctx context.Context) ([]model.TemplateRef, error) {
	if !f.Configured() {
		return nil, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.repoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: github api responded with status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog: decode listing: %w", err)
	}
	var entries []model.TemplateRef
	if err := json.Unmarshal(raw, &entries); err != nil {
		// Not an array.
		return []model.TemplateRef{}, nil
	}
	return filterTemplates(entries), nil
}

func filterTemplates(entries []model.TemplateRef) []model.TemplateRef {
	out := make([]model.TemplateRef, 0, len(entries))
	for _, e := range entries {
		if e.Type == "file" && strings.HasSuffix(e.Name, ".json") && e.DownloadURL != "" {
			out = append(out, e)
		}
	}
	return out
}

// ListWithContent lists the directory and downloads every body
// concurrently. Downloads are detached from ctx cancellation and bounded by
// their own timeout; a failed download leaves Content null.
func (f *Fetcher) ListWithContent(ctx context.Context) ([]model.Template, error) {
	refs, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Template, len(refs))
	detached := context.WithoutCancel(ctx)

	var wg conc.WaitGroup
	for i, ref := range refs {
		out[i].TemplateRef = ref
		wg.Go(func() {
			cctx, cancel := context.WithTimeout(detached, f.timeout)
			defer cancel()
			body, err := f.FetchWorkflow(cctx, ref.DownloadURL)
			if err != nil {
				logging.Warnf("catalog: fetch %s: %v", ref.Name, err)
				return
			}
			out[i].Content = body
		})
	}
	wg.Wait()
	return out, nil
}

// FetchWorkflow downloads a single JSON document from url.
func (f *Fetcher) FetchWorkflow(ctx context.Context, url string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog: failed to fetch workflow: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("catalog: body is not valid JSON")
	}
	return json.RawMessage(body), nil
}
