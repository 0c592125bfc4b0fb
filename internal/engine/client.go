// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package engine is a small client for the n8n public REST API
// (/api/v1/workflows). Every call is a single attempt bounded by a timeout.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/security"
)

const (
	// DefaultTimeout bounds list, create and update calls.
	DefaultTimeout = 10 * time.Second
	// StatusTimeout bounds the lightweight connectivity probe.
	StatusTimeout = 5 * time.Second

	apiKeyHeader = "X-N8N-API-KEY"
	workflowsAPI = "/api/v1/workflows"
	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4096
)

// Client talks to one n8n instance.
type Client struct {
	host    string
	key     security.Secret
	http    *http.Client
	timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New returns a client for host authenticated with apiKey. A trailing slash
// on host is ignored. Empty host or key yields ErrNotConfigured.
func New(host string, apiKey security.Secret, opts ...Option) (*Client, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" || len(apiKey) == 0 {
		return nil, ErrNotConfigured
	}
	c := &Client{host: host, key: apiKey, http: http.DefaultClient, timeout: DefaultTimeout}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Host returns the normalized base URL.
func (c *Client) Host() string { return c.host }

// CreatePayload is the body sent to POST /api/v1/workflows.
type CreatePayload struct {
	Name        string            `json:"name"`
	Nodes       []json.RawMessage `json:"nodes"`
	Connections json.RawMessage   `json:"connections"`
	Settings    map[string]any    `json:"settings"`
	Active      bool              `json:"active"`
}

// UpdatePayload is the body sent to PUT /api/v1/workflows/{id}.
type UpdatePayload struct {
	Name        string            `json:"name"`
	Nodes       []json.RawMessage `json:"nodes"`
	Connections json.RawMessage   `json:"connections"`
	Settings    map[string]any    `json:"settings"`
	Tags        []json.RawMessage `json:"tags,omitempty"`
}

// List returns every workflow of the instance.
func (c *Client) List(ctx context.Context) ([]model.Workflow, error) {
	var out struct {
		Data []model.Workflow `json:"data"`
	}
	if err := c.do(ctx, "list", http.MethodGet, workflowsAPI, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []model.Workflow{}
	}
	return out.Data, nil
}

// Create creates a workflow and returns its id. n8n answers either with the
// workflow itself or wrapped in {data: ...}.
func (c *Client) Create(ctx context.Context, p CreatePayload) (string, error) {
	var out struct {
		ID   model.WorkflowID `json:"id"`
		Data struct {
			ID model.WorkflowID `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, "create", http.MethodPost, workflowsAPI, p, &out); err != nil {
		return "", err
	}
	if out.ID != "" {
		return string(out.ID), nil
	}
	return string(out.Data.ID), nil
}

// Update replaces the workflow id with p.
func (c *Client) Update(ctx context.Context, id string, p UpdatePayload) error {
	return c.do(ctx, "update", http.MethodPut, workflowsAPI+"/"+id, p, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("n8n %s: encode body: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.host+path, rd)
	if err != nil {
		return &ConnectivityError{Op: op, Err: err}
	}
	req.Header.Set(apiKeyHeader, c.key.Reveal())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ConnectivityError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidToken
	case resp.StatusCode == http.StatusNotFound:
		return ErrEndpointNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return &ConnectivityError{Op: op, Err: err}
		}
		return fmt.Errorf("n8n %s: decode response: %w", op, err)
	}
	return nil
}
