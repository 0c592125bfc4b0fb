// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core holds the dashboard services used by the HTTP server and the
// CLI. The interfaces below describe the side-effect boundaries: the n8n
// instance and the template repository.
package core

import (
	"context"
	"encoding/json"

	"github.com/altafpasha/n8n-dashboard/internal/engine"
	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/security"
)

// EngineClient is the part of the n8n API the services use.
type EngineClient interface {
	List(ctx context.Context) ([]model.Workflow, error)
	Create(ctx context.Context, p engine.CreatePayload) (string, error)
	Update(ctx context.Context, id string, p engine.UpdatePayload) error
}

// EngineFactory builds a client for one n8n instance. It returns
// engine.ErrNotConfigured when host or key is empty.
type EngineFactory func(host string, key security.Secret) (EngineClient, error)

// DefaultEngineFactory builds *engine.Client values.
func DefaultEngineFactory(opts ...engine.Option) EngineFactory {
	return func(host string, key security.Secret) (EngineClient, error) {
		c, err := engine.New(host, key, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// TemplateSource lists templates and downloads workflow documents.
type TemplateSource interface {
	List(ctx context.Context) ([]model.TemplateRef, error)
	ListWithContent(ctx context.Context) ([]model.Template, error)
	FetchWorkflow(ctx context.Context, url string) (json.RawMessage, error)
}
