// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/view"
)

// CatalogService exposes the template repository to the browse views.
type CatalogService struct {
	source     TemplateSource
	classifier view.Classifier
}

func NewCatalogService(source TemplateSource, c view.Classifier) *CatalogService {
	if c == nil {
		c = view.HeuristicClassifier{}
	}
	return &CatalogService{source: source, classifier: c}
}

// List returns the template references.
func (c *CatalogService) List(ctx context.Context) ([]model.TemplateRef, error) {
	return c.source.List(ctx)
}

// ListWithContent returns the references with their bodies.
func (c *CatalogService) ListWithContent(ctx context.Context) ([]model.Template, error) {
	return c.source.ListWithContent(ctx)
}

// Browse builds cards for every template and applies crit. Facets are
// computed over the unfiltered set.
func (c *CatalogService) Browse(ctx context.Context, crit view.Criteria) ([]view.Card, view.Facets, error) {
	tpls, err := c.source.ListWithContent(ctx)
	if err != nil {
		return nil, view.Facets{}, err
	}
	cards := view.BuildCards(tpls, c.classifier)
	return view.Apply(cards, crit), view.FacetsOf(cards), nil
}

// Preview downloads one workflow document.
func (c *CatalogService) Preview(ctx context.Context, url string) (json.RawMessage, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, missing("url")
	}
	return c.source.FetchWorkflow(ctx, url)
}
