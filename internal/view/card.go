// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package view turns template listings into display cards and applies the
// dashboard's search, filters and sort orders to them. Everything here is a
// pure function over in-memory slices.
package view

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/model"
)

// Complexity buckets workflows by node count.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

func (c Complexity) rank() int {
	switch c {
	case ComplexityLow:
		return 1
	case ComplexityMedium:
		return 2
	case ComplexityHigh:
		return 3
	}
	return 0
}

// Card is one template as shown in the browse grid.
type Card struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	FileName    string     `json:"file_name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	TriggerType string     `json:"trigger_type"`
	Complexity  Complexity `json:"complexity"`
	Tags        []string   `json:"tags"`
	NodeCount   int        `json:"node_count"`
	// Active comes from the template body, not from a live n8n instance.
	Active      bool      `json:"active"`
	Popularity  float64   `json:"popularity"`
	Rating      float64   `json:"rating"`
	LastUpdated time.Time `json:"last_updated"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// BuildCard derives a card from a template listing entry. Templates whose
// body is missing or unparsable still produce a card named after the file.
func BuildCard(t model.Template, c Classifier) Card {
	card := Card{
		ID:          t.Path,
		Name:        strings.TrimSuffix(t.Name, ".json"),
		FileName:    t.Name,
		DownloadURL: t.DownloadURL,
		Tags:        []string{},
	}
	if card.ID == "" {
		card.ID = t.Name
	}

	var w model.Workflow
	if len(t.Content) > 0 && string(t.Content) != "null" {
		if err := json.Unmarshal(t.Content, &w); err != nil {
			w = model.Workflow{}
		}
	}
	if w.Name != "" {
		card.Name = w.Name
	}
	card.NodeCount = len(w.Nodes)
	card.Active = w.Active
	card.Description = metaString(w.Meta, "description")
	card.Popularity = metaNumber(w.Meta, "popularity")
	card.Rating = metaNumber(w.Meta, "rating")
	if ts, err := time.Parse(time.RFC3339, w.UpdatedAt); err == nil {
		card.LastUpdated = ts
	}

	cl := c.Classify(t.Name, w)
	card.Category = cl.Category
	card.TriggerType = cl.TriggerType
	card.Complexity = cl.Complexity
	if cl.Tags != nil {
		card.Tags = cl.Tags
	}
	return card
}

// BuildCards maps BuildCard over ts.
func BuildCards(ts []model.Template, c Classifier) []Card {
	out := make([]Card, 0, len(ts))
	for _, t := range ts {
		out = append(out, BuildCard(t, c))
	}
	return out
}

func metaString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func metaNumber(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}
