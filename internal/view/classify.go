// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package view

import (
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/model"
)

// Classification is what a Classifier infers about a workflow.
type Classification struct {
	Category    string
	TriggerType string
	Complexity  Complexity
	Tags        []string
}

// Classifier infers display metadata from a template file name and body.
type Classifier interface {
	Classify(fileName string, w model.Workflow) Classification
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(fileName string, w model.Workflow) Classification

func (f ClassifierFunc) Classify(fileName string, w model.Workflow) Classification {
	return f(fileName, w)
}

const (
	// Node-count thresholds. The cut points are arbitrary.
	lowMaxNodes    = 5
	mediumMaxNodes = 15

	DefaultCategory = "General"
)

// Trigger types reported by HeuristicClassifier.
const (
	TriggerWebhook  = "Webhook"
	TriggerSchedule = "Schedule"
	TriggerAppEvent = "App Event"
	TriggerManual   = "Manual"
)

type keyword struct {
	match    string
	category string
	tag      string
}

// keywords is matched against lower-cased node types and the file name.
// The first hit decides both the category and the keyword tag. The table is
// arbitrary and only meant to give the grid useful groupings.
var keywords = []keyword{
	{"openai", "AI", "ai"},
	{"langchain", "AI", "ai"},
	{"anthropic", "AI", "ai"},
	{"slack", "Communication", "slack"},
	{"discord", "Communication", "discord"},
	{"telegram", "Communication", "telegram"},
	{"gmail", "Communication", "email"},
	{"email", "Communication", "email"},
	{"googlesheets", "Data", "spreadsheet"},
	{"airtable", "Data", "database"},
	{"postgres", "Data", "database"},
	{"mysql", "Data", "database"},
	{"hubspot", "CRM", "crm"},
	{"salesforce", "CRM", "crm"},
	{"shopify", "E-commerce", "ecommerce"},
	{"stripe", "Finance", "payments"},
	{"twitter", "Social Media", "social"},
	{"linkedin", "Social Media", "social"},
	{"github", "Development", "git"},
	{"httprequest", "Development", "api"},
}

// HeuristicClassifier is the default Classifier.
type HeuristicClassifier struct{}

// ComplexityFor buckets a node count: up to 5 is low, up to 15 medium.
func ComplexityFor(nodes int) Complexity {
	switch {
	case nodes <= lowMaxNodes:
		return ComplexityLow
	case nodes <= mediumMaxNodes:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

func (HeuristicClassifier) Classify(fileName string, w model.Workflow) Classification {
	types := w.NodeTypes()
	lowered := make([]string, len(types))
	for i, t := range types {
		lowered[i] = strings.ToLower(t)
	}
	name := strings.ToLower(fileName)

	cl := Classification{
		Category:    DefaultCategory,
		TriggerType: triggerFor(lowered),
		Complexity:  ComplexityFor(len(w.Nodes)),
	}

	seen := map[string]bool{}
	var tags []string
	addTag := func(t string) {
		if t != "" && !seen[strings.ToLower(t)] {
			seen[strings.ToLower(t)] = true
			tags = append(tags, t)
		}
	}
	if k, ok := firstKeyword(append(lowered, name)); ok {
		cl.Category = k.category
		addTag(k.tag)
	}
	for _, t := range w.TagNames() {
		addTag(t)
	}
	if tags == nil {
		tags = []string{}
	}
	cl.Tags = tags
	return cl
}

// firstKeyword returns the first table entry found in srcs, scanning the
// sources in order.
func firstKeyword(srcs []string) (keyword, bool) {
	for _, src := range srcs {
		for _, k := range keywords {
			if strings.Contains(src, k.match) {
				return k, true
			}
		}
	}
	return keyword{}, false
}

func triggerFor(types []string) string {
	var schedule, app bool
	for _, t := range types {
		switch {
		case strings.Contains(t, "webhook"):
			return TriggerWebhook
		case strings.Contains(t, "scheduletrigger"), strings.Contains(t, "cron"), strings.Contains(t, "interval"):
			schedule = true
		case strings.Contains(t, "manualtrigger"):
		case strings.HasSuffix(t, "trigger"):
			app = true
		}
	}
	switch {
	case schedule:
		return TriggerSchedule
	case app:
		return TriggerAppEvent
	}
	return TriggerManual
}
