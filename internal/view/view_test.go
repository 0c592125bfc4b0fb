// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package view

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workflowWithNodes(n int, types ...string) model.Workflow {
	w := model.Workflow{}
	for i := 0; i < n; i++ {
		typ := "n8n-nodes-base.set"
		if i < len(types) {
			typ = types[i]
		}
		w.Nodes = append(w.Nodes, json.RawMessage(fmt.Sprintf(`{"name":"n%d","type":%q}`, i, typ)))
	}
	return w
}

func TestComplexityBoundaries(t *testing.T) {
	cases := map[int]Complexity{
		0: ComplexityLow, 5: ComplexityLow,
		6: ComplexityMedium, 15: ComplexityMedium,
		16: ComplexityHigh, 40: ComplexityHigh,
	}
	for n, want := range cases {
		assert.Equal(t, want, ComplexityFor(n), "nodes=%d", n)
		got := HeuristicClassifier{}.Classify("x.json", workflowWithNodes(n))
		assert.Equal(t, want, got.Complexity, "classify nodes=%d", n)
	}
}

func TestHeuristicClassifier_CategoryTagsTrigger(t *testing.T) {
	w := workflowWithNodes(3, "n8n-nodes-base.webhook", "n8n-nodes-base.slack", "@n8n/n8n-nodes-langchain.openAi")
	w.Tags = []json.RawMessage{json.RawMessage(`{"id":"1","name":"Ops"}`), json.RawMessage(`"slack"`)}

	cl := HeuristicClassifier{}.Classify("notify-github.json", w)
	// Node types are scanned before the file name, first hit wins.
	assert.Equal(t, "Communication", cl.Category)
	assert.Equal(t, TriggerWebhook, cl.TriggerType)
	assert.Equal(t, []string{"slack", "Ops"}, cl.Tags)
}

func TestHeuristicClassifier_SingleKeywordTag(t *testing.T) {
	w := workflowWithNodes(3, "n8n-nodes-base.googleSheets", "n8n-nodes-base.slack", "@n8n/n8n-nodes-langchain.openAi")

	cl := HeuristicClassifier{}.Classify("github-sync.json", w)
	assert.Equal(t, "Data", cl.Category)
	assert.Equal(t, []string{"spreadsheet"}, cl.Tags)

	cl = HeuristicClassifier{}.Classify("github-sync.json", workflowWithNodes(2, "n8n-nodes-base.set"))
	assert.Equal(t, "Development", cl.Category)
	assert.Equal(t, []string{"git"}, cl.Tags)
}

func TestHeuristicClassifier_Defaults(t *testing.T) {
	cl := HeuristicClassifier{}.Classify("misc.json", model.Workflow{})
	assert.Equal(t, DefaultCategory, cl.Category)
	assert.Equal(t, TriggerManual, cl.TriggerType)
	assert.Equal(t, ComplexityLow, cl.Complexity)
	assert.NotNil(t, cl.Tags)
	assert.Empty(t, cl.Tags)

	byName := HeuristicClassifier{}.Classify("Stripe-Invoices.json", model.Workflow{})
	assert.Equal(t, "Finance", byName.Category)
}

func TestTriggerFor(t *testing.T) {
	assert.Equal(t, TriggerSchedule, triggerFor([]string{"n8n-nodes-base.scheduletrigger", "n8n-nodes-base.set"}))
	assert.Equal(t, TriggerAppEvent, triggerFor([]string{"n8n-nodes-base.githubtrigger"}))
	assert.Equal(t, TriggerManual, triggerFor([]string{"n8n-nodes-base.manualtrigger"}))
	assert.Equal(t, TriggerWebhook, triggerFor([]string{"n8n-nodes-base.scheduletrigger", "n8n-nodes-base.webhook"}))
}

func TestBuildCard_FromTemplate(t *testing.T) {
	tpl := model.Template{
		TemplateRef: model.TemplateRef{Name: "daily-report.json", Path: "workflows/daily-report.json", DownloadURL: "http://x/daily-report.json"},
		Content: json.RawMessage(`{"name":"Daily Report","active":true,"updatedAt":"2026-02-03T04:05:06Z",
			"meta":{"description":"Sends a report","popularity":12,"rating":4.5},
			"nodes":[{"type":"n8n-nodes-base.scheduleTrigger"},{"type":"n8n-nodes-base.gmail"}],"connections":{}}`),
	}
	c := BuildCard(tpl, HeuristicClassifier{})
	assert.Equal(t, "workflows/daily-report.json", c.ID)
	assert.Equal(t, "Daily Report", c.Name)
	assert.Equal(t, "Sends a report", c.Description)
	assert.Equal(t, 2, c.NodeCount)
	assert.True(t, c.Active)
	assert.Equal(t, 12.0, c.Popularity)
	assert.Equal(t, 4.5, c.Rating)
	assert.Equal(t, time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC), c.LastUpdated.UTC())
	assert.Equal(t, TriggerSchedule, c.TriggerType)
	assert.Equal(t, "Communication", c.Category)
}

func TestBuildCard_MissingContent(t *testing.T) {
	c := BuildCard(model.Template{TemplateRef: model.TemplateRef{Name: "broken.json"}}, HeuristicClassifier{})
	assert.Equal(t, "broken", c.Name)
	assert.Equal(t, "broken.json", c.ID)
	assert.Zero(t, c.NodeCount)
	assert.Equal(t, ComplexityLow, c.Complexity)
}

func sampleCards() []Card {
	return []Card{
		{ID: "1", Name: "Alpha", Description: "Post to SLACK channel", Category: "Communication", TriggerType: TriggerWebhook, Complexity: ComplexityLow, Tags: []string{"slack"}, NodeCount: 3, Popularity: 5, Rating: 3, LastUpdated: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Name: "beta", Description: "Sync rows", Category: "Data", TriggerType: TriggerSchedule, Complexity: ComplexityHigh, Tags: []string{"database", "Nightly"}, NodeCount: 20, Active: true, Popularity: 50, Rating: 4, LastUpdated: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "3", Name: "Gamma", Description: "", Category: "AI", TriggerType: TriggerManual, Complexity: ComplexityMedium, Tags: []string{"ai"}, NodeCount: 8, Popularity: 20, Rating: 5, LastUpdated: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func ids(cards []Card) string {
	var s []string
	for _, c := range cards {
		s = append(s, c.ID)
	}
	return strings.Join(s, ",")
}

func TestApply_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	cards := sampleCards()
	cases := map[string]string{
		"alpha":     "1", // name
		"slack":     "1", // description and tag
		"DATA":      "2", // category
		"schedule":  "2", // trigger type
		"nightly":   "2", // tag only
		"  gAmMa  ": "3",
		"":          "1,2,3",
		"zzz":       "",
	}
	for q, want := range cases {
		assert.Equal(t, want, ids(Apply(cards, Criteria{Search: q})), "search %q", q)
	}
}

func TestApply_MultiSelectFilters(t *testing.T) {
	cards := sampleCards()
	assert.Equal(t, "1,2,3", ids(Apply(cards, Criteria{Categories: []string{}})))
	assert.Equal(t, "1,3", ids(Apply(cards, Criteria{Categories: []string{"communication", "AI"}})))
	assert.Equal(t, "2", ids(Apply(cards, Criteria{TriggerTypes: []string{"Schedule"}})))
	assert.Equal(t, "3", ids(Apply(cards, Criteria{Complexities: []string{"medium"}})))
	assert.Equal(t, "2,3", ids(Apply(cards, Criteria{Tags: []string{"nightly", "ai"}})))
	assert.Equal(t, "", ids(Apply(cards, Criteria{Categories: []string{"Data"}, TriggerTypes: []string{"Webhook"}})))
}

func TestApply_NodeRangeAndActive(t *testing.T) {
	cards := sampleCards()
	assert.Equal(t, "2,3", ids(Apply(cards, Criteria{MinNodes: 8})))
	assert.Equal(t, "1,3", ids(Apply(cards, Criteria{MaxNodes: 8})))
	assert.Equal(t, "1,2,3", ids(Apply(cards, Criteria{MaxNodes: 0})))
	assert.Equal(t, "3", ids(Apply(cards, Criteria{MinNodes: 4, MaxNodes: 10})))
	assert.Equal(t, "2", ids(Apply(cards, Criteria{ActiveOnly: true})))
}

func TestApply_SortKeys(t *testing.T) {
	cards := sampleCards()
	cases := []struct {
		key  SortKey
		desc bool
		want string
	}{
		{SortName, false, "1,2,3"},
		{SortName, true, "3,2,1"},
		{SortDate, false, "2,3,1"},
		{SortDate, true, "1,3,2"},
		{SortPopularity, true, "2,3,1"},
		{SortComplexity, false, "1,3,2"},
		{SortComplexity, true, "2,3,1"},
		{SortRating, false, "1,2,3"},
		{SortRating, true, "3,2,1"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ids(Apply(cards, Criteria{SortBy: tc.key, Descending: tc.desc})), "%s desc=%v", tc.key, tc.desc)
	}
	// Input order is untouched.
	assert.Equal(t, "1,2,3", ids(cards))
}

func TestSort_TiesFallBackToName(t *testing.T) {
	cards := []Card{{ID: "b", Name: "b", Rating: 1}, {ID: "a", Name: "A", Rating: 1}}
	Sort(cards, SortRating, true)
	assert.Equal(t, "a,b", ids(cards))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortDate, ParseSortKey("Date"))
	assert.Equal(t, "2,3,1", ids(Apply(sampleCards(), Criteria{SortBy: ParseSortKey("date")})))
	assert.Equal(t, SortName, ParseSortKey(""))
	assert.Equal(t, SortName, ParseSortKey("bogus"))
}

func TestFacetsOf(t *testing.T) {
	f := FacetsOf(sampleCards())
	require.Equal(t, []string{"AI", "Communication", "Data"}, f.Categories)
	assert.Equal(t, []string{"low", "medium", "high"}, f.Complexities)
	assert.Equal(t, []string{"Nightly", "ai", "database", "slack"}, f.Tags)
	assert.Equal(t, []string{TriggerManual, TriggerSchedule, TriggerWebhook}, f.TriggerTypes)
	assert.Equal(t, 20, f.MaxNodes)
}
