// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package view

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey selects the card ordering.
type SortKey string

const (
	SortName       SortKey = "name"
	SortDate       SortKey = "date"
	SortPopularity SortKey = "popularity"
	SortComplexity SortKey = "complexity"
	SortRating     SortKey = "rating"
)

// ParseSortKey maps a query value to a SortKey, defaulting to SortName.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortDate, SortPopularity, SortComplexity, SortRating:
		return k
	}
	return SortName
}

// Criteria is the full set of browse controls. Empty multi-select slices
// mean "no filter" and MaxNodes 0 means unbounded.
type Criteria struct {
	Search       string
	TriggerTypes []string
	Categories   []string
	Complexities []string
	Tags         []string
	MinNodes     int
	MaxNodes     int
	ActiveOnly   bool
	SortBy       SortKey
	Descending   bool
}

// Apply filters cards by c and returns them sorted. The input is not
// modified.
func Apply(cards []Card, c Criteria) []Card {
	out := make([]Card, 0, len(cards))
	for _, card := range cards {
		if Matches(card, c) {
			out = append(out, card)
		}
	}
	Sort(out, c.SortBy, c.Descending)
	return out
}

// Matches reports whether card passes every filter of c.
func Matches(card Card, c Criteria) bool {
	if !matchesSearch(card, c.Search) {
		return false
	}
	if !selected(c.TriggerTypes, card.TriggerType) ||
		!selected(c.Categories, card.Category) ||
		!selected(c.Complexities, string(card.Complexity)) {
		return false
	}
	if len(c.Tags) > 0 && !slices.ContainsFunc(card.Tags, func(t string) bool { return selected(c.Tags, t) }) {
		return false
	}
	if card.NodeCount < c.MinNodes {
		return false
	}
	if c.MaxNodes > 0 && card.NodeCount > c.MaxNodes {
		return false
	}
	if c.ActiveOnly && !card.Active {
		return false
	}
	return true
}

func matchesSearch(card Card, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range []string{card.Name, card.Description, card.Category, card.TriggerType} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return slices.ContainsFunc(card.Tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), q)
	})
}

// selected is true when sel is empty or contains v, ignoring case.
func selected(sel []string, v string) bool {
	if len(sel) == 0 {
		return true
	}
	return slices.ContainsFunc(sel, func(s string) bool { return strings.EqualFold(s, v) })
}

// Sort orders cards in place by key. Dates sort newest first unless desc
// flips them. Ties fall back to the name so the order is deterministic.
func Sort(cards []Card, key SortKey, desc bool) {
	slices.SortStableFunc(cards, func(a, b Card) int {
		var r int
		switch key {
		case SortDate:
			r = b.LastUpdated.Compare(a.LastUpdated)
		case SortPopularity:
			r = cmp.Compare(a.Popularity, b.Popularity)
		case SortComplexity:
			r = cmp.Compare(a.Complexity.rank(), b.Complexity.rank())
		case SortRating:
			r = cmp.Compare(a.Rating, b.Rating)
		default:
			r = compareNames(a, b)
			if desc {
				r = -r
			}
			return r
		}
		if desc {
			r = -r
		}
		if r == 0 {
			r = compareNames(a, b)
		}
		return r
	})
}

func compareNames(a, b Card) int {
	return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// Facets lists the distinct filter values present in cards.
type Facets struct {
	TriggerTypes []string `json:"trigger_types"`
	Categories   []string `json:"categories"`
	Complexities []string `json:"complexities"`
	Tags         []string `json:"tags"`
	MaxNodes     int      `json:"max_nodes"`
}

// FacetsOf collects sorted, de-duplicated facet values.
func FacetsOf(cards []Card) Facets {
	f := Facets{}
	var trig, cat, cx, tags []string
	for _, c := range cards {
		trig = append(trig, c.TriggerType)
		cat = append(cat, c.Category)
		cx = append(cx, string(c.Complexity))
		tags = append(tags, c.Tags...)
		f.MaxNodes = max(f.MaxNodes, c.NodeCount)
	}
	f.TriggerTypes = distinct(trig)
	f.Categories = distinct(cat)
	f.Tags = distinct(tags)
	f.Complexities = distinct(cx)
	slices.SortFunc(f.Complexities, func(a, b string) int {
		return cmp.Compare(Complexity(a).rank(), Complexity(b).rank())
	})
	return f
}

func distinct(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
