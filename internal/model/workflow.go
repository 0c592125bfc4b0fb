// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// WorkflowID is an n8n workflow identifier. Older n8n releases use numeric
// ids, newer ones strings; both decode into the same value.
type WorkflowID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *WorkflowID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = WorkflowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = WorkflowID(n.String())
	return nil
}

// Workflow is an n8n workflow document as exported by n8n or returned by its
// REST API. Nodes, connections and tags are kept raw so that forwarding a
// workflow never drops fields this package does not model.
type Workflow struct {
	ID          WorkflowID        `json:"id,omitempty"`
	Name        string            `json:"name"`
	Nodes       []json.RawMessage `json:"nodes"`
	Connections json.RawMessage   `json:"connections,omitempty"`
	Active      bool              `json:"active"`
	Settings    map[string]any    `json:"settings,omitempty"`
	StaticData  json.RawMessage   `json:"staticData,omitempty"`
	Tags        []json.RawMessage `json:"tags,omitempty"`
	Meta        map[string]any    `json:"meta,omitempty"`
	PinData     json.RawMessage   `json:"pinData,omitempty"`
	VersionID   string            `json:"versionId,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

type nodeHeader struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NodeTypes returns the "type" field of every node that has one.
func (w Workflow) NodeTypes() []string {
	out := make([]string, 0, len(w.Nodes))
	for _, raw := range w.Nodes {
		var h nodeHeader
		if err := json.Unmarshal(raw, &h); err != nil || h.Type == "" {
			continue
		}
		out = append(out, h.Type)
	}
	return out
}

// TagNames returns tag names. n8n exports tags as {id,name} objects; plain
// strings are accepted as well.
func (w Workflow) TagNames() []string {
	out := make([]string, 0, len(w.Tags))
	for _, raw := range w.Tags {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var t struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &t); err == nil && t.Name != "" {
			out = append(out, t.Name)
		}
	}
	return out
}

// Timezone returns settings.timezone when it is a non-empty string.
func (w Workflow) Timezone() (string, bool) {
	tz, ok := w.Settings["timezone"].(string)
	if !ok || tz == "" {
		return "", false
	}
	return tz, true
}

// TemplateRef is one entry of the template repository listing.
type TemplateRef struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// Template is a TemplateRef plus its body. Content is null when the body
// could not be fetched.
type Template struct {
	TemplateRef
	Content json.RawMessage `json:"content"`
}
