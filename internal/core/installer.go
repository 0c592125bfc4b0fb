// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/engine"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/workflow"
)

// InstallRequest names the workflow to install. The body is taken from
// Workflow, else from the library entry LibraryID, else downloaded from
// WorkflowURL.
type InstallRequest struct {
	Workflow    json.RawMessage `json:"workflow,omitempty"`
	LibraryID   string          `json:"libraryId,omitempty"`
	WorkflowURL string          `json:"workflowUrl,omitempty"`
	Name        string          `json:"name"`
}

func (r InstallRequest) hasWorkflow() bool {
	s := strings.TrimSpace(string(r.Workflow))
	return s != "" && s != "null"
}

// InstallResult describes a created remote workflow.
type InstallResult struct {
	WorkflowID   string
	TagsAttached bool
}

// Installer copies workflows into the user's n8n instance.
type Installer struct {
	settings  *SettingsService
	library   *LibraryService
	templates TemplateSource
}

func NewInstaller(s *SettingsService, l *LibraryService, t TemplateSource) *Installer {
	return &Installer{settings: s, library: l, templates: t}
}

// Install creates the workflow inactive. Tags, when present, are attached
// with a second best-effort update whose failure is only logged.
func (i *Installer) Install(ctx context.Context, userID string, req InstallRequest) (InstallResult, error) {
	var out InstallResult
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || (!req.hasWorkflow() && req.LibraryID == "" && req.WorkflowURL == "") {
		return out, missing("name", "workflow|libraryId|workflowUrl")
	}

	client, err := i.settings.Engine(ctx, userID)
	if err != nil {
		return out, err
	}

	body, err := i.source(ctx, userID, req)
	if err != nil {
		return out, err
	}
	wf, err := workflow.Parse(body)
	if err != nil {
		return out, err
	}

	p := BuildCreatePayload(*wf, req.Name)
	id, err := client.Create(ctx, p)
	if err != nil {
		return out, err
	}
	out.WorkflowID = id
	logging.Infof("install: user %s created workflow %s (%q)", userID, id, p.Name)

	if len(wf.Tags) > 0 && id != "" {
		err := client.Update(ctx, id, engine.UpdatePayload{
			Name:        p.Name,
			Nodes:       p.Nodes,
			Connections: p.Connections,
			Settings:    p.Settings,
			Tags:        wf.Tags,
		})
		if err != nil {
			logging.Warnf("install: attach tags to workflow %s: %v", id, err)
		} else {
			out.TagsAttached = true
		}
	}
	return out, nil
}

func (i *Installer) source(ctx context.Context, userID string, req InstallRequest) ([]byte, error) {
	switch {
	case req.hasWorkflow():
		return req.Workflow, nil
	case req.LibraryID != "":
		_, data, err := i.library.Get(ctx, userID, req.LibraryID)
		return data, err
	default:
		data, err := i.templates.FetchWorkflow(ctx, req.WorkflowURL)
		if err != nil {
			return nil, fmt.Errorf("fetch workflow: %w", err)
		}
		return data, nil
	}
}

// BuildCreatePayload keeps only what n8n accepts on create: the name (the
// document's own, else fallback), nodes, connections, the timezone setting
// and active=false.
func BuildCreatePayload(w model.Workflow, fallbackName string) engine.CreatePayload {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		name = fallbackName
	}
	settings := map[string]any{}
	if tz, ok := w.Timezone(); ok {
		settings["timezone"] = tz
	}
	nodes := w.Nodes
	if nodes == nil {
		nodes = []json.RawMessage{}
	}
	conns := w.Connections
	if len(conns) == 0 {
		conns = json.RawMessage(`{}`)
	}
	return engine.CreatePayload{
		Name:        name,
		Nodes:       nodes,
		Connections: conns,
		Settings:    settings,
		Active:      false,
	}
}
