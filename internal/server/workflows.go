// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/auth"
	"github.com/altafpasha/n8n-dashboard/internal/blob"
	"github.com/altafpasha/n8n-dashboard/internal/catalog"
	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/engine"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/altafpasha/n8n-dashboard/internal/view"
	"github.com/altafpasha/n8n-dashboard/internal/workflow"
	"github.com/gofiber/fiber/v2"
)

func catalogFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, catalog.ErrNotConfigured) {
		return fail(c, fiber.StatusInternalServerError, i18n.T("catalog.not_configured"))
	}
	logging.Errorf("catalog: %v", err)
	return fail(c, fiber.StatusInternalServerError, i18n.T("catalog.failed"))
}

func (s *Server) listTemplates(c *fiber.Ctx) error {
	if c.QueryBool("content") {
		tpls, err := s.svc.Catalog.ListWithContent(c.UserContext())
		if err != nil {
			return catalogFailure(c, err)
		}
		return c.JSON(fiber.Map{"workflows": tpls})
	}
	refs, err := s.svc.Catalog.List(c.UserContext())
	if err != nil {
		return catalogFailure(c, err)
	}
	return c.JSON(fiber.Map{"workflows": refs})
}

func (s *Server) browseTemplates(c *fiber.Ctx) error {
	cards, facets, err := s.svc.Catalog.Browse(c.UserContext(), criteriaFrom(c))
	if err != nil {
		return catalogFailure(c, err)
	}
	return c.JSON(fiber.Map{"workflows": cards, "facets": facets})
}

// criteriaFrom reads the browse filters. Multi-valued filters accept a comma
// separated list.
func criteriaFrom(c *fiber.Ctx) view.Criteria {
	crit := view.Criteria{
		Search:       c.Query("q", c.Query("search")),
		TriggerTypes: list(c.Query("trigger")),
		Categories:   list(c.Query("category")),
		Complexities: list(c.Query("complexity")),
		Tags:         list(c.Query("tag")),
		ActiveOnly:   c.QueryBool("active"),
		SortBy:       view.ParseSortKey(c.Query("sort")),
		Descending:   strings.EqualFold(c.Query("order"), "desc"),
	}
	if n, err := strconv.Atoi(c.Query("min_nodes")); err == nil {
		crit.MinNodes = n
	}
	if n, err := strconv.Atoi(c.Query("max_nodes")); err == nil {
		crit.MaxNodes = n
	}
	return crit
}

func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) previewTemplate(c *fiber.Ctx) error {
	wf, err := s.svc.Catalog.Preview(c.UserContext(), c.Query("url"))
	if err != nil {
		if errors.Is(err, core.ErrMissingField) {
			return fail(c, fiber.StatusBadRequest, i18n.T("preview.url_required"))
		}
		logging.Warnf("preview %s: %v", c.Query("url"), err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("preview.failed"))
	}
	return c.JSON(fiber.Map{"workflow": wf})
}

func (s *Server) install(c *fiber.Ctx) error {
	var req core.InstallRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, i18n.T("api.invalid_body"))
	}
	uid := auth.UserID(c)
	res, err := s.svc.Installer.Install(c.UserContext(), uid, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrMissingField):
			return fail(c, fiber.StatusBadRequest, i18n.T("install.required"))
		case errors.Is(err, engine.ErrNotConfigured):
			return fail(c, fiber.StatusBadRequest, i18n.T("engine.install_not_configured"))
		case errors.Is(err, workflow.ErrInvalid):
			return fail(c, fiber.StatusBadRequest, i18n.T("install.invalid_workflow"))
		case errors.Is(err, db.ErrNotFound), errors.Is(err, blob.ErrNotFound):
			return fail(c, fiber.StatusNotFound, i18n.T("library.not_found"))
		}
		logging.Errorf("install for %s: %v", uid, err)
		return fail(c, fiber.StatusInternalServerError, engineMessage(err, "install.failed"))
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"workflowId": res.WorkflowID,
		"message":    i18n.T("install.success"),
	})
}

func (s *Server) installed(c *fiber.Ctx) error {
	wfs, err := s.svc.Dashboard.Installed(c.UserContext(), auth.UserID(c))
	if err != nil {
		if errors.Is(err, engine.ErrNotConfigured) {
			return fail(c, fiber.StatusBadRequest, i18n.T("engine.not_configured"))
		}
		logging.Errorf("installed workflows: %v", err)
		return fail(c, fiber.StatusInternalServerError, engineMessage(err, "engine.installed_failed"))
	}
	return c.JSON(fiber.Map{"success": true, "installedWorkflows": wfs})
}
