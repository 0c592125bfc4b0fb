// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package server

import (
	"errors"

	"github.com/altafpasha/n8n-dashboard/internal/auth"
	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/engine"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/gofiber/fiber/v2"
)

type settingsBody struct {
	Host  string `json:"n8n_host"`
	Token string `json:"n8n_api_token"`
}

// settingsView reveals the token. Only its owner reaches these routes.
func settingsView(s model.Settings) settingsBody {
	return settingsBody{Host: s.HostURL, Token: s.APIToken.Reveal()}
}

func (s *Server) getSettings(c *fiber.Ctx) error {
	st, err := s.svc.Settings.Get(c.UserContext(), auth.UserID(c))
	if err != nil {
		logging.Errorf("get settings: %v", err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("settings.fetch_failed"))
	}
	return c.JSON(fiber.Map{"settings": settingsView(st)})
}

func (s *Server) saveSettings(c *fiber.Ctx) error {
	var body settingsBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, i18n.T("api.invalid_body"))
	}
	st, err := s.svc.Settings.Save(c.UserContext(), auth.UserID(c), body.Host, body.Token)
	if err != nil {
		if errors.Is(err, core.ErrMissingField) {
			return fail(c, fiber.StatusBadRequest, i18n.T("settings.required"))
		}
		logging.Errorf("save settings: %v", err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("settings.save_failed"))
	}
	return c.JSON(fiber.Map{"success": true, "settings": settingsView(st)})
}

func (s *Server) testSettings(c *fiber.Ctx) error {
	var body settingsBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, i18n.T("api.invalid_body"))
	}
	n, err := s.svc.Settings.Test(c.UserContext(), body.Host, body.Token)
	if err != nil {
		if errors.Is(err, core.ErrMissingField) {
			return fail(c, fiber.StatusBadRequest, i18n.T("settings.required"))
		}
		logging.Warnf("settings test for %s: %v", auth.UserID(c), err)
		return fail(c, fiber.StatusBadRequest, engineMessage(err, "settings.test_failed"))
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"message":       i18n.T("engine.connection_ok"),
		"workflowCount": n,
	})
}

func (s *Server) engineStatus(c *fiber.Ctx) error {
	err := s.svc.Dashboard.Status(c.UserContext(), auth.UserID(c))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"isConnected": true, "message": i18n.T("engine.connection_ok")})
	case errors.Is(err, engine.ErrNotConfigured):
		return c.JSON(fiber.Map{"isConnected": false, "message": i18n.T("engine.settings_missing")})
	default:
		logging.Warnf("n8n status for %s: %v", auth.UserID(c), err)
		return c.JSON(fiber.Map{"isConnected": false, "message": engineMessage(err, "engine.status_failed")})
	}
}

func (s *Server) engineStats(c *fiber.Ctx) error {
	data, err := s.svc.Dashboard.BuildDashboardData(c.UserContext(), auth.UserID(c))
	msg := i18n.T("engine.stats_ok")
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrNotConfigured):
		msg = i18n.T("engine.settings_missing")
	default:
		logging.Warnf("n8n stats for %s: %v", auth.UserID(c), err)
		msg = engineMessage(err, "engine.stats_failed")
	}
	return c.JSON(fiber.Map{
		"totalWorkflows":  data.TotalWorkflows,
		"activeWorkflows": data.ActiveWorkflows,
		"message":         msg,
	})
}
