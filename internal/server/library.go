// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package server

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/altafpasha/n8n-dashboard/internal/auth"
	"github.com/altafpasha/n8n-dashboard/internal/blob"
	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/workflow"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listLibrary(c *fiber.Ctx) error {
	entries, err := s.svc.Library.List(c.UserContext(), auth.UserID(c))
	if err != nil {
		logging.Errorf("list library: %v", err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("library.list_failed"))
	}
	if entries == nil {
		entries = []model.LibraryEntry{}
	}
	return c.JSON(fiber.Map{"workflows": entries})
}

func (s *Server) uploadLibrary(c *fiber.Ctx) error {
	up := core.Upload{
		DisplayName: c.FormValue("displayName"),
		Description: c.FormValue("description"),
	}
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			logging.Errorf("open upload: %v", err)
			return fail(c, fiber.StatusInternalServerError, i18n.T("library.upload_failed"))
		}
		up.Data, err = io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			logging.Errorf("read upload: %v", err)
			return fail(c, fiber.StatusInternalServerError, i18n.T("library.upload_failed"))
		}
		up.FileName = fh.Filename
	}

	entry, err := s.svc.Library.Upload(c.UserContext(), auth.UserID(c), up)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrMissingField):
			return fail(c, fiber.StatusBadRequest, i18n.T("library.required"))
		case errors.Is(err, core.ErrNotJSONFile):
			return fail(c, fiber.StatusBadRequest, i18n.T("library.json_only"))
		case errors.Is(err, workflow.ErrInvalid):
			return fail(c, fiber.StatusBadRequest, i18n.T("library.invalid_workflow"))
		}
		logging.Errorf("upload: %v", err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("library.upload_failed"))
	}
	return c.JSON(fiber.Map{"success": true, "workflow": entry})
}

func (s *Server) previewLibrary(c *fiber.Ctx) error {
	_, data, err := s.svc.Library.Get(c.UserContext(), auth.UserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, blob.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, i18n.T("library.not_found"))
		}
		logging.Errorf("library preview: %v", err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("library.preview_failed"))
	}
	if !json.Valid(data) {
		logging.Errorf("library preview %s: stored file is not JSON", c.Params("id"))
		return fail(c, fiber.StatusInternalServerError, i18n.T("library.preview_failed"))
	}
	return c.JSON(fiber.Map{"workflow": json.RawMessage(data)})
}

func (s *Server) deleteLibrary(c *fiber.Ctx) error {
	if err := s.svc.Library.Delete(c.UserContext(), auth.UserID(c), c.Params("id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, i18n.T("library.not_found"))
		}
		logging.Errorf("library delete: %v", err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("library.delete_failed"))
	}
	return c.JSON(fiber.Map{"success": true})
}

type favoriteBody struct {
	WorkflowID string `json:"workflowId"`
	IsFavorite bool   `json:"isFavorite"`
}

func (s *Server) listFavorites(c *fiber.Ctx) error {
	ids, err := s.svc.Favorites.List(c.UserContext(), auth.UserID(c))
	if err != nil {
		logging.Errorf("list favorites: %v", err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("favorite.list_failed"))
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(fiber.Map{"favorites": ids})
}

func (s *Server) setFavorite(c *fiber.Ctx) error {
	var body favoriteBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, i18n.T("api.invalid_body"))
	}
	if err := s.svc.Favorites.Set(c.UserContext(), auth.UserID(c), body.WorkflowID, body.IsFavorite); err != nil {
		if errors.Is(err, core.ErrMissingField) {
			return fail(c, fiber.StatusBadRequest, i18n.T("favorite.required"))
		}
		logging.Errorf("set favorite: %v", err)
		return fail(c, fiber.StatusInternalServerError, i18n.T("favorite.failed"))
	}
	return c.JSON(fiber.Map{"success": true})
}
