// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package server exposes the dashboard services over HTTP.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/auth"
	"github.com/altafpasha/n8n-dashboard/internal/config"
	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Server is the fiber application plus the services it dispatches to.
type Server struct {
	app  *fiber.App
	svc  *core.Services
	auth *auth.Manager
	addr string
}

// New builds the application and registers every route.
func New(svc *core.Services, m *auth.Manager, cfg config.ServerConfig) *Server {
	s := &Server{svc: svc, auth: m, addr: cfg.Addr}
	s.app = fiber.New(fiber.Config{
		AppName:               "n8n-dashboard",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(requestLogger)
	s.app.Use(recover.New())
	s.routes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Run listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listen(s.addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Infof("shutting down")
		return s.app.ShutdownWithTimeout(10 * time.Second)
	}
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	api := s.app.Group("/api")
	authed := auth.Require(s.auth, unauthorized)
	statusAuthed := auth.Require(s.auth, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"isConnected": false,
			"error":       i18n.T("api.unauthorized"),
		})
	})

	api.Get("/settings", authed, s.getSettings)
	api.Post("/settings", authed, s.saveSettings)
	api.Post("/settings/test", authed, s.testSettings)
	api.Get("/n8n-status", statusAuthed, s.engineStatus)
	api.Get("/n8n-stats", authed, s.engineStats)

	wf := api.Group("/workflows")
	wf.Get("/github", s.listTemplates)
	wf.Get("/browse", s.browseTemplates)
	wf.Get("/preview", s.previewTemplate)
	wf.Post("/install", authed, s.install)
	wf.Get("/installed", authed, s.installed)

	wf.Get("/user", authed, s.listLibrary)
	wf.Post("/user/upload", authed, s.uploadLibrary)
	wf.Get("/user/preview/:id", authed, s.previewLibrary)
	wf.Delete("/user/:id", authed, s.deleteLibrary)

	wf.Get("/favorite", authed, s.listFavorites)
	wf.Post("/favorite", authed, s.setFavorite)
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	logging.Infof("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start).Round(time.Microsecond))
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	} else {
		logging.Errorf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	msg := err.Error()
	if code == fiber.StatusInternalServerError && fe == nil {
		msg = fiber.ErrInternalServerError.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func unauthorized(c *fiber.Ctx) error {
	return fail(c, fiber.StatusUnauthorized, i18n.T("api.unauthorized"))
}

func fail(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
