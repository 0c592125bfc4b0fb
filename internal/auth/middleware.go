// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package auth

import (
	"errors"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/gofiber/fiber/v2"
)

const (
	// CookieName carries the session token for browser clients.
	CookieName = "n8n_dashboard_session"
	userKey    = "auth.user"
)

// TokenFrom extracts a bearer token or the session cookie.
func TokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	return c.Cookies(CookieName)
}

// Require resolves the session and stores the user id for UserID. Requests
// without a valid session are answered by unauthorized.
func Require(m *Manager, unauthorized fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := m.Resolve(c.UserContext(), TokenFrom(c))
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				logging.Errorf("auth: %v", err)
			}
			return unauthorized(c)
		}
		c.Locals(userKey, uid)
		return c.Next()
	}
}

// UserID returns the id stored by Require, or "".
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(userKey).(string)
	return uid
}
