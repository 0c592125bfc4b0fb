// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package server

import (
	"errors"

	"github.com/altafpasha/n8n-dashboard/internal/engine"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
)

// engineMessage renders a remote-engine failure for the user. Errors that
// are not engine errors get the fallback message.
func engineMessage(err error, fallback string) string {
	var se *engine.StatusError
	switch {
	case errors.Is(err, engine.ErrNotConfigured):
		return i18n.T("engine.not_configured")
	case errors.Is(err, engine.ErrInvalidToken):
		return i18n.T("engine.invalid_token")
	case errors.Is(err, engine.ErrEndpointNotFound):
		return i18n.T("engine.endpoint_not_found")
	case errors.As(err, &se):
		return i18n.T("engine.api_error", se.Status)
	case engine.IsConnectivity(err):
		return i18n.T("engine.unreachable")
	}
	return i18n.T(fallback)
}
