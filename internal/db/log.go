// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/altafpasha/n8n-dashboard/internal/logging"

func dbLogf(format string, v ...any) {
	logging.Debugf(format, v...)
}
