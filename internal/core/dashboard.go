// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/engine"
	"github.com/altafpasha/n8n-dashboard/internal/model"
)

// DashboardData holds the aggregated counts shown on the dashboard header.
type DashboardData struct {
	TotalWorkflows  int
	ActiveWorkflows int
}

// DashboardService answers the connectivity and statistics widgets.
type DashboardService struct {
	settings      *SettingsService
	statusTimeout time.Duration
	statsTimeout  time.Duration
}

// NewDashboardService uses the standard 5s probe and 10s stats timeouts.
func NewDashboardService(s *SettingsService) *DashboardService {
	return &DashboardService{settings: s, statusTimeout: engine.StatusTimeout, statsTimeout: engine.DefaultTimeout}
}

// Status probes the user's instance. A nil error means connected.
func (d *DashboardService) Status(ctx context.Context, userID string) error {
	c, err := d.settings.Engine(ctx, userID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d.statusTimeout)
	defer cancel()
	_, err = c.List(ctx)
	return err
}

// BuildDashboardData counts all and active workflows of the user's instance.
func (d *DashboardService) BuildDashboardData(ctx context.Context, userID string) (DashboardData, error) {
	var out DashboardData
	c, err := d.settings.Engine(ctx, userID)
	if err != nil {
		return out, err
	}
	ctx, cancel := context.WithTimeout(ctx, d.statsTimeout)
	defer cancel()
	wfs, err := c.List(ctx)
	if err != nil {
		return out, err
	}
	out.TotalWorkflows = len(wfs)
	for _, w := range wfs {
		if w.Active {
			out.ActiveWorkflows++
		}
	}
	return out, nil
}

// Installed lists the workflows of the user's instance.
func (d *DashboardService) Installed(ctx context.Context, userID string) ([]model.Workflow, error) {
	c, err := d.settings.Engine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.List(ctx)
}
