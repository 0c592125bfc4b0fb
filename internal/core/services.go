// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"github.com/altafpasha/n8n-dashboard/internal/blob"
	"github.com/altafpasha/n8n-dashboard/internal/config"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/view"
)

// Deps are the collaborators wired at startup.
type Deps struct {
	Store      db.Store
	Blobs      blob.Store
	Templates  TemplateSource
	Engine     config.EngineConfig
	NewEngine  EngineFactory
	Classifier view.Classifier
	Clock      Clock
}

// Services bundles every service. They are read-only after construction
// and safe for concurrent use.
type Services struct {
	Settings  *SettingsService
	Dashboard *DashboardService
	Library   *LibraryService
	Installer *Installer
	Favorites *FavoriteService
	Catalog   *CatalogService
}

// InitializeServices wires the services from d.
func InitializeServices(d Deps) *Services {
	settings := NewSettingsService(d.Store, d.Engine, d.NewEngine)
	library := NewLibraryService(d.Store, d.Blobs, d.Clock)
	return &Services{
		Settings:  settings,
		Dashboard: NewDashboardService(settings),
		Library:   library,
		Installer: NewInstaller(settings, library, d.Templates),
		Favorites: NewFavoriteService(d.Store),
		Catalog:   NewCatalogService(d.Templates, d.Classifier),
	}
}
