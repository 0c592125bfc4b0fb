// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/auth"
	"github.com/altafpasha/n8n-dashboard/internal/blob"
	"github.com/altafpasha/n8n-dashboard/internal/catalog"
	"github.com/altafpasha/n8n-dashboard/internal/config"
	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/altafpasha/n8n-dashboard/internal/server"
	"github.com/altafpasha/n8n-dashboard/internal/view"
	"github.com/spf13/cobra"
)

// sessionReapInterval is how often serve deletes expired sessions.
const sessionReapInterval = time.Hour

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, m, err := buildServer(ctx, appConfig)
			if err != nil {
				return err
			}
			go reapSessions(ctx, m, sessionReapInterval)

			logging.Infof("%s", i18n.T("cli.serve_listening", appConfig.Server.Addr))
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("addr", ":3000", "Listen address")
	return cmd
}

// buildServer wires storage, the template source and the services from cfg.
func buildServer(ctx context.Context, cfg config.Config) (*server.Server, *auth.Manager, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	blobs, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	svc := core.InitializeServices(core.Deps{
		Store:      store,
		Blobs:      blobs,
		Templates:  newTemplateSource(cfg.Catalog),
		Engine:     cfg.Engine,
		NewEngine:  core.DefaultEngineFactory(),
		Classifier: view.HeuristicClassifier{},
		Clock:      core.SystemClock{},
	})
	m := auth.NewManager(store, cfg.Security.SessionTTL, core.SystemClock{})
	return server.New(svc, m, cfg.Server), m, nil
}

func newTemplateSource(cfg config.CatalogConfig) *catalog.Fetcher {
	var opts []catalog.Option
	if cfg.Timeout > 0 {
		opts = append(opts, catalog.WithTimeout(cfg.Timeout))
	}
	return catalog.New(cfg.RepoURL, cfg.Token, opts...)
}

func reapSessions(ctx context.Context, m *auth.Manager, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := m.Prune(ctx)
			if err != nil {
				logging.Warnf("session reaper: %v", err)
				continue
			}
			if n > 0 {
				logging.Debugf("session reaper removed %d sessions", n)
			}
		}
	}
}
