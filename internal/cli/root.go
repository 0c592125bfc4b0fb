// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli defines the n8n-dashboard command line: the root command with
// its persistent flags and every subcommand.
package cli

import (
	"fmt"
	"os"

	"github.com/altafpasha/n8n-dashboard/internal/config"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/altafpasha/n8n-dashboard/internal/security"
	"github.com/spf13/cobra"
)

var appConfig config.Config

// Execute runs the CLI. main handles the process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree. Tests call it once per case.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "n8n-dashboard",
		Short: "Browse n8n workflow templates and install them into your n8n instance.",
		Long: `n8n-dashboard serves a small web API for browsing a GitHub hosted
collection of n8n workflow templates, keeping a personal library of
uploaded workflows and installing either into a configured n8n instance.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupDefaultServices,
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("db-type", "", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "", "Database connection string (DSN)")
	cmd.PersistentFlags().String("lang", "", `Message language ("en", "de")`)
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(),
		newConfigCmd(),
		newSessionCmd(),
		newSettingsCmd(),
		newDBCmd(),
		newCatalogCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setupDefaultServices loads the configuration and initializes logging and
// the message catalog. The database is opened lazily by openStore.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	path, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}
	appConfig, err = config.Load(cmd, path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Empty values in a config file fall back to the defaults.
	defaults := config.Defaults()
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.Log.Level == "" {
		appConfig.Log.Level = defaults["log.level"].(string)
	}

	if err := logging.Setup(cmd.ErrOrStderr(), appConfig.Log.Level, appConfig.Log.Format); err != nil {
		return err
	}
	i18n.Init(appConfig.Language)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// openStore returns the package-level store, opening it on first use, with
// the token sealer from the configuration attached.
func openStore() (db.Store, error) {
	if !db.IsInitialized() {
		if _, err := db.New(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return nil, fmt.Errorf("could not initialize database: %w", err)
		}
	}
	s := db.DefaultStore()
	s.SetSealer(security.NewSealer(appConfig.Security.TokenKey))
	return s, nil
}
