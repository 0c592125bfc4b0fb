// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/spf13/cobra"
)

// runMaintenance is swapped out by tests.
var runMaintenance = db.RunDBMaintenance

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database administration",
	}

	maintain := &cobra.Command{
		Use:   "maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Long:  `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, _ := cmd.Flags().GetDuration("timeout")
			dbType, dsn := appConfig.Database.Type, appConfig.Database.Dsn

			done := make(chan error, 1)
			go func() { done <- runMaintenance(dbType, dsn) }()

			var expired <-chan time.Time
			if timeout > 0 {
				t := time.NewTimer(timeout)
				defer t.Stop()
				expired = t.C
			}
			select {
			case err := <-done:
				if err != nil {
					return fmt.Errorf("%s", i18n.T("cli.maintain_failed", err))
				}
			case <-expired:
				return errors.New(i18n.T("cli.maintain_timeout"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.maintain_ok"))
			return nil
		},
	}
	maintain.Flags().Duration("timeout", 0, "Give up after this long (0 means no timeout)")

	cmd.AddCommand(maintain)
	return cmd
}
