// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/auth"
	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/spf13/cobra"
)

func newSessionManager() (*auth.Manager, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return auth.NewManager(store, appConfig.Security.SessionTTL, core.SystemClock{}), nil
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create and revoke API sessions",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a session and print its token",
		Long: `Creates a session for --user and prints the bearer token. The token is
shown only once; the database keeps its SHA-256.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if user == "" {
				return errors.New(i18n.T("cli.user_required"))
			}
			m, err := newSessionManager()
			if err != nil {
				return err
			}
			tok, sess, err := m.Create(cmd.Context(), user, ttl)
			if errors.Is(err, auth.ErrInvalidUserID) {
				return errors.New(i18n.T("cli.user_invalid", user))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("cli.session_created", user, sess.ExpiresAt.Format(time.RFC3339)))
			return nil
		},
	}
	create.Flags().String("user", "", "User id the session belongs to")
	create.Flags().Duration("ttl", 0, "Session lifetime (default security.session_ttl)")

	revoke := &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newSessionManager()
			if err != nil {
				return err
			}
			if err := m.Revoke(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.session_revoked"))
			return nil
		},
	}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newSessionManager()
			if err != nil {
				return err
			}
			n, err := m.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.session_pruned", n))
			return nil
		},
	}

	cmd.AddCommand(create, revoke, prune)
	return cmd
}
