// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/i18n"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSettingsService() (*core.SettingsService, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return core.NewSettingsService(store, appConfig.Engine, nil), nil
}

// maskToken keeps the last four characters.
func maskToken(tok string) string {
	if tok == "" {
		return ""
	}
	if len(tok) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + tok[len(tok)-4:]
}

// readToken prompts without echo on a terminal and reads one line otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), i18n.T("cli.token_prompt"))
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change a user's n8n connection",
	}
	cmd.PersistentFlags().String("user", "", "User id")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the saved n8n host and a masked token",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			if user == "" {
				return errors.New(i18n.T("cli.user_required"))
			}
			svc, err := newSettingsService()
			if err != nil {
				return err
			}
			st, err := svc.Get(cmd.Context(), user)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if st.HostURL == "" && len(st.APIToken) == 0 {
				fmt.Fprintln(out, i18n.T("cli.settings_none", user))
				return nil
			}
			fmt.Fprintf(out, "n8n_host: %s\n", st.HostURL)
			fmt.Fprintf(out, "n8n_api_token: %s\n", maskToken(st.APIToken.Reveal()))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Save the n8n host and API token",
		Long: `Saves --host and --token for --user. Without --token the token is read
from the terminal without echo, or from the first line of stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			host, _ := cmd.Flags().GetString("host")
			token, _ := cmd.Flags().GetString("token")
			if user == "" {
				return errors.New(i18n.T("cli.user_required"))
			}
			if token == "" {
				var err error
				if token, err = readToken(cmd); err != nil {
					return err
				}
			}
			svc, err := newSettingsService()
			if err != nil {
				return err
			}
			if _, err := svc.Save(cmd.Context(), user, host, token); err != nil {
				if errors.Is(err, core.ErrMissingField) {
					return errors.New(i18n.T("settings.required"))
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.settings_saved", user))
			return nil
		},
	}
	set.Flags().String("host", "", "n8n base URL")
	set.Flags().String("token", "", "n8n API token")

	cmd.AddCommand(show, set)
	return cmd
}
