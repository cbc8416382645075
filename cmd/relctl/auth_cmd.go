package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

const passwordEnv = "RELCTL_PASSWORD"

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login --email <email>",
		Short: "Log in and keep the session for later commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return serrors.Invalid("CLI_LOGIN", "--email and --password (or "+passwordEnv+") are required")
			}
			baseURL := opts.BaseURL
			if baseURL == "" {
				baseURL = "http://localhost:3200"
			}
			client := relclient.New(baseURL, opts.clientOptions()...)
			sess, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			store, err := opts.sessionStore()
			if err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), sess); err != nil {
				return err
			}
			return render(opts, map[string]any{"email": sess.Email, "role": sess.Role, "expires_at": sess.ExpiresAt}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "logged in as %s (%s)\n", sess.Email, sess.Role)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prefer "+passwordEnv+")")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			logoutErr := client.Logout(cmd.Context())
			store, err := opts.sessionStore()
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			if logoutErr != nil && !errors.Is(logoutErr, serrors.ErrAuth) {
				return logoutErr
			}
			_, err = fmt.Fprintln(opts.out, "logged out")
			return err
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			me, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			return render(opts, me, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s <%s> role=%s id=%s\n", me.Name, me.Email, me.Role, me.ID)
				return err
			})
		},
	}
}
