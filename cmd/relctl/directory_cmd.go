package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
)

type listFunc func(*relclient.Client, context.Context, string) ([]relclient.DirectoryEntry, error)

func newDirectoryCmd(opts *rootOptions, use, short string, list listFunc) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := list(client, cmd.Context(), query)
			if err != nil {
				return err
			}
			return render(opts, entries, func(w io.Writer) error { return printEntries(w, entries) })
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "fuzzy filter on name or email")
	return cmd
}

func newAvailableEmployeesCmd(opts *rootOptions) *cobra.Command {
	var flags edgeFlags
	cmd := &cobra.Command{
		Use:   "available-employees",
		Short: "List employees not yet under a client's manager",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, managerID, _, err := flags.ids(false, false)
			if err != nil {
				return err
			}
			client, _, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := client.AvailableEmployees(cmd.Context(), clientID, managerID)
			if err != nil {
				return err
			}
			return render(opts, entries, func(w io.Writer) error { return printEntries(w, entries) })
		},
	}
	flags.bind(cmd, false)
	return cmd
}
