package main

import (
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

func parseID(flag, raw string, required bool) (uuid.UUID, error) {
	if raw == "" {
		if required {
			return uuid.Nil, serrors.Invalid("CLI_INVALID_ID", "--"+flag+" is required")
		}
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, serrors.Invalid("CLI_INVALID_ID", "--"+flag+" must be a UUID")
	}
	return id, nil
}

func newTreeCmd(opts *rootOptions) *cobra.Command {
	var managerID string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the relationship tree",
		Long: "Admins see every client with its manager and employees. Managers, or admins " +
			"passing --manager-id, see the client → employee view of one manager.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mid, err := parseID("manager-id", managerID, false)
			if err != nil {
				return err
			}
			client, sess, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			if sess.Role == session.RoleManager || mid != uuid.Nil {
				tree, err := client.GetScopedTree(cmd.Context(), mid)
				if err != nil {
					return err
				}
				return render(opts, tree, func(w io.Writer) error { return printScopedTree(w, tree) })
			}
			tree, err := client.GetTree(cmd.Context())
			if err != nil {
				return err
			}
			return render(opts, tree, func(w io.Writer) error { return printTree(w, tree) })
		},
	}
	cmd.Flags().StringVar(&managerID, "manager-id", "", "show one manager's view")
	return cmd
}
