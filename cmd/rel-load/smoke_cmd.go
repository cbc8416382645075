package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSmokeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Check /health, log in and read the relationship tree once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), root.Timeout)
			defer cancel()

			c, err := root.login(ctx)
			if err != nil {
				return err
			}
			tree, err := c.GetTree(ctx)
			if err != nil {
				return fmt.Errorf("tree smoke failed: %w", err)
			}
			_, err = fmt.Fprintf(root.out, "ok: %d clients in tree\n", len(tree))
			return err
		},
	}
}
