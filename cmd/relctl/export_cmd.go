package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

const exportSheet = "Relationships"

var exportHeader = []any{
	"Client ID", "Client", "Client Email",
	"Manager ID", "Manager", "Manager Email",
	"Employee ID", "Employee", "Employee Email",
}

// exportRows flattens the tree to one row per employee; clients without a manager and
// managers without employees still get a row.
func exportRows(tree []relclient.ClientNode) [][]any {
	rows := make([][]any, 0, len(tree))
	for _, c := range tree {
		client := []any{c.ID.String(), c.Name, c.Email}
		if len(c.Managers) == 0 {
			rows = append(rows, append(client, "", "", "", "", "", ""))
			continue
		}
		for _, m := range c.Managers {
			manager := append(append([]any{}, client...), m.ID.String(), m.Name, m.Email)
			if len(m.Employees) == 0 {
				rows = append(rows, append(manager, "", "", ""))
				continue
			}
			for _, e := range m.Employees {
				row := append(append([]any{}, manager...), e.ID.String(), e.Name, e.Email)
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func writeWorkbook(path string, tree []relclient.ClientNode) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, row := range exportRows(tree) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export --file tree.xlsx",
		Short: "Export the full tree to a spreadsheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return serrors.Invalid("CLI_EXPORT", "--file is required")
			}
			client, _, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			tree, err := client.GetTree(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeWorkbook(file, tree); err != nil {
				return err
			}
			_, err = fmt.Fprintf(opts.out, "exported %d clients to %s\n", len(tree), file)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "destination .xlsx path")
	return cmd
}
