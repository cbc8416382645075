package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// render writes v as JSON or YAML, or calls text for the human format.
func render(o *rootOptions, v any, text func(w io.Writer) error) error {
	switch o.Output {
	case outputJSON:
		enc := json.NewEncoder(o.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		// Round-trip through JSON so YAML keys follow the wire names.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(o.out)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(doc)
	default:
		return text(o.out)
	}
}

func printTree(w io.Writer, tree []relclient.ClientNode) error {
	if len(tree) == 0 {
		_, err := fmt.Fprintln(w, "no clients")
		return err
	}
	var b strings.Builder
	for _, c := range tree {
		fmt.Fprintf(&b, "%s <%s> [%s]\n", c.Name, c.Email, c.ID)
		if len(c.Managers) == 0 {
			b.WriteString("  (no manager)\n")
		}
		for _, m := range c.Managers {
			fmt.Fprintf(&b, "  %s <%s> [%s]\n", m.Name, m.Email, m.ID)
			for _, e := range m.Employees {
				fmt.Fprintf(&b, "    %s <%s> [%s]\n", e.Name, e.Email, e.ID)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func printScopedTree(w io.Writer, tree []relclient.ScopedClientNode) error {
	if len(tree) == 0 {
		_, err := fmt.Fprintln(w, "no clients")
		return err
	}
	var b strings.Builder
	for _, c := range tree {
		fmt.Fprintf(&b, "%s <%s> [%s]\n", c.Name, c.Email, c.ID)
		for _, e := range c.Employees {
			fmt.Fprintf(&b, "  %s <%s> [%s]\n", e.Name, e.Email, e.ID)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func printEntries(w io.Writer, entries []relclient.DirectoryEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Name, e.Email)
	}
	return tw.Flush()
}
