package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"

	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

type mutationFunc func(ctx context.Context, c *relclient.Client) (any, error)

type mutationReport struct {
	Result  any            `json:"result,omitempty"`
	Changes jsondiff.Patch `json:"changes"`
}

type treeFollower interface {
	Refresh(ctx context.Context) (jsondiff.Patch, error)
	Mutate(ctx context.Context, fn func(context.Context, *relclient.Client) error) (jsondiff.Patch, error)
}

// runMutation applies fn through a tree view so the printed change report reflects a
// re-fetch taken after the write.
func runMutation(cmd *cobra.Command, opts *rootOptions, fn mutationFunc) error {
	ctx := cmd.Context()
	client, sess, err := opts.client(ctx)
	if err != nil {
		return err
	}
	var view treeFollower = relclient.NewTreeView(client)
	if sess.Role == session.RoleManager {
		view = relclient.NewScopedTreeView(client, uuid.Nil)
	}
	if _, err := view.Refresh(ctx); err != nil {
		return err
	}

	var result any
	patch, err := view.Mutate(ctx, func(ctx context.Context, c *relclient.Client) error {
		var err error
		result, err = fn(ctx, c)
		return err
	})
	if err != nil {
		return err
	}
	report := mutationReport{Result: result, Changes: patch}
	return render(opts, report, func(w io.Writer) error {
		if len(patch) == 0 {
			_, err := fmt.Fprintln(w, "done, no changes observed")
			return err
		}
		for _, op := range patch {
			if _, err := fmt.Fprintf(w, "%-8s %s\n", op.Type, op.Path); err != nil {
				return err
			}
		}
		return nil
	})
}

type edgeFlags struct {
	client, manager, employee string
}

func (f *edgeFlags) bind(cmd *cobra.Command, employee bool) {
	cmd.Flags().StringVar(&f.client, "client-id", "", "client UUID")
	cmd.Flags().StringVar(&f.manager, "manager-id", "", "manager UUID (implicit for managers)")
	if employee {
		cmd.Flags().StringVar(&f.employee, "employee-id", "", "employee UUID")
	}
}

func (f *edgeFlags) ids(managerRequired, employee bool) (clientID, managerID, employeeID uuid.UUID, err error) {
	if clientID, err = parseID("client-id", f.client, true); err != nil {
		return
	}
	if managerID, err = parseID("manager-id", f.manager, managerRequired); err != nil {
		return
	}
	if employee {
		employeeID, err = parseID("employee-id", f.employee, true)
	}
	return
}

func managerCmd(opts *rootOptions, use, short string, call func(*relclient.Client, context.Context, uuid.UUID, uuid.UUID) (relclient.ManagerAssignment, error)) *cobra.Command {
	var flags edgeFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, managerID, _, err := flags.ids(true, false)
			if err != nil {
				return err
			}
			return runMutation(cmd, opts, func(ctx context.Context, c *relclient.Client) (any, error) {
				return call(c, ctx, clientID, managerID)
			})
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func newAddManagerCmd(opts *rootOptions) *cobra.Command {
	return managerCmd(opts, "add-manager", "Assign a manager to a client that has none", (*relclient.Client).AddManager)
}

func newReplaceManagerCmd(opts *rootOptions) *cobra.Command {
	return managerCmd(opts, "replace-manager", "Swap a client's manager, keeping its employees", (*relclient.Client).ReplaceManager)
}

func newAssignManagerCmd(opts *rootOptions) *cobra.Command {
	return managerCmd(opts, "assign-manager", "Add or replace a client's manager", (*relclient.Client).AssignManager)
}

func newAddEmployeeCmd(opts *rootOptions) *cobra.Command {
	var flags edgeFlags
	cmd := &cobra.Command{
		Use:   "add-employee",
		Short: "Attach an employee to a client's manager",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, managerID, employeeID, err := flags.ids(false, true)
			if err != nil {
				return err
			}
			return runMutation(cmd, opts, func(ctx context.Context, c *relclient.Client) (any, error) {
				return c.AddEmployee(ctx, clientID, managerID, employeeID)
			})
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newReplaceEmployeeCmd(opts *rootOptions) *cobra.Command {
	var (
		flags    edgeFlags
		previous string
	)
	cmd := &cobra.Command{
		Use:   "replace-employee",
		Short: "Swap one employee of an edge for another",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, managerID, employeeID, err := flags.ids(false, true)
			if err != nil {
				return err
			}
			oldID, err := parseID("replace-employee-id", previous, true)
			if err != nil {
				return err
			}
			return runMutation(cmd, opts, func(ctx context.Context, c *relclient.Client) (any, error) {
				return c.ReplaceEmployee(ctx, clientID, managerID, oldID, employeeID)
			})
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().StringVar(&previous, "replace-employee-id", "", "employee UUID to replace")
	return cmd
}

func newRemoveEmployeeCmd(opts *rootOptions) *cobra.Command {
	var flags edgeFlags
	cmd := &cobra.Command{
		Use:   "remove-employee",
		Short: "Detach an employee from a client's manager",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, managerID, employeeID, err := flags.ids(false, true)
			if err != nil {
				return err
			}
			return runMutation(cmd, opts, func(ctx context.Context, c *relclient.Client) (any, error) {
				return nil, c.RemoveEmployee(ctx, clientID, managerID, employeeID)
			})
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newCreateRelationshipCmd(opts *rootOptions) *cobra.Command {
	var (
		flags     edgeFlags
		employees []string
	)
	cmd := &cobra.Command{
		Use:   "create-relationship",
		Short: "Create a client's edge with its employees in one step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, managerID, _, err := flags.ids(true, false)
			if err != nil {
				return err
			}
			ids := make([]uuid.UUID, 0, len(employees))
			for _, raw := range employees {
				id, err := parseID("employee-id", raw, true)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return runMutation(cmd, opts, func(ctx context.Context, c *relclient.Client) (any, error) {
				return c.CreateRelationship(ctx, clientID, managerID, ids)
			})
		},
	}
	flags.bind(cmd, false)
	cmd.Flags().StringSliceVar(&employees, "employee-id", nil, "employee UUID (repeatable)")
	return cmd
}
