package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daap14/roster/internal/employee"
)

// EmployeeView is the CLI representation of an employee.
type EmployeeView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}

func toView(e employee.Employee) EmployeeView {
	return EmployeeView{ID: e.ExternalID, Name: e.Name, Team: e.Team}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all employees in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withStore(cmd, func(ctx context.Context, store *employee.Gateway) error {
				employees, err := store.FetchAll(ctx)
				if err != nil {
					return storeError(f, err)
				}

				views := make([]EmployeeView, 0, len(employees))
				for _, e := range employees {
					views = append(views, toView(e))
				}

				return f.Success(views, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "#\tID\tNAME\tTEAM")
					for i, v := range views {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, v.ID, v.Name, v.Team)
					}
					tw.Flush()
				})
			})
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var id, name, team string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			if strings.TrimSpace(name) == "" || strings.TrimSpace(team) == "" {
				return usageError(f, "--name and --team are required")
			}
			if id == "" {
				id = uuid.NewString()
			} else if !employee.ValidExternalID(id) {
				return usageError(f, "--id must be 1-64 characters of letters, digits, '-' or '_'")
			}

			return rootOpts.withStore(cmd, func(ctx context.Context, store *employee.Gateway) error {
				e := employee.Employee{ExternalID: id, Name: name, Team: team}
				if err := store.Insert(ctx, &e); err != nil {
					return storeError(f, err)
				}
				return f.Success(toView(e), func(w io.Writer) {
					fmt.Fprintf(w, "added %s\n", e.ExternalID)
				})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "external id (random UUID when empty)")
	cmd.Flags().StringVar(&name, "name", "", "employee name")
	cmd.Flags().StringVar(&team, "team", "", "employee team")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var name, team string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Merge new field values into an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			var fields employee.UpdateFields
			if cmd.Flags().Changed("name") {
				if strings.TrimSpace(name) == "" {
					return usageError(f, "--name must not be blank")
				}
				fields.Name = &name
			}
			if cmd.Flags().Changed("team") {
				if strings.TrimSpace(team) == "" {
					return usageError(f, "--team must not be blank")
				}
				fields.Team = &team
			}
			if fields.Name == nil && fields.Team == nil {
				return usageError(f, "at least one of --name or --team is required")
			}

			return rootOpts.withStore(cmd, func(ctx context.Context, store *employee.Gateway) error {
				if err := store.UpdateByExternalID(ctx, args[0], fields); err != nil {
					return storeError(f, err)
				}
				return f.Success(map[string]string{"id": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "updated %s\n", args[0])
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&team, "team", "", "new team")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withStore(cmd, func(ctx context.Context, store *employee.Gateway) error {
				if err := store.DeleteByExternalID(ctx, args[0]); err != nil {
					return storeError(f, err)
				}
				return f.Success(map[string]string{"id": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "deleted %s\n", args[0])
				})
			})
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			if !yes {
				return usageError(f, "refusing to delete all employees without --yes")
			}

			return rootOpts.withStore(cmd, func(ctx context.Context, store *employee.Gateway) error {
				if err := store.ClearAll(ctx); err != nil {
					return storeError(f, err)
				}
				return f.Success(map[string]bool{"cleared": true}, func(w io.Writer) {
					fmt.Fprintln(w, "all employees deleted")
				})
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all employees")

	return cmd
}
