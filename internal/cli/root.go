package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/daap14/roster/internal/employee"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Backend     string
	Path        string
	DatabaseURL string
	Format      string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for rosterctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rosterctl",
		Short: "Manage the employee roster store",
		Long:  "Create, list, update and delete employee records directly in the roster store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", employee.BackendSQLite, "store backend (sqlite|postgres|memory)")
	cmd.PersistentFlags().StringVar(&opts.Path, "path", "roster.db", "sqlite database file")
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "", "postgres connection URL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewHashKeyCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// withStore opens the configured store, runs fn against it and closes it.
func (o *RootOptions) withStore(cmd *cobra.Command, fn func(ctx context.Context, store *employee.Gateway) error) error {
	f := o.formatter(cmd)

	opener, err := employee.NewOpener(o.Backend, o.Path, o.DatabaseURL)
	if err != nil {
		return usageError(f, err.Error())
	}

	store := employee.NewGateway(opener)
	defer store.Close()

	return fn(cmd.Context(), store)
}
