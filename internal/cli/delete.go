package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Delete a snapshot and its recorded items",
		Args:  cobra.ExactArgs(1),
		Long: `Delete a snapshot and, via cascade, all of its recorded items.

This removes the ability to roll the operation back; the external state
in Things is untouched.

Examples:
  rewind delete 20250601T120000.000-1a2b3c4d`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runDelete(opts *RootOptions, id string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, _, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	removed, err := st.DeleteSnapshot(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to delete snapshot", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(map[string]any{"id": id, "removed": removed})
	}

	if removed {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s not found, nothing deleted\n", id)
	}
	return nil
}
