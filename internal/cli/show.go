package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <snapshot-id>",
		Short: "Show a snapshot and its recorded items",
		Args:  cobra.ExactArgs(1),
		Long: `Show a snapshot and its recorded items.

Examples:
  rewind show 20250601T120000.000-1a2b3c4d
  rewind show 20250601T120000.000-1a2b3c4d --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, _, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	details, err := st.GetSnapshotDetails(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read snapshot", err)
	}
	if details == nil {
		return NewExitError(ExitFailure, fmt.Sprintf("snapshot not found: %s", id))
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(details)
	}

	renderDetails(cmd.OutOrStdout(), details)
	return nil
}
