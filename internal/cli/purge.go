package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// PurgeOptions holds flags for the purge command.
type PurgeOptions struct {
	*RootOptions
	Days int
}

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PurgeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete snapshots older than a retention threshold",
		Long: `Delete all snapshots older than the given number of days,
regardless of status. Removing zero snapshots is a normal outcome.

Examples:
  rewind purge --days 30`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 0, "age threshold in days (required)")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func runPurge(opts *PurgeOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, _, err := openEnv(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	count, err := st.PurgeOlderThan(ctx, opts.Days)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to purge snapshots", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(map[string]any{"purged": count, "days": opts.Days})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d snapshots older than %d days\n", count, opts.Days)
	return nil
}
