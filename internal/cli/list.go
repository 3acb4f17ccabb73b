package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewindkit/rewind/internal/snapshot"
	"github.com/rewindkit/rewind/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Status string
	Limit  int
	Offset int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded snapshots, most recent first",
		Long: `List recorded snapshots, most recent first.

Examples:
  rewind list
  rewind list --status active --limit 20
  rewind list --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by status (active|rolled-back|partial-rollback|expired)")
	cmd.Flags().IntVar(&opts.Limit, "limit", store.DefaultListLimit, "maximum snapshots to return")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of snapshots to skip")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	if opts.Status != "" && !snapshot.Status(opts.Status).Valid() {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid status %q", opts.Status))
	}

	st, _, err := openEnv(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	snaps, err := st.ListSnapshots(ctx, store.ListOptions{
		Status: snapshot.Status(opts.Status),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list snapshots", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(snaps)
	}

	renderSnapshotList(cmd.OutOrStdout(), snaps)
	return nil
}
