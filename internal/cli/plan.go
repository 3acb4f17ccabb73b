package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewindkit/rewind/internal/engine"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <snapshot-id>",
		Short: "Show the compensating actions a rollback would take",
		Args:  cobra.ExactArgs(1),
		Long: `Show the compensating actions a rollback would take, without
dispatching anything. The snapshot stays active.

Examples:
  rewind plan 20250601T120000.000-1a2b3c4d`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runPlan(opts *RootOptions, id string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, _, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	manager := engine.NewManager(st)

	plan, err := manager.RollbackPlan(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compute plan", err)
	}
	if plan == nil {
		// Existence first, then status: the two "no plan" cases get
		// different messages.
		snap, err := manager.Snapshot(ctx, id)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read snapshot", err)
		}
		if snap == nil {
			return NewExitError(ExitFailure, fmt.Sprintf("snapshot not found: %s", id))
		}
		return NewExitError(ExitFailure, fmt.Sprintf(
			"no plan available: snapshot %s has status %q (only active snapshots can be rolled back)",
			id, snap.Status))
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(plan)
	}

	renderPlan(cmd.OutOrStdout(), plan)
	return nil
}
