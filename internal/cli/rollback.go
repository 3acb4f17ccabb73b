package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewindkit/rewind/internal/engine"
	"github.com/rewindkit/rewind/internal/store"
	"github.com/rewindkit/rewind/internal/things"
)

// RollbackOptions holds flags for the rollback command.
type RollbackOptions struct {
	*RootOptions
	DryRun bool
}

// NewRollbackCommand creates the rollback command.
func NewRollbackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RollbackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rollback <snapshot-id>",
		Short: "Execute the compensating actions for a snapshot",
		Args:  cobra.ExactArgs(1),
		Long: `Execute the compensating actions for a snapshot.

Every action is attempted even when earlier ones fail; the summary
reports per-action errors. Compensations consume the same rate budget
as original commands.

Examples:
  rewind rollback 20250601T120000.000-1a2b3c4d
  rewind rollback 20250601T120000.000-1a2b3c4d --dry-run`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRollback(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "compute and show the plan without dispatching")

	return cmd
}

func runRollback(opts *RollbackOptions, id string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, cfg, err := openEnv(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := opts.Logger()
	manager := engine.NewManager(st)
	dispatcher := things.NewCommandDispatcher(limiterFromConfig(cfg), logger)
	executor := engine.NewExecutor(manager, dispatcher, cfg.AuthToken, logger)

	result, err := executor.Execute(ctx, id, opts.DryRun)
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return NewExitError(ExitFailure, fmt.Sprintf("snapshot not found: %s", id))
		}
		if engine.IsNoPlan(err) {
			return WrapExitError(ExitFailure, "cannot roll back", err)
		}
		return WrapExitError(ExitCommandError, "rollback failed", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		if err := f.JSON(result); err != nil {
			return err
		}
	} else {
		renderResult(cmd.OutOrStdout(), result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf(
			"%d of %d compensating actions failed", result.Failed, result.Attempted))
	}
	return nil
}
