// Package cli implements the rewind command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/rewindkit/rewind/internal/config"
	"github.com/rewindkit/rewind/internal/ratelimit"
	"github.com/rewindkit/rewind/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DBPath  string // overrides the configured database path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rewind CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rewind",
		Short: "Snapshot and rollback ledger for Things automation",
		Long: `rewind records every mutating command sent to Things through its
write-only URL scheme and can compute and execute compensating rollbacks.

The write channel returns nothing, so the ledger kept here is the only
record of what a command intended and what state existed beforehand.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the snapshot database (default from config)")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewRollbackCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewPurgeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Logger builds the CLI logger: a tinted slog handler on stderr when
// verbose, otherwise discard.
func (o *RootOptions) Logger() *slog.Logger {
	if !o.Verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: slog.LevelDebug,
	}))
}

// openEnv loads the config and opens the ledger store, honoring the --db
// override.
func openEnv(opts *RootOptions) (*store.Store, *config.Config, error) {
	cfg, err := config.Load(config.ResolvePath())
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, cfg, nil
}

// limiterFromConfig builds the shared outbound-command limiter. Zero
// config values fall back to the stock Things budget.
func limiterFromConfig(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.MaxCalls, cfg.RateLimit.Window())
}
