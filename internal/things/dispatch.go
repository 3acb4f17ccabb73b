package things

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/rewindkit/rewind/internal/ratelimit"
)

// DispatchResult classifies one dispatch attempt. The write channel
// returns nothing, so "succeeded" only means the command was handed to the
// external system - never that the mutation was observed to take effect.
type DispatchResult struct {
	Succeeded bool   `json:"succeeded"`
	Err       string `json:"error,omitempty"`
}

// Runner executes the underlying external command. Extracted so tests can
// dispatch without touching the host system.
type Runner func(ctx context.Context, commandURL string) error

// openRunner delivers a URL through the macOS open(1) launcher.
// -g keeps Things from stealing focus on every compensating call.
func openRunner(ctx context.Context, commandURL string) error {
	return exec.CommandContext(ctx, "open", "-g", commandURL).Run()
}

// CommandDispatcher sends command URLs to Things, consulting the rate
// limiter before every call. Rate rejection is reported as a failed
// result with a retry hint, never as a Go error: the budget being full is
// a routine condition the caller reports upward.
type CommandDispatcher struct {
	limiter *ratelimit.Limiter
	run     Runner
	logger  *slog.Logger
}

// NewCommandDispatcher creates a dispatcher gated by the given limiter.
// A nil limiter falls back to the process-wide default.
func NewCommandDispatcher(limiter *ratelimit.Limiter, logger *slog.Logger) *CommandDispatcher {
	if limiter == nil {
		limiter = ratelimit.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommandDispatcher{
		limiter: limiter,
		run:     openRunner,
		logger:  logger,
	}
}

// SetRunner replaces the external execution primitive. Test seam.
func (d *CommandDispatcher) SetRunner(run Runner) {
	d.run = run
}

// Dispatch sends one command URL. Every call - original or compensating -
// consumes the same budget; compensations get no priority.
func (d *CommandDispatcher) Dispatch(ctx context.Context, commandURL string) DispatchResult {
	if err := d.limiter.Acquire(); err != nil {
		if ratelimit.IsCapacityError(err) {
			d.logger.Warn("dispatch rejected by rate limiter",
				"wait", d.limiter.WaitTime())
			return DispatchResult{
				Succeeded: false,
				Err:       fmt.Sprintf("rate limit exceeded, retry in %s", d.limiter.WaitTime()),
			}
		}
		return DispatchResult{Succeeded: false, Err: err.Error()}
	}

	d.logger.Debug("dispatching command", "url", commandURL)
	if err := d.run(ctx, commandURL); err != nil {
		return DispatchResult{Succeeded: false, Err: err.Error()}
	}
	return DispatchResult{Succeeded: true}
}
