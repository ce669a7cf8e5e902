package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/opencode-ai/rounds/internal/engine"
	"github.com/opencode-ai/rounds/internal/lifecycle"
	"github.com/opencode-ai/rounds/internal/models"
)

// runSummary is the JSON result of a headless run.
type runSummary struct {
	Workout            string        `json:"workout"`
	SessionID          string        `json:"session_id"`
	Status             models.Status `json:"status"`
	Early              bool          `json:"early"`
	RoundsReached      int           `json:"rounds_reached"`
	TotalRounds        int           `json:"total_rounds"`
	ElapsedSeconds     int           `json:"elapsed_seconds"`
	ElapsedWorkSeconds int           `json:"elapsed_work_seconds"`
}

func newRunSummary(name string, snap engine.Snapshot) runSummary {
	return runSummary{
		Workout:            name,
		SessionID:          snap.SessionID,
		Status:             snap.Status,
		Early:              snap.Early,
		RoundsReached:      snap.Round,
		TotalRounds:        snap.TotalRounds,
		ElapsedSeconds:     snap.ElapsedSeconds,
		ElapsedWorkSeconds: snap.ElapsedWorkSeconds,
	}
}

// runHeadless starts the workout and blocks until it finishes. Cancelling
// ctx finishes the workout early.
func runHeadless(ctx context.Context, s *session, out io.Writer) error {
	if !s.engine.Start() {
		return &PreflightError{
			Message:  "workout has nothing to time",
			Hint:     "Use at least one round and a non-zero work duration",
			NextStep: "rounds plan",
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go lifecycle.WatchJobControl(watchCtx, s.observer)

	var snap engine.Snapshot
	select {
	case snap = <-s.finished:
	case <-ctx.Done():
		logger().Info().Msg("interrupted, finishing workout")
		s.engine.Finish()
		snap = <-s.finished
	}

	summary := newRunSummary(s.engine.Definition().Name, snap)
	switch {
	case IsJSONLOutput():
		return nil
	case IsJSONOutput():
		return WriteOutput(out, summary)
	}

	title := "Workout complete"
	if summary.Early {
		title = "Workout ended early"
	}
	fmt.Fprintf(out, "\n%s\n", colorize(title, colorGreen))
	fmt.Fprintf(out, "  Status:  %s\n", formatStatus(summary.Status))
	fmt.Fprintf(out, "  Rounds:  %d / %d\n", summary.RoundsReached, summary.TotalRounds)
	fmt.Fprintf(out, "  Elapsed: %s\n", models.FormatClock(summary.ElapsedSeconds))
	fmt.Fprintf(out, "  Work:    %s\n", models.FormatClock(summary.ElapsedWorkSeconds))
	return nil
}

// stepPrinter prints one line per step change for human output.
func stepPrinter(out io.Writer) func(engine.Snapshot) {
	if IsJSONOutput() || IsJSONLOutput() {
		return nil
	}
	return func(snap engine.Snapshot) {
		fmt.Fprintf(out, "[%s] %s round %-7s %s\n",
			snap.ElapsedClock(),
			formatStepKind(snap.Step.Kind),
			formatRound(snap.Round, snap.TotalRounds),
			models.FormatClock(snap.Step.DurationSeconds))
	}
}
