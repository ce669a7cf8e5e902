package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/rounds/internal/clock"
	"github.com/opencode-ai/rounds/internal/config"
	"github.com/opencode-ai/rounds/internal/keepawake"
	"github.com/opencode-ai/rounds/internal/models"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func shortWorkout() models.WorkoutDefinition {
	return models.WorkoutDefinition{
		Name: "short",
		Rounds: []models.Round{{
			Repeat: 2,
			Steps: []models.Step{
				{Kind: models.StepKindWork, DurationSeconds: 3},
				{Kind: models.StepKindRest, DurationSeconds: 2},
			},
		}},
	}
}

type headlessRun struct {
	session *session
	clock   *clock.Fake
	steps   *syncBuffer
	events  *syncBuffer
	out     *syncBuffer
	done    chan error
}

func startHeadless(t *testing.T, ctx context.Context, def models.WorkoutDefinition) *headlessRun {
	t.Helper()
	noColor = true
	t.Cleanup(func() { noColor = false })

	run := &headlessRun{
		clock:  clock.NewFake(time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)),
		steps:  &syncBuffer{},
		events: &syncBuffer{},
		out:    &syncBuffer{},
		done:   make(chan error, 1),
	}

	s, err := newSession(sessionOptions{
		def:        def,
		cfg:        config.DefaultConfig(),
		clock:      run.clock,
		events:     run.events,
		onStep:     stepPrinter(run.steps),
		capability: keepawake.Noop{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	run.session = s

	go func() {
		run.done <- runHeadless(ctx, s, run.out)
	}()
	require.Eventually(t, func() bool {
		return s.engine.Status() == models.StatusRunning
	}, time.Second, time.Millisecond)
	return run
}

func (r *headlessRun) wait(t *testing.T) {
	t.Helper()
	select {
	case err := <-r.done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("headless run did not return")
	}
}

func TestRunHeadlessCompletes(t *testing.T) {
	setOutputMode(t, false, false)
	run := startHeadless(t, context.Background(), shortWorkout())

	run.clock.Advance(10 * time.Second)
	run.wait(t)

	out := run.out.String()
	require.Contains(t, out, "Workout complete")
	require.Contains(t, out, "Rounds:  2 / 2")
	require.Contains(t, out, "Elapsed: 00:10")
	require.Contains(t, out, "Work:    00:06")

	// WORK 1/2, REST 1/2, WORK 2/2, REST 2/2. The first line is printed by
	// the run goroutine, so only the set of lines is stable.
	steps := run.steps.String()
	lines := strings.Split(strings.TrimSpace(steps), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, 2, strings.Count(steps, "REST"))
	require.Equal(t, 2, strings.Count(steps, "2/2"))

	require.Contains(t, run.events.String(), `"timer.finished"`)
}

func TestRunHeadlessInterruptFinishesEarly(t *testing.T) {
	setOutputMode(t, false, false)
	ctx, cancel := context.WithCancel(context.Background())
	run := startHeadless(t, ctx, shortWorkout())

	run.clock.Advance(4 * time.Second)
	cancel()
	run.wait(t)

	out := run.out.String()
	require.Contains(t, out, "Workout ended early")
	require.Contains(t, out, "Rounds:  1 / 2")
	require.Contains(t, out, "Elapsed: 00:04")
	require.Contains(t, out, "Work:    00:03")
	require.Equal(t, models.StatusFinished, run.session.engine.Status())
}

func TestRunHeadlessJSONSummary(t *testing.T) {
	setOutputMode(t, true, false)
	run := startHeadless(t, context.Background(), shortWorkout())

	run.clock.Advance(10 * time.Second)
	run.wait(t)

	var summary runSummary
	require.NoError(t, json.Unmarshal([]byte(run.out.String()), &summary))
	require.Equal(t, "short", summary.Workout)
	require.Equal(t, models.StatusFinished, summary.Status)
	require.False(t, summary.Early)
	require.Equal(t, 2, summary.RoundsReached)
	require.Equal(t, 10, summary.ElapsedSeconds)
	require.Equal(t, 6, summary.ElapsedWorkSeconds)
	require.NotEmpty(t, summary.SessionID)
	require.Empty(t, run.steps.String(), "step lines are suppressed for JSON output")
}

func TestRunHeadlessNothingToTime(t *testing.T) {
	setOutputMode(t, false, false)
	s, err := newSession(sessionOptions{
		def:        models.WorkoutDefinition{},
		clock:      clock.NewFake(time.Now()),
		capability: keepawake.Noop{},
	})
	require.NoError(t, err)
	defer s.Close()

	err = runHeadless(context.Background(), s, &bytes.Buffer{})
	var preflight *PreflightError
	require.ErrorAs(t, err, &preflight)
}
