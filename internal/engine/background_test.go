package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/rounds/internal/models"
)

func TestSuspendedTimeIsNotCounted(t *testing.T) {
	h := newHarness(t, definition(0, models.Round{Repeat: 1, Steps: []models.Step{work(30)}}))

	require.True(t, h.engine.Start())
	h.engine.HostSuspended(h.clock.Now())
	require.True(t, h.engine.Suspended())
	require.Zero(t, h.clock.Pending(), "no ticks while suspended")

	h.clock.Advance(20 * time.Second)
	snap := h.engine.Snapshot()
	require.Equal(t, 30, snap.RemainingSeconds)
	require.False(t, snap.Running())

	h.engine.HostResumed(h.clock.Now())
	snap = h.engine.Snapshot()
	require.Equal(t, 30, snap.RemainingSeconds)
	require.Equal(t, 0, snap.ElapsedSeconds)
	require.True(t, snap.Running())

	h.clock.Advance(30 * time.Second)
	snap = h.engine.Snapshot()
	require.True(t, snap.Finished())
	require.Equal(t, 30, snap.ElapsedSeconds)

	require.Equal(t, 1, h.sink.Count(models.EventTypeHostSuspended))
	require.Equal(t, 1, h.sink.Count(models.EventTypeHostResumed))

	for _, event := range h.sink.Events() {
		if event.Type != models.EventTypeHostResumed {
			continue
		}
		var payload models.SuspensionPayload
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		require.Equal(t, "20s", payload.Duration)
	}
}

func TestSuspendIgnoredUnlessRunning(t *testing.T) {
	h := newHarness(t, definition(0, models.Round{Repeat: 1, Steps: []models.Step{work(30)}}))

	h.engine.HostSuspended(h.clock.Now())
	require.False(t, h.engine.Suspended())

	require.True(t, h.engine.Start())
	require.True(t, h.engine.Pause())
	h.engine.HostSuspended(h.clock.Now())
	require.False(t, h.engine.Suspended())

	h.engine.HostResumed(h.clock.Now())
	require.Zero(t, h.sink.Count(models.EventTypeHostResumed))
}

func TestPauseWhileSuspended(t *testing.T) {
	h := newHarness(t, definition(0, models.Round{Repeat: 1, Steps: []models.Step{work(30)}}))

	require.True(t, h.engine.Start())
	h.clock.Advance(10 * time.Second)
	h.engine.HostSuspended(h.clock.Now())
	h.clock.Advance(time.Minute)

	require.True(t, h.engine.Pause())
	require.False(t, h.engine.Suspended())
	snap := h.engine.Snapshot()
	require.Equal(t, 20, snap.RemainingSeconds)
	require.Equal(t, 10, snap.ElapsedSeconds)

	// A resume signal after the pause is stale.
	h.engine.HostResumed(h.clock.Now())
	require.Equal(t, models.StatusPaused, h.engine.Status())
}

func TestResumeBeforeSuspendCountsAsNoGap(t *testing.T) {
	h := newHarness(t, definition(0, models.Round{Repeat: 1, Steps: []models.Step{work(30)}}))

	require.True(t, h.engine.Start())
	h.clock.Advance(5 * time.Second)
	at := h.clock.Now()
	h.engine.HostSuspended(at)
	h.engine.HostResumed(at.Add(-time.Minute))

	snap := h.engine.Snapshot()
	require.Equal(t, 25, snap.RemainingSeconds)
	require.Equal(t, 5, snap.ElapsedSeconds)
}

func TestSuspendAcrossBoundarySettlesFirst(t *testing.T) {
	h := newHarness(t, definition(0, models.Round{Repeat: 2, Steps: []models.Step{work(3), rest(2)}}))

	require.True(t, h.engine.Start())
	// The host reports the suspension late; transitions up to that instant
	// are applied before freezing.
	h.clock.Set(epoch.Add(4 * time.Second))
	h.engine.HostSuspended(h.clock.Now())

	snap := h.engine.Snapshot()
	require.Equal(t, models.StepKindRest, snap.Step.Kind)
	require.Equal(t, 1, snap.RemainingSeconds)
}

func TestFinishWhileSuspended(t *testing.T) {
	h := newHarness(t, definition(0, models.Round{Repeat: 1, Steps: []models.Step{work(30)}}))

	require.True(t, h.engine.Start())
	h.clock.Advance(10 * time.Second)
	h.engine.HostSuspended(h.clock.Now())
	h.clock.Advance(time.Hour)

	require.True(t, h.engine.Finish())
	snap := h.engine.Snapshot()
	require.True(t, snap.Finished())
	require.False(t, snap.Suspended)
	require.Equal(t, 10, snap.ElapsedSeconds)
}
