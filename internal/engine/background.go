package engine

import (
	"context"
	"time"

	"github.com/opencode-ai/rounds/internal/events"
	"github.com/opencode-ai/rounds/internal/models"
)

// HostSuspended freezes a running workout at instant at. No ticks are
// scheduled until HostResumed. It is a no-op unless the engine is running.
func (e *Engine) HostSuspended(at time.Time) {
	e.mu.Lock()
	defer e.unlock()

	if e.status != models.StatusRunning || e.suspended {
		return
	}
	e.advanceLocked(at)
	if e.status != models.StatusRunning {
		return
	}

	e.cancelLocked()
	e.suspended = true
	e.suspendedAt = at

	session := e.sessionID
	e.logger.Info().Time("at", at).Msg("host suspended")
	e.queueEventLocked(func(ctx context.Context) error {
		return events.LogSuspension(ctx, e.sink, models.EventTypeHostSuspended, session, at, models.SuspensionPayload{
			SuspendedAt: at.UTC(),
		})
	})
}

// HostResumed shifts the running step forward by the time spent suspended,
// so the remaining time is what it was at suspension. It is a no-op unless
// HostSuspended was observed.
func (e *Engine) HostResumed(at time.Time) {
	e.mu.Lock()
	defer e.unlock()

	if !e.suspended {
		return
	}
	suspendedAt := e.suspendedAt
	gap := e.restoreLocked(at)

	session := e.sessionID
	e.logger.Info().Dur("suspended_for", gap).Msg("host resumed")
	e.queueEventLocked(func(ctx context.Context) error {
		return events.LogSuspension(ctx, e.sink, models.EventTypeHostResumed, session, at, models.SuspensionPayload{
			SuspendedAt: suspendedAt.UTC(),
			Duration:    gap.String(),
		})
	})

	if e.status == models.StatusRunning {
		e.advanceLocked(at)
		if e.status == models.StatusRunning {
			e.scheduleLocked(at)
		}
	}
}

// Suspended reports whether the engine is frozen by a host suspension.
func (e *Engine) Suspended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.suspended
}

// restoreLocked removes the suspension gap from the step and work anchors.
// A clock that went backwards counts as no gap.
func (e *Engine) restoreLocked(at time.Time) time.Duration {
	gap := max(0, at.Sub(e.suspendedAt))
	e.stepStart = e.stepStart.Add(gap)
	if e.workLatched {
		e.workStart = e.workStart.Add(gap)
	}
	e.suspended = false
	e.suspendedAt = time.Time{}
	return gap
}
