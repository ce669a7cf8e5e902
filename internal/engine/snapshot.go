package engine

import (
	"time"

	"github.com/opencode-ai/rounds/internal/models"
)

// Snapshot is a read-only view of the engine at one instant.
type Snapshot struct {
	Status    models.Status
	SessionID string

	// StepIndex is the index of the displayed step. Once finished it is the
	// last step reached, not the sequence length.
	StepIndex int
	StepCount int
	Step      models.Step
	// Next is the next step with a positive duration, if any.
	Next    models.Step
	HasNext bool

	Round       int
	TotalRounds int

	RemainingMillis      int64
	RemainingSeconds     int
	RemainingMinutes     int
	RemainingSecondsPart int
	ProgressPercent      float64

	// ElapsedSeconds counts from the end of prepare, minus credited pauses.
	ElapsedSeconds     int
	ElapsedMinutes     int
	ElapsedSecondsPart int

	// ElapsedWorkSeconds is ElapsedSeconds without time spent in rest steps.
	ElapsedWorkSeconds     int
	ElapsedWorkMinutes     int
	ElapsedWorkSecondsPart int

	Suspended bool
	// Early is set once finished if the run was ended by the user.
	Early bool
}

// Running reports whether the clock is moving.
func (s Snapshot) Running() bool {
	return s.Status == models.StatusRunning && !s.Suspended
}

// Finished reports whether the run is over.
func (s Snapshot) Finished() bool {
	return s.Status == models.StatusFinished
}

// RemainingClock formats the remaining time as MM:SS.
func (s Snapshot) RemainingClock() string {
	return models.FormatClock(s.RemainingSeconds)
}

// ElapsedClock formats the elapsed time as MM:SS.
func (s Snapshot) ElapsedClock() string {
	return models.FormatClock(s.ElapsedSeconds)
}

// ElapsedWorkClock formats the elapsed work time as MM:SS.
func (s Snapshot) ElapsedWorkClock() string {
	return models.FormatClock(s.ElapsedWorkSeconds)
}

func (e *Engine) snapshotLocked(now time.Time) Snapshot {
	idx := e.stepIndex
	if e.status == models.StatusFinished {
		idx = e.finalIndex
	}

	s := Snapshot{
		Status:      e.status,
		SessionID:   e.sessionID,
		StepIndex:   idx,
		StepCount:   e.seq.Len(),
		Step:        e.seq.Step(idx),
		Round:       e.seq.Round(idx),
		TotalRounds: e.seq.TotalRounds(),
		Suspended:   e.suspended,
		Early:       e.early,
	}
	if e.status != models.StatusFinished {
		if next := e.seq.NextTimed(idx + 1); next < e.seq.Len() {
			s.Next = e.seq.Step(next)
			s.HasNext = true
		}
	}

	dur := e.stepDuration(idx)
	var remaining time.Duration
	switch e.status {
	case models.StatusIdle:
		remaining = dur
	case models.StatusFinished:
		remaining = 0
	default:
		remaining = dur - e.stepElapsedLocked(now)
	}
	remaining = clampDuration(remaining, 0, dur)

	s.RemainingMillis = remaining.Milliseconds()
	s.RemainingSeconds = int((remaining + time.Second - 1) / time.Second)
	s.RemainingMinutes, s.RemainingSecondsPart = s.RemainingSeconds/60, s.RemainingSeconds%60
	if dur > 0 {
		s.ProgressPercent = min(100, max(0, float64(dur-remaining)/float64(dur)*100))
	}

	elapsed := e.elapsedLocked(now)
	work := max(0, elapsed-e.restLocked(now))
	s.ElapsedSeconds = int(elapsed / time.Second)
	s.ElapsedMinutes, s.ElapsedSecondsPart = s.ElapsedSeconds/60, s.ElapsedSeconds%60
	s.ElapsedWorkSeconds = int(work / time.Second)
	s.ElapsedWorkMinutes, s.ElapsedWorkSecondsPart = s.ElapsedWorkSeconds/60, s.ElapsedWorkSeconds%60
	return s
}

// elapsedLocked is the time since the work anchor, excluding credited
// pauses and any host suspension.
func (e *Engine) elapsedLocked(now time.Time) time.Duration {
	if !e.workLatched {
		return 0
	}

	at := now
	switch {
	case e.status == models.StatusFinished:
		at = e.finishedAt
	case e.suspended:
		at = e.suspendedAt
	}

	paused := e.pausedTotal
	if e.status == models.StatusPaused && e.pauseCredited {
		if p := now.Sub(e.pauseStart); p > 0 {
			paused += p
		}
	}
	return max(0, at.Sub(e.workStart)-paused)
}

// restLocked is the completed rest time plus the running rest step, if any.
func (e *Engine) restLocked(now time.Time) time.Duration {
	rest := e.restDone
	if e.status.Active() && e.seq.Step(e.stepIndex).Kind == models.StepKindRest {
		rest += e.stepElapsedLocked(now)
	}
	return rest
}
