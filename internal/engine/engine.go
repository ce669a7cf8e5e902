// Package engine implements the workout timer state machine.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/rounds/internal/clock"
	"github.com/opencode-ai/rounds/internal/events"
	"github.com/opencode-ai/rounds/internal/logging"
	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/sequence"
)

// ErrNotIdle is returned by Configure while a workout is running or paused.
var ErrNotIdle = errors.New("engine is not idle")

// Config contains engine configuration.
type Config struct {
	// TickInterval is the upper bound between two ticks while running. Ticks
	// are also scheduled exactly at step boundaries.
	// Default: 100 milliseconds.
	TickInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval: 100 * time.Millisecond,
	}
}

// KeepAwake is the display keep-awake capability. Set must be idempotent
// and must not fail.
type KeepAwake interface {
	Set(active bool)
}

type noKeepAwake struct{}

func (noKeepAwake) Set(bool) {}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithClock sets the clock source. Default: clock.Real.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithKeepAwake sets the keep-awake capability.
func WithKeepAwake(k KeepAwake) Option {
	return func(e *Engine) { e.keepAwake = k }
}

// WithEventSink sets where engine events are emitted.
func WithEventSink(sink events.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// OnFinish registers the completion notification. It is called once per run,
// outside the engine lock, with the final snapshot.
func OnFinish(fn func(Snapshot)) Option {
	return func(e *Engine) { e.onFinish = fn }
}

// OnStepChange registers a callback for every visible step transition.
func OnStepChange(fn func(Snapshot)) Option {
	return func(e *Engine) { e.onStep = fn }
}

// Engine owns the timer state for one workout definition. All methods are
// safe for concurrent use; control operations and ticks never interleave.
type Engine struct {
	config    Config
	clock     clock.Clock
	keepAwake KeepAwake
	sink      events.Sink
	logger    zerolog.Logger
	onFinish  func(Snapshot)
	onStep    func(Snapshot)

	mu  sync.Mutex
	def models.WorkoutDefinition
	seq *sequence.Sequence

	status    models.Status
	stepIndex int
	stepStart time.Time

	// Work anchor. Unset until the first transition out of prepare.
	workStart   time.Time
	workLatched bool

	pausedTotal   time.Duration
	pauseStart    time.Time
	pauseCredited bool
	pausedElapsed time.Duration

	suspended   bool
	suspendedAt time.Time

	restDone   time.Duration
	finishedAt time.Time
	finalIndex int
	notified   bool
	early      bool

	sessionID string
	session   atomic.Value

	timer clock.Timer
	gen   uint64

	// Callbacks queued under mu and run by unlock.
	after []func()
}

// New creates an engine for def. The engine starts idle.
func New(def models.WorkoutDefinition, opts ...Option) *Engine {
	e := &Engine{
		config:    DefaultConfig(),
		clock:     clock.NewReal(),
		keepAwake: noKeepAwake{},
		sink:      events.NoopSink{},
		logger:    logging.Component("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.config.TickInterval <= 0 {
		e.config.TickInterval = DefaultConfig().TickInterval
	}
	if e.keepAwake == nil {
		e.keepAwake = noKeepAwake{}
	}
	if e.sink == nil {
		e.sink = events.NoopSink{}
	}
	e.session.Store("")

	e.def = def
	e.seq = sequence.Build(def)
	e.resetStateLocked()
	return e
}

// Definition returns the workout definition the engine was built from.
func (e *Engine) Definition() models.WorkoutDefinition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.def
}

// Sequence returns the built sequence.
func (e *Engine) Sequence() *sequence.Sequence {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// Configure replaces the workout definition and returns the engine to idle.
// It fails with ErrNotIdle while running or paused.
func (e *Engine) Configure(def models.WorkoutDefinition) error {
	e.mu.Lock()
	defer e.unlock()

	if e.status.Active() {
		return ErrNotIdle
	}
	e.def = def
	e.seq = sequence.Build(def)
	e.cancelLocked()
	e.resetStateLocked()
	e.logger.Debug().
		Int("steps", e.seq.Len()).
		Int("rounds", e.seq.TotalRounds()).
		Msg("workout configured")
	return nil
}

// Startable reports whether Start would begin a run from idle: the
// definition must have at least one round and a positive timed duration.
func (e *Engine) Startable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startableLocked()
}

func (e *Engine) startableLocked() bool {
	return e.seq.TotalRounds() > 0 && e.seq.TimedSeconds() > 0
}

// Start begins a run from idle or resumes from pause. It returns false when
// nothing changed: already running, finished, or a degenerate workout.
func (e *Engine) Start() bool {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.unlock()

	switch e.status {
	case models.StatusRunning, models.StatusFinished:
		return false
	}
	if !e.startableLocked() {
		e.logger.Debug().
			Int("rounds", e.seq.TotalRounds()).
			Int("timed_seconds", e.seq.TimedSeconds()).
			Msg("refusing to start degenerate workout")
		return false
	}

	if e.status == models.StatusIdle {
		e.setSessionLocked(uuid.New().String())
		e.stepIndex = 0
		e.stepStart = now
		e.status = models.StatusRunning
		e.logger.Info().
			Str("session_id", e.sessionID).
			Int("steps", e.seq.Len()).
			Int("rounds", e.seq.TotalRounds()).
			Msg("timer started")
		e.emitControlLocked(models.EventTypeTimerStarted, now)
		if e.seq.Step(0).DurationSeconds > 0 {
			e.stepChangedLocked(now)
		}
	} else {
		pause := now.Sub(e.pauseStart)
		if pause < 0 {
			pause = 0
		}
		if e.pauseCredited {
			e.pausedTotal += pause
		}
		e.stepStart = now.Add(-e.pausedElapsed)
		e.pauseStart = time.Time{}
		e.pauseCredited = false
		e.pausedElapsed = 0
		e.status = models.StatusRunning
		e.logger.Info().Dur("paused_for", pause).Msg("timer resumed")
		e.emitControlLocked(models.EventTypeTimerResumed, now)
	}

	e.keepAwake.Set(true)
	e.advanceLocked(now)
	if e.status == models.StatusRunning {
		e.scheduleLocked(now)
	}
	return true
}

// Pause stops the clock for the current step. It returns false unless the
// engine was running.
func (e *Engine) Pause() bool {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.unlock()

	if e.status != models.StatusRunning {
		return false
	}
	if e.suspended {
		e.restoreLocked(now)
	}
	e.advanceLocked(now)
	if e.status != models.StatusRunning {
		return false
	}

	e.cancelLocked()
	e.pausedElapsed = e.stepElapsedLocked(now)
	e.pauseStart = now
	// Pauses before the work anchor is latched (prepare) are not credited:
	// elapsed time is measured from the anchor onward.
	e.pauseCredited = e.workLatched
	e.status = models.StatusPaused
	e.keepAwake.Set(false)

	e.logger.Info().Int("step_index", e.stepIndex).Msg("timer paused")
	e.emitControlLocked(models.EventTypeTimerPaused, now)
	return true
}

// Reset returns the engine to idle at the first step. Calling it repeatedly
// is the same as calling it once.
func (e *Engine) Reset() {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.unlock()

	session := e.sessionID
	e.cancelLocked()
	e.resetStateLocked()
	e.keepAwake.Set(false)

	if session != "" {
		e.logger.Info().Str("session_id", session).Msg("timer reset")
		e.queueEventLocked(func(ctx context.Context) error {
			return events.LogControl(ctx, e.sink, models.EventTypeTimerReset, session, now)
		})
	}
}

// Finish ends the run early from idle, running or paused. The completion
// notification fires once; Finish on a finished engine returns false.
func (e *Engine) Finish() bool {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.unlock()

	if e.status == models.StatusFinished {
		return false
	}
	if e.sessionID == "" {
		e.setSessionLocked(uuid.New().String())
	}

	switch e.status {
	case models.StatusRunning:
		if e.suspended {
			e.restoreLocked(now)
		}
		e.advanceLocked(now)
		if e.status == models.StatusFinished {
			return true
		}
	case models.StatusPaused:
		pause := now.Sub(e.pauseStart)
		if pause > 0 && e.pauseCredited {
			e.pausedTotal += pause
		}
		// Re-anchor the step so its elapsed time is the paused value.
		e.stepStart = now.Add(-e.pausedElapsed)
		e.pauseStart = time.Time{}
		e.pauseCredited = false
	}

	e.completeLocked(now, true)
	return true
}

// Tick advances the engine to the current clock reading. It is what the
// scheduled callback runs; hosts may also call it directly.
func (e *Engine) Tick() {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.unlock()

	if e.status != models.StatusRunning || e.suspended {
		return
	}
	e.advanceLocked(now)
}

// Snapshot returns the derived values at the current clock reading.
func (e *Engine) Snapshot() Snapshot {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(now)
}

// Status returns the current status.
func (e *Engine) Status() models.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// SessionID returns the ID of the current run, or "" when idle.
func (e *Engine) SessionID() string {
	return e.session.Load().(string)
}

// ReportCapabilityFailure records a keep-awake failure as an event. It does
// not take the engine lock, so it is safe to call from KeepAwake.Set.
func (e *Engine) ReportCapabilityFailure(op string, err error) {
	session := e.SessionID()
	if session == "" || err == nil {
		return
	}
	payload := models.ErrorPayload{Error: err.Error(), Context: "keep-awake " + op}
	event, buildErr := events.New(models.EventTypeKeepAwakeFailed, session, e.clock.Now(), payload)
	if buildErr != nil {
		e.logger.Warn().Err(buildErr).Msg("failed to build capability event")
		return
	}
	if emitErr := e.sink.Emit(context.Background(), event); emitErr != nil {
		e.logger.Warn().Err(emitErr).Msg("failed to emit capability event")
	}
}

// advanceLocked moves past every step whose time is up. Each new step starts
// at the exact end of the previous one, so late ticks never accumulate drift
// and zero-length steps are skipped within the same call.
func (e *Engine) advanceLocked(now time.Time) {
	for e.status == models.StatusRunning {
		dur := e.stepDuration(e.stepIndex)
		if now.Sub(e.stepStart) < dur {
			return
		}
		boundary := e.stepStart.Add(dur)
		leaving := e.seq.Step(e.stepIndex)
		if leaving.Kind == models.StepKindRest {
			e.restDone += dur
		}

		next := e.stepIndex + 1
		if next >= e.seq.Len() {
			e.completeLocked(boundary, false)
			return
		}
		if leaving.Kind == models.StepKindPrepare && !e.workLatched {
			e.workStart = boundary
			e.workLatched = true
		}
		e.stepIndex = next
		e.stepStart = boundary
		if e.seq.Step(next).DurationSeconds > 0 {
			e.stepChangedLocked(boundary)
		}
	}
}

// completeLocked moves to finished at instant at.
func (e *Engine) completeLocked(at time.Time, early bool) {
	e.finalIndex = min(e.stepIndex, e.seq.Len()-1)
	if early && e.seq.Step(e.finalIndex).Kind == models.StepKindRest && e.status != models.StatusIdle {
		e.restDone += e.stepElapsedLocked(at)
	}

	e.cancelLocked()
	e.stepIndex = e.seq.Len()
	e.status = models.StatusFinished
	e.finishedAt = at
	e.early = early
	e.suspended = false
	e.keepAwake.Set(false)

	if e.notified {
		return
	}
	e.notified = true

	snap := e.snapshotLocked(at)
	session := e.sessionID
	e.logger.Info().
		Str("session_id", session).
		Bool("early", early).
		Int("round", snap.Round).
		Int("elapsed_seconds", snap.ElapsedSeconds).
		Int("elapsed_work_seconds", snap.ElapsedWorkSeconds).
		Msg("workout finished")

	payload := models.FinishedPayload{
		Early:              early,
		RoundsReached:      snap.Round,
		TotalRounds:        snap.TotalRounds,
		ElapsedSeconds:     snap.ElapsedSeconds,
		ElapsedWorkSeconds: snap.ElapsedWorkSeconds,
	}
	e.queueEventLocked(func(ctx context.Context) error {
		return events.LogFinished(ctx, e.sink, session, at, payload)
	})
	if e.onFinish != nil {
		fn := e.onFinish
		e.after = append(e.after, func() { fn(snap) })
	}
}

func (e *Engine) stepChangedLocked(at time.Time) {
	snap := e.snapshotLocked(at)
	session := e.sessionID
	e.logger.Debug().
		Int("step_index", snap.StepIndex).
		Str("kind", string(snap.Step.Kind)).
		Int("round", snap.Round).
		Msg("step changed")

	payload := models.StepChangedPayload{
		StepIndex:       snap.StepIndex,
		Kind:            snap.Step.Kind,
		DurationSeconds: snap.Step.DurationSeconds,
		Round:           snap.Round,
		TotalRounds:     snap.TotalRounds,
	}
	e.queueEventLocked(func(ctx context.Context) error {
		return events.LogStepChanged(ctx, e.sink, session, at, payload)
	})
	if e.onStep != nil {
		fn := e.onStep
		e.after = append(e.after, func() { fn(snap) })
	}
}

// scheduleLocked arms the next tick, cancelling any pending one first.
func (e *Engine) scheduleLocked(now time.Time) {
	e.cancelLocked()

	delay := e.config.TickInterval
	if remaining := e.stepDuration(e.stepIndex) - e.stepElapsedLocked(now); remaining > 0 && remaining < delay {
		delay = remaining
	}
	gen := e.gen
	e.timer = e.clock.AfterFunc(delay, func() { e.onTimer(gen) })
}

// cancelLocked stops the pending tick. Bumping the generation also disarms
// a callback that already fired but is still waiting for the lock.
func (e *Engine) cancelLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}

func (e *Engine) onTimer(gen uint64) {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.unlock()

	if gen != e.gen || e.status != models.StatusRunning || e.suspended {
		return
	}
	e.timer = nil
	e.advanceLocked(now)
	if e.status == models.StatusRunning {
		e.scheduleLocked(now)
	}
}

func (e *Engine) resetStateLocked() {
	e.status = models.StatusIdle
	e.stepIndex = 0
	e.stepStart = time.Time{}
	e.workStart = time.Time{}
	e.workLatched = false
	e.pausedTotal = 0
	e.pauseStart = time.Time{}
	e.pauseCredited = false
	e.pausedElapsed = 0
	e.suspended = false
	e.suspendedAt = time.Time{}
	e.restDone = 0
	e.finishedAt = time.Time{}
	e.finalIndex = 0
	e.notified = false
	e.early = false
	e.setSessionLocked("")
}

func (e *Engine) setSessionLocked(id string) {
	e.sessionID = id
	e.session.Store(id)
}

func (e *Engine) stepDuration(i int) time.Duration {
	return time.Duration(e.seq.Step(i).DurationSeconds) * time.Second
}

// stepElapsedLocked is the time spent in the current step, clamped to
// [0, duration].
func (e *Engine) stepElapsedLocked(now time.Time) time.Duration {
	switch e.status {
	case models.StatusPaused:
		return e.pausedElapsed
	case models.StatusRunning:
		at := now
		if e.suspended {
			at = e.suspendedAt
		}
		return clampDuration(at.Sub(e.stepStart), 0, e.stepDuration(e.stepIndex))
	default:
		return 0
	}
}

func (e *Engine) emitControlLocked(eventType models.EventType, at time.Time) {
	session := e.sessionID
	e.queueEventLocked(func(ctx context.Context) error {
		return events.LogControl(ctx, e.sink, eventType, session, at)
	})
}

func (e *Engine) queueEventLocked(emit func(ctx context.Context) error) {
	e.after = append(e.after, func() {
		if err := emit(context.Background()); err != nil {
			e.logger.Warn().Err(err).Msg("failed to emit timer event")
		}
	})
}

// unlock releases mu and then runs the queued callbacks in order.
func (e *Engine) unlock() {
	pending := e.after
	e.after = nil
	e.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
