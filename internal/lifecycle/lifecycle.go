// Package lifecycle tracks whether the host process is in the foreground and
// forwards suspend and resume transitions to the timer engine.
package lifecycle

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/rounds/internal/clock"
	"github.com/opencode-ai/rounds/internal/logging"
)

// State represents the current host lifecycle state.
type State string

const (
	// StateResumed indicates the app is visible and responding to input.
	StateResumed State = "resumed"

	// StateInactive indicates a transient loss of focus. The timer keeps
	// running.
	StateInactive State = "inactive"

	// StatePaused indicates the app is not visible and may not be scheduled,
	// e.g. a job-control stop.
	StatePaused State = "paused"

	// StateDetached indicates the app is still hosted but has no view.
	StateDetached State = "detached"
)

// Foreground reports whether the timer should be ticking in this state.
func (s State) Foreground() bool {
	return s == StateResumed || s == StateInactive
}

// ParseState parses a lifecycle state name.
func ParseState(value string) (State, error) {
	state := State(strings.ToLower(strings.TrimSpace(value)))
	switch state {
	case StateResumed, StateInactive, StatePaused, StateDetached:
		return state, nil
	default:
		return "", fmt.Errorf("unknown lifecycle state %q", value)
	}
}

// Host receives foreground transitions.
type Host interface {
	HostSuspended(at time.Time)
	HostResumed(at time.Time)
}

// Handler is called when the lifecycle state changes.
type Handler func(state State)

// Observer holds the current state and notifies the host when the app moves
// between foreground and background.
type Observer struct {
	mu       sync.RWMutex
	state    State
	host     Host
	clock    clock.Clock
	handlers map[int]Handler
	nextID   int
	logger   zerolog.Logger
}

// NewObserver creates an observer in the resumed state. A nil clock uses the
// real clock.
func NewObserver(host Host, c clock.Clock) *Observer {
	if c == nil {
		c = clock.NewReal()
	}
	return &Observer{
		state:    StateResumed,
		host:     host,
		clock:    c,
		handlers: make(map[int]Handler),
		logger:   logging.Component("lifecycle"),
	}
}

// State returns the current lifecycle state.
func (o *Observer) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// AddHandler registers a handler to be called on lifecycle changes.
// Returns a function that removes the handler.
func (o *Observer) AddHandler(handler Handler) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.handlers[id] = handler
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.handlers, id)
		o.mu.Unlock()
	}
}

// Update records a new state. The host is told about the change only when
// it crosses between foreground and background.
func (o *Observer) Update(newState State) {
	o.mu.Lock()
	old := o.state
	if old == newState {
		o.mu.Unlock()
		return
	}
	o.state = newState
	handlers := make([]Handler, 0, len(o.handlers))
	for _, h := range o.handlers {
		handlers = append(handlers, h)
	}
	o.mu.Unlock()

	o.logger.Debug().
		Str("from", string(old)).
		Str("to", string(newState)).
		Msg("lifecycle state changed")

	if o.host != nil && old.Foreground() != newState.Foreground() {
		now := o.clock.Now()
		if newState.Foreground() {
			o.host.HostResumed(now)
		} else {
			o.host.HostSuspended(now)
		}
	}

	for _, h := range handlers {
		h(newState)
	}
}
