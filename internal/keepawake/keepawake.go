// Package keepawake asks the host not to sleep the display while a workout
// is running.
package keepawake

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/rounds/internal/logging"
)

// Capability is a host facility that can inhibit display sleep.
type Capability interface {
	Acquire() error
	Release() error
}

// Noop is a Capability that does nothing.
type Noop struct{}

// Acquire implements Capability.
func (Noop) Acquire() error { return nil }

// Release implements Capability.
func (Noop) Release() error { return nil }

// Guard applies the keep-awake policy on top of a Capability. Set is
// idempotent and never fails: capability errors are logged and reported to
// the optional failure hook.
type Guard struct {
	mu        sync.Mutex
	cap       Capability
	held      bool
	logger    zerolog.Logger
	onFailure func(op string, err error)
}

// NewGuard wraps capability. A nil capability behaves like Noop.
func NewGuard(capability Capability) *Guard {
	if capability == nil {
		capability = Noop{}
	}
	return &Guard{
		cap:    capability,
		logger: logging.Component("keepawake"),
	}
}

// OnFailure registers a hook invoked after a failed acquire or release.
func (g *Guard) OnFailure(fn func(op string, err error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFailure = fn
}

// Set requests (active) or releases (!active) the capability.
func (g *Guard) Set(active bool) {
	g.mu.Lock()
	if g.held == active {
		g.mu.Unlock()
		return
	}

	op := "release"
	var err error
	if active {
		op = "acquire"
		err = g.cap.Acquire()
	} else {
		err = g.cap.Release()
	}
	// held follows the request even when the capability fails.
	g.held = active
	hook := g.onFailure
	g.mu.Unlock()

	if err != nil {
		g.logger.Warn().Err(err).Str("op", op).Msg("keep-awake request failed")
		if hook != nil {
			hook(op, err)
		}
		return
	}
	g.logger.Debug().Str("op", op).Msg("keep-awake updated")
}

// Held reports whether the guard currently requests keep-awake.
func (g *Guard) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}

// ForBackend returns the capability for a configured backend name:
// "none", "dbus", or "auto" (D-Bus when a session bus is reachable).
func ForBackend(backend, appName string) (Capability, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "auto":
		ss, err := NewScreenSaver(appName)
		if err != nil {
			logger := logging.Component("keepawake")
			logger.Debug().Err(err).Msg("session bus unavailable, keep-awake disabled")
			return Noop{}, nil
		}
		return ss, nil
	case "dbus":
		return NewScreenSaver(appName)
	case "none":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown keep-awake backend %q", backend)
	}
}
