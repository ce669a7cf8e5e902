package cli

import (
	"io"
	"os"

	"github.com/opencode-ai/rounds/internal/clock"
	"github.com/opencode-ai/rounds/internal/config"
	"github.com/opencode-ai/rounds/internal/engine"
	"github.com/opencode-ai/rounds/internal/events"
	"github.com/opencode-ai/rounds/internal/keepawake"
	"github.com/opencode-ai/rounds/internal/lifecycle"
	"github.com/opencode-ai/rounds/internal/logging"
	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/tui"
)

const appName = "rounds"

// session wires one engine to its host capabilities.
type session struct {
	engine   *engine.Engine
	observer *lifecycle.Observer
	notifier *tui.Notifier
	guard    *keepawake.Guard
	finished chan engine.Snapshot

	capability keepawake.Capability
}

type sessionOptions struct {
	def    models.WorkoutDefinition
	cfg    *config.Config
	clock  clock.Clock
	events io.Writer
	onStep func(engine.Snapshot)

	// capability overrides the configured keep-awake backend.
	capability keepawake.Capability
}

func newSession(opts sessionOptions) (*session, error) {
	cfg := opts.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := opts.clock
	if c == nil {
		c = clock.NewReal()
	}

	capability := opts.capability
	if capability == nil {
		var err error
		capability, err = keepawake.ForBackend(cfg.KeepAwake.Backend, appName)
		if err != nil {
			return nil, err
		}
	}

	sinks := events.MultiSink{events.NewLogSink(logging.Component("events"))}
	if opts.events != nil {
		sinks = append(sinks, events.NewWriterSink(opts.events))
	}

	s := &session{
		notifier:   &tui.Notifier{},
		guard:      keepawake.NewGuard(capability),
		finished:   make(chan engine.Snapshot, 1),
		capability: capability,
	}

	s.engine = engine.New(opts.def,
		engine.WithConfig(engine.Config{TickInterval: cfg.Timer.TickInterval}),
		engine.WithClock(c),
		engine.WithKeepAwake(s.guard),
		engine.WithEventSink(sinks),
		engine.OnFinish(func(snap engine.Snapshot) {
			s.notifier.Finished(snap)
			select {
			case s.finished <- snap:
			default:
			}
		}),
		engine.OnStepChange(func(snap engine.Snapshot) {
			s.notifier.StepChanged(snap)
			if opts.onStep != nil {
				opts.onStep(snap)
			}
		}),
	)
	s.guard.OnFailure(s.engine.ReportCapabilityFailure)
	s.observer = lifecycle.NewObserver(s.engine, c)
	return s, nil
}

// Close releases keep-awake and any host connection.
func (s *session) Close() error {
	s.guard.Set(false)
	if closer, ok := s.capability.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func eventOutput() io.Writer {
	if IsJSONLOutput() {
		return os.Stdout
	}
	return nil
}
