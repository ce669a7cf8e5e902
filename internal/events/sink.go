package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/rounds/internal/models"
)

// NoopSink drops all events.
type NoopSink struct{}

// Emit ignores events.
func (NoopSink) Emit(ctx context.Context, event *models.Event) error {
	return nil
}

// LogSink writes events to a zerolog logger at debug level.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the event.
func (s *LogSink) Emit(ctx context.Context, event *models.Event) error {
	entry := s.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("session_id", event.SessionID)
	if len(event.Payload) > 0 {
		entry = entry.RawJSON("payload", event.Payload)
	}
	entry.Msg("timer event")
	return nil
}

// WriterSink streams events to a writer as JSON lines.
type WriterSink struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewWriterSink creates a JSON lines sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{encoder: json.NewEncoder(w)}
}

// Emit writes one JSON line.
func (s *WriterSink) Emit(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoder.Encode(event)
}

// MemorySink keeps events in memory. The zero value is ready to use.
type MemorySink struct {
	mu     sync.Mutex
	events []*models.Event
}

// Emit appends the event.
func (s *MemorySink) Emit(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (s *MemorySink) Events() []*models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Types returns the recorded event types in order.
func (s *MemorySink) Types() []models.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EventType, len(s.events))
	for i, event := range s.events {
		out[i] = event.Type
	}
	return out
}

// Count returns how many events of the given type were recorded.
func (s *MemorySink) Count(eventType models.EventType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, event := range s.events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

// MultiSink fans out to several sinks. All sinks are attempted; errors are
// joined.
type MultiSink []Sink

// Emit forwards the event to every sink.
func (m MultiSink) Emit(ctx context.Context, event *models.Event) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
