// Package events provides sinks and helpers for recording timer events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencode-ai/rounds/internal/models"
)

// Sink receives engine events.
type Sink interface {
	Emit(ctx context.Context, event *models.Event) error
}

// New builds an event with a fresh ID. payload may be nil.
func New(eventType models.EventType, sessionID string, at time.Time, payload any) (*models.Event, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	event := &models.Event{
		ID:        uuid.New().String(),
		Timestamp: at.UTC(),
		Type:      eventType,
		SessionID: sessionID,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
		}
		event.Payload = data
	}
	return event, nil
}

// LogStepChanged records a step transition.
func LogStepChanged(ctx context.Context, sink Sink, sessionID string, at time.Time, payload models.StepChangedPayload) error {
	return emit(ctx, sink, models.EventTypeTimerStepChanged, sessionID, at, payload)
}

// LogFinished records workout completion.
func LogFinished(ctx context.Context, sink Sink, sessionID string, at time.Time, payload models.FinishedPayload) error {
	return emit(ctx, sink, models.EventTypeTimerFinished, sessionID, at, payload)
}

// LogSuspension records a host suspend or resume.
func LogSuspension(ctx context.Context, sink Sink, eventType models.EventType, sessionID string, at time.Time, payload models.SuspensionPayload) error {
	return emit(ctx, sink, eventType, sessionID, at, payload)
}

// LogControl records a payload-free control transition (start, pause, ...).
func LogControl(ctx context.Context, sink Sink, eventType models.EventType, sessionID string, at time.Time) error {
	return emit(ctx, sink, eventType, sessionID, at, nil)
}

func emit(ctx context.Context, sink Sink, eventType models.EventType, sessionID string, at time.Time, payload any) error {
	if sink == nil {
		return fmt.Errorf("event sink is required")
	}
	event, err := New(eventType, sessionID, at, payload)
	if err != nil {
		return err
	}
	return sink.Emit(ctx, event)
}
