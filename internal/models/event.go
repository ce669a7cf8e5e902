package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType categorizes timer events.
type EventType string

const (
	// Timer events
	EventTypeTimerStarted     EventType = "timer.started"
	EventTypeTimerPaused      EventType = "timer.paused"
	EventTypeTimerResumed     EventType = "timer.resumed"
	EventTypeTimerStepChanged EventType = "timer.step_changed"
	EventTypeTimerFinished    EventType = "timer.finished"
	EventTypeTimerReset       EventType = "timer.reset"

	// Host lifecycle events
	EventTypeHostSuspended EventType = "host.suspended"
	EventTypeHostResumed   EventType = "host.resumed"

	// Capability events
	EventTypeKeepAwakeFailed EventType = "keepawake.failed"
)

// Event represents an append-only log entry emitted by the engine.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// SessionID groups the events of one run, from start until reset.
	SessionID string `json:"session_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(e.SessionID) == "" {
		validation.AddMessage("session_id", "session_id is required")
	}
	return validation.Err()
}

// StepChangedPayload is the payload for timer.step_changed events.
type StepChangedPayload struct {
	StepIndex       int      `json:"step_index"`
	Kind            StepKind `json:"kind"`
	DurationSeconds int      `json:"duration_seconds"`
	Round           int      `json:"round"`
	TotalRounds     int      `json:"total_rounds"`
}

// FinishedPayload is the payload for timer.finished events.
type FinishedPayload struct {
	// Early is true when the run was ended by the user.
	Early              bool `json:"early"`
	RoundsReached      int  `json:"rounds_reached"`
	TotalRounds        int  `json:"total_rounds"`
	ElapsedSeconds     int  `json:"elapsed_seconds"`
	ElapsedWorkSeconds int  `json:"elapsed_work_seconds"`
}

// SuspensionPayload is the payload for host.suspended and host.resumed events.
type SuspensionPayload struct {
	SuspendedAt time.Time `json:"suspended_at"`
	Duration    string    `json:"duration,omitempty"`
}

// ErrorPayload is the payload for capability failure events.
type ErrorPayload struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}
