// Package models defines the core data types for rounds.
package models

import (
	"fmt"
	"strings"
)

// DefaultPrepareSeconds is the countdown prepended to every workout.
const DefaultPrepareSeconds = 10

// StepKind identifies the phase a step belongs to.
type StepKind string

const (
	StepKindPrepare StepKind = "prepare"
	StepKindWork    StepKind = "work"
	StepKindRest    StepKind = "rest"
)

// Valid reports whether k is one of the known step kinds.
func (k StepKind) Valid() bool {
	switch k {
	case StepKindPrepare, StepKindWork, StepKindRest:
		return true
	default:
		return false
	}
}

// Label returns the upper-case display name of the kind.
func (k StepKind) Label() string {
	return strings.ToUpper(string(k))
}

// ParseStepKind converts user input into a StepKind.
func ParseStepKind(value string) (StepKind, error) {
	kind := StepKind(strings.ToLower(strings.TrimSpace(value)))
	if !kind.Valid() {
		return "", fmt.Errorf("unknown step kind %q", value)
	}
	return kind, nil
}

// Step is one timed phase.
type Step struct {
	Kind            StepKind `json:"kind" yaml:"kind"`
	DurationSeconds int      `json:"duration_seconds" yaml:"duration_seconds"`
}

// Round describes one logical round. It expands to Repeat consecutive
// copies of Steps when a sequence is built.
type Round struct {
	Repeat int    `json:"repeat" yaml:"repeat"`
	Steps  []Step `json:"steps" yaml:"steps"`
}

// WorkoutDefinition is the declarative input to the sequence builder.
type WorkoutDefinition struct {
	// Name is a display label. Optional.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// PrepareSeconds is the length of the leading prepare step.
	PrepareSeconds int `json:"prepare_seconds" yaml:"prepare_seconds"`

	// Rounds are expanded in order.
	Rounds []Round `json:"rounds" yaml:"rounds"`
}

// NewWorkoutDefinition returns a definition with the default prepare time.
func NewWorkoutDefinition(rounds ...Round) WorkoutDefinition {
	return WorkoutDefinition{
		PrepareSeconds: DefaultPrepareSeconds,
		Rounds:         rounds,
	}
}

// Validate checks the definition for negative values and unknown kinds.
func (d WorkoutDefinition) Validate() error {
	validation := &ValidationErrors{}
	if d.PrepareSeconds < 0 {
		validation.AddMessage("prepare_seconds", "prepare_seconds must be non-negative")
	}
	for i, round := range d.Rounds {
		field := fmt.Sprintf("rounds[%d]", i)
		if round.Repeat < 0 {
			validation.AddMessage(field+".repeat", "repeat must be non-negative")
		}
		for j, step := range round.Steps {
			stepField := fmt.Sprintf("%s.steps[%d]", field, j)
			if !step.Kind.Valid() {
				validation.AddMessage(stepField+".kind", fmt.Sprintf("unknown step kind %q", step.Kind))
			}
			if step.Kind == StepKindPrepare {
				validation.AddMessage(stepField+".kind", "prepare steps are added automatically")
			}
			if step.DurationSeconds < 0 {
				validation.AddMessage(stepField+".duration_seconds", "duration must be non-negative")
			}
		}
	}
	return validation.Err()
}

// TotalRepeats is the number of rounds the definition expands to.
func (d WorkoutDefinition) TotalRepeats() int {
	total := 0
	for _, round := range d.Rounds {
		if round.Repeat > 0 {
			total += round.Repeat
		}
	}
	return total
}

// WorkSeconds is the summed duration of all expanded work steps.
func (d WorkoutDefinition) WorkSeconds() int {
	return d.kindSeconds(StepKindWork)
}

// RestSeconds is the summed duration of all expanded rest steps.
func (d WorkoutDefinition) RestSeconds() int {
	return d.kindSeconds(StepKindRest)
}

// TotalSeconds is the full wall time of the workout including prepare.
func (d WorkoutDefinition) TotalSeconds() int {
	prepare := d.PrepareSeconds
	if prepare < 0 {
		prepare = 0
	}
	return prepare + d.WorkSeconds() + d.RestSeconds()
}

func (d WorkoutDefinition) kindSeconds(kind StepKind) int {
	total := 0
	for _, round := range d.Rounds {
		if round.Repeat <= 0 {
			continue
		}
		for _, step := range round.Steps {
			if step.Kind == kind && step.DurationSeconds > 0 {
				total += round.Repeat * step.DurationSeconds
			}
		}
	}
	return total
}

// FormatClock renders whole seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
