package models

import (
	"errors"
	"testing"
)

func intervals(work, rest, rounds int) WorkoutDefinition {
	return NewWorkoutDefinition(Round{
		Repeat: rounds,
		Steps: []Step{
			{Kind: StepKindWork, DurationSeconds: work},
			{Kind: StepKindRest, DurationSeconds: rest},
		},
	})
}

func TestWorkoutDefinitionTotals(t *testing.T) {
	def := intervals(20, 10, 8)

	if def.PrepareSeconds != DefaultPrepareSeconds {
		t.Fatalf("expected default prepare %d, got %d", DefaultPrepareSeconds, def.PrepareSeconds)
	}
	if got := def.WorkSeconds(); got != 160 {
		t.Errorf("WorkSeconds() = %d, want 160", got)
	}
	if got := def.RestSeconds(); got != 80 {
		t.Errorf("RestSeconds() = %d, want 80", got)
	}
	if got := def.TotalSeconds(); got != 250 {
		t.Errorf("TotalSeconds() = %d, want 250", got)
	}
	if got := def.TotalRepeats(); got != 8 {
		t.Errorf("TotalRepeats() = %d, want 8", got)
	}
}

func TestWorkoutDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     WorkoutDefinition
		wantErr bool
	}{
		{"valid", intervals(30, 30, 5), false},
		{"zero rounds is valid", intervals(30, 30, 0), false},
		{"negative prepare", WorkoutDefinition{PrepareSeconds: -1}, true},
		{"negative repeat", intervals(30, 30, -2), true},
		{"negative duration", intervals(-5, 30, 1), true},
		{
			"unknown kind",
			NewWorkoutDefinition(Round{Repeat: 1, Steps: []Step{{Kind: "stretch", DurationSeconds: 5}}}),
			true,
		},
		{
			"explicit prepare",
			NewWorkoutDefinition(Round{Repeat: 1, Steps: []Step{{Kind: StepKindPrepare, DurationSeconds: 5}}}),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var validation *ValidationErrors
				if !errors.As(err, &validation) {
					t.Fatalf("expected ValidationErrors, got %T", err)
				}
			}
		})
	}
}

func TestParseStepKind(t *testing.T) {
	kind, err := ParseStepKind("  Work ")
	if err != nil {
		t.Fatalf("ParseStepKind: %v", err)
	}
	if kind != StepKindWork {
		t.Fatalf("expected work, got %q", kind)
	}
	if _, err := ParseStepKind("nap"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{75, "01:15"},
		{3600, "60:00"},
		{-4, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
