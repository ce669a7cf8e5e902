// Package sequence flattens a workout definition into the ordered list of
// steps the timer engine walks through.
package sequence

import "github.com/opencode-ai/rounds/internal/models"

// Entry is one step of a built sequence, tagged with its owning round.
// Round 0 is the prepare step.
type Entry struct {
	Step  models.Step
	Round int
}

// Sequence is immutable once built.
type Sequence struct {
	entries     []Entry
	totalRounds int
}

// Build expands def into a flat sequence. It is pure: the same definition
// always yields the same sequence. Negative durations and repeat counts are
// treated as zero.
func Build(def models.WorkoutDefinition) *Sequence {
	size := 1
	for _, round := range def.Rounds {
		if round.Repeat > 0 {
			size += round.Repeat * len(round.Steps)
		}
	}

	entries := make([]Entry, 0, size)
	entries = append(entries, Entry{
		Step: models.Step{
			Kind:            models.StepKindPrepare,
			DurationSeconds: nonNegative(def.PrepareSeconds),
		},
		Round: 0,
	})

	roundNum := 1
	for _, round := range def.Rounds {
		for rep := 0; rep < round.Repeat; rep++ {
			for _, step := range round.Steps {
				entries = append(entries, Entry{
					Step: models.Step{
						Kind:            step.Kind,
						DurationSeconds: nonNegative(step.DurationSeconds),
					},
					Round: roundNum,
				})
			}
			roundNum++
		}
	}

	return &Sequence{
		entries:     entries,
		totalRounds: max(0, roundNum-1),
	}
}

// Len is the number of steps, including the prepare step.
func (s *Sequence) Len() int {
	return len(s.entries)
}

// At returns the entry at index i. ok is false when i is out of range.
func (s *Sequence) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Step returns the step at index i, or the zero Step when out of range.
func (s *Sequence) Step(i int) models.Step {
	entry, _ := s.At(i)
	return entry.Step
}

// Round returns the round number of step i, or 0 when out of range.
func (s *Sequence) Round(i int) int {
	entry, _ := s.At(i)
	return entry.Round
}

// TotalRounds is the number of expanded repeats.
func (s *Sequence) TotalRounds() int {
	return s.totalRounds
}

// Entries returns a copy of all entries.
func (s *Sequence) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// RoundMap returns the round number of every step in order.
func (s *Sequence) RoundMap() []int {
	out := make([]int, len(s.entries))
	for i, entry := range s.entries {
		out[i] = entry.Round
	}
	return out
}

// Kinds returns the kind of every step in order.
func (s *Sequence) Kinds() []models.StepKind {
	out := make([]models.StepKind, len(s.entries))
	for i, entry := range s.entries {
		out[i] = entry.Step.Kind
	}
	return out
}

// TotalSeconds is the summed duration of all steps.
func (s *Sequence) TotalSeconds() int {
	total := 0
	for _, entry := range s.entries {
		total += entry.Step.DurationSeconds
	}
	return total
}

// TimedSeconds is the summed duration of the non-prepare steps. A workout
// with no timed seconds cannot be started.
func (s *Sequence) TimedSeconds() int {
	return s.TotalSeconds() - s.Step(0).DurationSeconds
}

// NextTimed returns the index of the first step at or after i with a
// positive duration, or Len() if none remains.
func (s *Sequence) NextTimed(i int) int {
	for ; i < len(s.entries); i++ {
		if s.entries[i].Step.DurationSeconds > 0 {
			return i
		}
	}
	return len(s.entries)
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
