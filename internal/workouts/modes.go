package workouts

import (
	"fmt"
	"strings"
	"time"

	"github.com/opencode-ai/rounds/internal/models"
)

// Mode selects how a workout is laid out.
type Mode string

const (
	// ModeForTime is a single work step capped at the given time.
	ModeForTime Mode = "for-time"
	// ModeEMOM is a work step repeated every interval.
	ModeEMOM Mode = "emom"
	// ModeIntervals alternates work and rest for a number of rounds.
	ModeIntervals Mode = "intervals"
	// ModeCustom uses explicit blocks.
	ModeCustom Mode = "custom"
)

// Modes lists the supported modes.
func Modes() []Mode {
	return []Mode{ModeForTime, ModeEMOM, ModeIntervals, ModeCustom}
}

// ParseMode parses a mode name. "fortime" and "amrap" are accepted as
// aliases of for-time.
func ParseMode(value string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "for-time", "fortime", "for_time", "amrap":
		return ModeForTime, nil
	case "emom":
		return ModeEMOM, nil
	case "intervals", "interval", "tabata":
		return ModeIntervals, nil
	case "custom":
		return ModeCustom, nil
	default:
		return "", fmt.Errorf("unknown workout mode %q", value)
	}
}

// Params are the mode shorthand inputs.
type Params struct {
	Work   time.Duration
	Rest   time.Duration
	Rounds int
}

// Build lays out a definition for one of the shorthand modes. The prepare
// time is left for the caller.
func Build(mode Mode, params Params) (models.WorkoutDefinition, error) {
	switch mode {
	case ModeForTime:
		return ForTime(params.Work), nil
	case ModeEMOM:
		return EMOM(params.Work, params.Rounds), nil
	case ModeIntervals:
		return Intervals(params.Work, params.Rest, params.Rounds), nil
	case ModeCustom:
		return models.WorkoutDefinition{}, fmt.Errorf("custom mode requires blocks")
	default:
		return models.WorkoutDefinition{}, fmt.Errorf("unknown workout mode %q", mode)
	}
}

// ForTime is one round with a single work step of length timeCap.
func ForTime(timeCap time.Duration) models.WorkoutDefinition {
	return models.NewWorkoutDefinition(models.Round{
		Repeat: 1,
		Steps:  []models.Step{{Kind: models.StepKindWork, DurationSeconds: Seconds(timeCap)}},
	})
}

// EMOM repeats a work step of length interval for rounds rounds.
func EMOM(interval time.Duration, rounds int) models.WorkoutDefinition {
	return models.NewWorkoutDefinition(models.Round{
		Repeat: rounds,
		Steps:  []models.Step{{Kind: models.StepKindWork, DurationSeconds: Seconds(interval)}},
	})
}

// Intervals alternates work and rest for rounds rounds. A zero rest leaves
// the rest step out.
func Intervals(work, rest time.Duration, rounds int) models.WorkoutDefinition {
	steps := []models.Step{{Kind: models.StepKindWork, DurationSeconds: Seconds(work)}}
	if Seconds(rest) > 0 {
		steps = append(steps, models.Step{Kind: models.StepKindRest, DurationSeconds: Seconds(rest)})
	}
	return models.NewWorkoutDefinition(models.Round{Repeat: rounds, Steps: steps})
}
