package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/rounds/internal/config"
	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/workouts"
)

// workoutFlags describe a workout on the command line.
type workoutFlags struct {
	mode    string
	work    time.Duration
	rest    time.Duration
	rounds  int
	prepare time.Duration
}

func (f *workoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(workouts.ModeIntervals), "workout mode: for-time, emom, intervals")
	cmd.Flags().DurationVarP(&f.work, "work", "w", 30*time.Second, "work duration (time cap for for-time, interval for emom)")
	cmd.Flags().DurationVarP(&f.rest, "rest", "r", 0, "rest duration (intervals)")
	cmd.Flags().IntVarP(&f.rounds, "rounds", "n", 8, "number of rounds")
	cmd.Flags().DurationVarP(&f.prepare, "prepare", "p", 0, "prepare countdown (default from config)")
}

var shapeFlags = []string{"mode", "work", "rest", "rounds"}

// resolveWorkout builds the definition from a preset name or from flags.
func resolveWorkout(cmd *cobra.Command, args []string, flags *workoutFlags, cfg *config.Config) (models.WorkoutDefinition, error) {
	var def models.WorkoutDefinition

	if len(args) > 0 {
		for _, name := range shapeFlags {
			if cmd.Flags().Changed(name) {
				return def, &PreflightError{
					Message: fmt.Sprintf("--%s cannot be combined with a preset", name),
					Hint:    "Use either a preset name or workout flags",
				}
			}
		}

		presets, err := loadPresets(cfg)
		if err != nil {
			return def, err
		}
		preset, err := workouts.FindPreset(presets, args[0])
		if err != nil {
			if errors.Is(err, workouts.ErrPresetNotFound) {
				return def, &PreflightError{
					Message:  fmt.Sprintf("preset %q not found", args[0]),
					Hint:     "Preset names are matched case-insensitively",
					NextStep: "rounds presets list",
				}
			}
			return def, err
		}
		def, err = preset.Definition(cfg.Timer.PrepareSeconds)
		if err != nil {
			return def, fmt.Errorf("preset %s: %w", preset.Name, err)
		}
	} else {
		mode, err := workouts.ParseMode(flags.mode)
		if err != nil {
			return def, &PreflightError{
				Message: err.Error(),
				Hint:    "Valid modes are for-time, emom and intervals",
			}
		}
		def, err = workouts.Build(mode, workouts.Params{
			Work:   flags.work,
			Rest:   flags.rest,
			Rounds: flags.rounds,
		})
		if err != nil {
			return def, &PreflightError{
				Message: err.Error(),
				Hint:    "Custom workouts are defined as presets",
			}
		}
		def.Name = string(mode)
		def.PrepareSeconds = cfg.Timer.PrepareSeconds
	}

	if cmd.Flags().Changed("prepare") {
		def.PrepareSeconds = workouts.Seconds(flags.prepare)
	}
	if err := def.Validate(); err != nil {
		return def, &PreflightError{Message: fmt.Sprintf("invalid workout: %v", err)}
	}
	return def, nil
}

func loadPresets(cfg *config.Config) ([]*workouts.Preset, error) {
	step := startProgress("Loading presets")
	projectDir, _ := os.Getwd()
	presets, err := workouts.LoadPresetsFromSearchPaths(projectDir, cfg.Presets.Dirs...)
	if err != nil {
		step.Fail(err)
		return nil, err
	}
	step.Done()
	return presets, nil
}
