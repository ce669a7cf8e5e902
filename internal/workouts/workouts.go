// Package workouts provides workout modes and loading of YAML presets.
package workouts

import (
	"fmt"
	"strings"
	"time"

	"github.com/opencode-ai/rounds/internal/models"
)

// Preset is a named workout stored as YAML.
type Preset struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Mode        Mode     `yaml:"mode" json:"mode"`
	Prepare     string   `yaml:"prepare,omitempty" json:"prepare,omitempty"`
	Work        string   `yaml:"work,omitempty" json:"work,omitempty"`
	Rest        string   `yaml:"rest,omitempty" json:"rest,omitempty"`
	Rounds      int      `yaml:"rounds,omitempty" json:"rounds,omitempty"`
	Blocks      []Block  `yaml:"blocks,omitempty" json:"blocks,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Source      string   `yaml:"-" json:"source"` // file path or "builtin"
}

// Block is a repeated group of steps in a custom preset.
type Block struct {
	Repeat int         `yaml:"repeat" json:"repeat"`
	Steps  []BlockStep `yaml:"steps" json:"steps"`
}

// BlockStep is one step of a block. Duration is a Go duration string.
type BlockStep struct {
	Kind     models.StepKind `yaml:"kind" json:"kind"`
	Duration string          `yaml:"duration" json:"duration"`
}

// Definition builds the workout definition for p. defaultPrepare is used
// when the preset does not set its own prepare time.
func (p *Preset) Definition(defaultPrepare int) (models.WorkoutDefinition, error) {
	prepare := defaultPrepare
	if p.Prepare != "" {
		seconds, err := parseSeconds(p.Prepare)
		if err != nil {
			return models.WorkoutDefinition{}, fmt.Errorf("prepare: %w", err)
		}
		prepare = seconds
	}

	var def models.WorkoutDefinition
	switch p.Mode {
	case ModeCustom:
		rounds := make([]models.Round, 0, len(p.Blocks))
		for i, block := range p.Blocks {
			steps := make([]models.Step, 0, len(block.Steps))
			for j, step := range block.Steps {
				seconds, err := parseSeconds(step.Duration)
				if err != nil {
					return models.WorkoutDefinition{}, fmt.Errorf("block %d step %d: %w", i+1, j+1, err)
				}
				steps = append(steps, models.Step{Kind: step.Kind, DurationSeconds: seconds})
			}
			rounds = append(rounds, models.Round{Repeat: block.Repeat, Steps: steps})
		}
		def = models.NewWorkoutDefinition(rounds...)

	default:
		params, err := p.params()
		if err != nil {
			return models.WorkoutDefinition{}, err
		}
		def, err = Build(p.Mode, params)
		if err != nil {
			return models.WorkoutDefinition{}, err
		}
	}

	def.Name = p.Name
	def.PrepareSeconds = prepare
	return def, nil
}

func (p *Preset) params() (Params, error) {
	params := Params{Rounds: p.Rounds}
	if p.Work != "" {
		d, err := parseDuration(p.Work)
		if err != nil {
			return Params{}, fmt.Errorf("work: %w", err)
		}
		params.Work = d
	}
	if p.Rest != "" {
		d, err := parseDuration(p.Rest)
		if err != nil {
			return Params{}, fmt.Errorf("rest: %w", err)
		}
		params.Rest = d
	}
	return params, nil
}

// HasTag reports whether p carries tag, ignoring case.
func (p *Preset) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func parseDuration(value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", value)
	}
	return d, nil
}

func parseSeconds(value string) (int, error) {
	d, err := parseDuration(value)
	if err != nil {
		return 0, err
	}
	return Seconds(d), nil
}

// Seconds converts d to whole seconds, rounding to the nearest second.
func Seconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}
