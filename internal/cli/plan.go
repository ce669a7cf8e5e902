package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/sequence"
)

var planFlags workoutFlags

func init() {
	rootCmd.AddCommand(planCmd)
	planFlags.register(planCmd)
}

type planStep struct {
	Index           int             `json:"index"`
	Kind            models.StepKind `json:"kind"`
	Round           int             `json:"round"`
	DurationSeconds int             `json:"duration_seconds"`
	StartsAtSeconds int             `json:"starts_at_seconds"`
}

type planOutput struct {
	Name         string     `json:"name,omitempty"`
	TotalRounds  int        `json:"total_rounds"`
	TotalSeconds int        `json:"total_seconds"`
	WorkSeconds  int        `json:"work_seconds"`
	RestSeconds  int        `json:"rest_seconds"`
	Steps        []planStep `json:"steps"`
}

var planCmd = &cobra.Command{
	Use:   "plan [preset]",
	Short: "Show the steps of a workout without running it",
	Example: `  rounds plan tabata
  rounds plan --mode intervals --work 40s --rest 20s --rounds 3 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := resolveWorkout(cmd, args, &planFlags, GetConfig())
		if err != nil {
			return err
		}

		plan := buildPlan(def)
		if IsJSONOutput() {
			return WriteOutput(os.Stdout, plan)
		}
		if IsJSONLOutput() {
			return WriteOutput(os.Stdout, plan.Steps)
		}

		if plan.Name != "" {
			fmt.Printf("%s\n\n", plan.Name)
		}
		return writePlanTable(os.Stdout, plan)
	},
}

func buildPlan(def models.WorkoutDefinition) planOutput {
	seq := sequence.Build(def)
	plan := planOutput{
		Name:         def.Name,
		TotalRounds:  seq.TotalRounds(),
		TotalSeconds: seq.TotalSeconds(),
		Steps:        make([]planStep, 0, seq.Len()),
	}

	at := 0
	for i, entry := range seq.Entries() {
		plan.Steps = append(plan.Steps, planStep{
			Index:           i,
			Kind:            entry.Step.Kind,
			Round:           entry.Round,
			DurationSeconds: entry.Step.DurationSeconds,
			StartsAtSeconds: at,
		})
		at += entry.Step.DurationSeconds
		switch entry.Step.Kind {
		case models.StepKindWork:
			plan.WorkSeconds += entry.Step.DurationSeconds
		case models.StepKindRest:
			plan.RestSeconds += entry.Step.DurationSeconds
		}
	}
	return plan
}
