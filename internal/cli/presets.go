package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/rounds/internal/tui/components"
	"github.com/opencode-ai/rounds/internal/workouts"
)

var presetsListTags []string

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)

	presetsListCmd.Flags().StringSliceVar(&presetsListTags, "tag", nil, "filter by tag (repeatable)")
}

var presetsCmd = &cobra.Command{
	Use:     "presets",
	Aliases: []string{"preset"},
	Short:   "Manage workout presets",
	Long: `Workout presets are YAML files searched in order:

  --config presets.dirs entries
  ./.rounds/presets
  ~/.config/rounds/presets
  /usr/share/rounds/presets
  built-in presets

The first preset with a given name wins.`,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available presets",
	Example: `  rounds presets list
  rounds presets list --tag hiit --tag strength`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := loadPresets(GetConfig())
		if err != nil {
			return err
		}
		presets = workouts.FilterPresets(presets, presetsListTags)

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, presets)
		}

		if len(presets) == 0 {
			if len(presetsListTags) > 0 {
				empty := components.EmptyPresetsFiltered(presetsListTags)
				fmt.Println(empty.Title)
				fmt.Println(empty.Subtitle)
			} else {
				fmt.Println("No presets found.")
			}
			return nil
		}

		return writePresetTable(os.Stdout, presets)
	},
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := loadPresets(GetConfig())
		if err != nil {
			return err
		}
		preset, err := workouts.FindPreset(presets, args[0])
		if err != nil {
			if errors.Is(err, workouts.ErrPresetNotFound) {
				return &PreflightError{
					Message:  fmt.Sprintf("preset %q not found", args[0]),
					NextStep: "rounds presets list",
				}
			}
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, preset)
		}

		fmt.Printf("Name:        %s\n", preset.Name)
		if preset.Description != "" {
			fmt.Printf("Description: %s\n", preset.Description)
		}
		fmt.Printf("Mode:        %s\n", preset.Mode)
		fmt.Printf("Length:      %s\n", formatPresetLength(preset))
		if len(preset.Tags) > 0 {
			fmt.Printf("Tags:        %s\n", strings.Join(preset.Tags, ", "))
		}
		fmt.Printf("Source:      %s\n", preset.Source)
		fmt.Printf("\nRun it with: rounds run %s\n", preset.Name)
		return nil
	},
}

func formatPresetLength(preset *workouts.Preset) string {
	def, err := preset.Definition(GetConfig().Timer.PrepareSeconds)
	if err != nil {
		return "invalid"
	}
	plan := buildPlan(def)
	return fmt.Sprintf("%s (%d rounds)", formatSeconds(plan.TotalSeconds), plan.TotalRounds)
}

func formatSeconds(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%dh%02dm", seconds/3600, (seconds%3600)/60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
