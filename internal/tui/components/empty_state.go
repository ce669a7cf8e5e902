package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/rounds/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Icon is an optional icon to display.
	Icon string
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Suggestions are commands the user can run instead.
	Suggestions []Suggestion
}

// Suggestion represents a suggested command with description.
type Suggestion struct {
	// Command is the CLI command to run (e.g., "rounds run tabata").
	Command string
	// Description explains what the command does.
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var lines []string

	titleLine := e.Title
	if e.Icon != "" {
		titleLine = e.Icon + "  " + titleLine
	}
	lines = append(lines, styleSet.Muted.Render(titleLine))

	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		lines = append(lines, styleSet.Text.Render("Try:"))
		for _, s := range e.Suggestions {
			cmdLine := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				cmdLine += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, cmdLine)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders a compact single-line empty state.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.Title
	if e.Icon != "" {
		line = e.Icon + " " + line
	}
	if len(e.Suggestions) > 0 {
		line += fmt.Sprintf(" Try: %s", e.Suggestions[0].Command)
	}
	return styleSet.Muted.Render(line)
}

// EmptyWorkout returns the state shown for a workout that cannot start.
func EmptyWorkout() EmptyState {
	return EmptyState{
		Title:    "Nothing to time",
		Subtitle: "The workout needs at least one round with a non-zero duration.",
		Suggestions: []Suggestion{
			{Command: "rounds run --mode intervals --work 30s --rest 15s --rounds 8", Description: "time an interval workout"},
			{Command: "rounds presets list", Description: "browse bundled presets"},
		},
	}
}

// EmptyPresetsFiltered returns the state shown when a tag filter matches
// no presets.
func EmptyPresetsFiltered(tags []string) EmptyState {
	return EmptyState{
		Title:    fmt.Sprintf("No presets tagged %s", strings.Join(tags, ", ")),
		Subtitle: "Presets are read from .rounds/presets and ~/.config/rounds/presets.",
		Suggestions: []Suggestion{
			{Command: "rounds presets list", Description: "show every preset"},
		},
	}
}
