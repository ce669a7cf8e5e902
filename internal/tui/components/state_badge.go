// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/tui/styles"
)

// RenderStatusBadge renders a timer status with icon and color. A suspended
// run is shown as held rather than running.
func RenderStatusBadge(styleSet styles.Styles, status models.Status, suspended bool) string {
	icon, label, style := statusDescriptor(styleSet, status, suspended)
	return style.Render(fmt.Sprintf("%s %s", icon, label))
}

func statusDescriptor(styleSet styles.Styles, status models.Status, suspended bool) (string, string, lipgloss.Style) {
	switch status {
	case models.StatusRunning:
		if suspended {
			return "~", "Held", styleSet.Info
		}
		return ">", "Running", styleSet.StatusRunning
	case models.StatusPaused:
		return "||", "Paused", styleSet.StatusPaused
	case models.StatusFinished:
		return "OK", "Finished", styleSet.StatusFinished
	case models.StatusIdle:
		return "-", "Ready", styleSet.StatusIdle
	default:
		return "-", normalizeLabel(string(status)), styleSet.Muted
	}
}

// StepStyle returns the color for a step kind.
func StepStyle(styleSet styles.Styles, kind models.StepKind) lipgloss.Style {
	switch kind {
	case models.StepKindWork:
		return styleSet.StepWork
	case models.StepKindRest:
		return styleSet.StepRest
	case models.StepKindPrepare:
		return styleSet.StepPrepare
	default:
		return styleSet.Muted
	}
}

// RenderStepLabel renders the upper-cased step kind in its color.
func RenderStepLabel(styleSet styles.Styles, kind models.StepKind) string {
	return StepStyle(styleSet, kind).Render(kind.Label())
}

// StepColor returns the raw color token for a step kind.
func StepColor(styleSet styles.Styles, kind models.StepKind) string {
	tokens := styleSet.Theme.Tokens
	switch kind {
	case models.StepKindWork:
		return tokens.Work
	case models.StepKindRest:
		return tokens.Rest
	case models.StepKindPrepare:
		return tokens.Prepare
	default:
		return tokens.Accent
	}
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return "Unknown"
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
