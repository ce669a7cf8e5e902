package cli

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/rounds/internal/models"
)

func formatStatus(status models.Status) string {
	label, color := statusLabel(status)
	return colorize(formatStatusLabel(label, string(status)), color)
}

func formatStepKind(kind models.StepKind) string {
	return colorize(fmt.Sprintf("%-7s", kind.Label()), stepColor(kind))
}

func statusLabel(status models.Status) (string, string) {
	switch status {
	case models.StatusRunning:
		return "BUSY", colorCyan
	case models.StatusPaused:
		return "WAIT", colorYellow
	case models.StatusFinished:
		return "OK", colorGreen
	default:
		return "-", ""
	}
}

func stepColor(kind models.StepKind) string {
	switch kind {
	case models.StepKindWork:
		return colorRed
	case models.StepKindRest:
		return colorGreen
	case models.StepKindPrepare:
		return colorYellow
	default:
		return ""
	}
}

func formatStatusLabel(label, status string) string {
	normalized := strings.TrimSpace(status)
	if normalized != "" {
		normalized = strings.ReplaceAll(normalized, "_", " ")
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}
