package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/rounds/internal/engine"
	"github.com/opencode-ai/rounds/internal/tui/styles"
)

// RenderResults renders the summary shown once a workout is finished.
func RenderResults(styleSet styles.Styles, snap engine.Snapshot) string {
	title := "Workout complete"
	if snap.Early {
		title = "Workout ended early"
	}

	rows := [][2]string{
		{"Rounds", fmt.Sprintf("%d / %d", snap.Round, snap.TotalRounds)},
		{"Elapsed", snap.ElapsedClock()},
		{"Work", snap.ElapsedWorkClock()},
	}

	lines := []string{styleSet.Title.Render(title), ""}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s",
			styleSet.Muted.Render(fmt.Sprintf("%-8s", row[0])),
			styleSet.Text.Render(row[1])))
	}
	return strings.Join(lines, "\n")
}
