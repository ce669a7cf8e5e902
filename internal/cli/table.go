package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/workouts"
)

const tablePadding = 2

// writeTable aligns cells on tabs. Colored cells must share one visible width
// per column (formatStepKind pads before coloring) so escape bytes line up.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', 0)
	if len(headers) > 0 {
		fmt.Fprintln(writer, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, strings.Join(row, "\t"))
	}
	return writer.Flush()
}

func writePlanTable(out io.Writer, plan planOutput) error {
	rows := make([][]string, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		rows = append(rows, []string{
			strconv.Itoa(step.Index),
			formatStepKind(step.Kind),
			formatRound(step.Round, plan.TotalRounds),
			models.FormatClock(step.DurationSeconds),
			models.FormatClock(step.StartsAtSeconds),
		})
	}
	if err := writeTable(out, []string{"#", "STEP", "ROUND", "DURATION", "STARTS AT"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\nRounds: %d  Total: %s  Work: %s  Rest: %s\n",
		plan.TotalRounds,
		models.FormatClock(plan.TotalSeconds),
		models.FormatClock(plan.WorkSeconds),
		models.FormatClock(plan.RestSeconds))
	return err
}

func writePresetTable(out io.Writer, presets []*workouts.Preset) error {
	rows := make([][]string, 0, len(presets))
	for _, preset := range presets {
		rows = append(rows, []string{
			preset.Name,
			string(preset.Mode),
			formatPresetLength(preset),
			strings.Join(preset.Tags, ","),
			formatYesNo(preset.Source == "builtin"),
		})
	}
	return writeTable(out, []string{"NAME", "MODE", "LENGTH", "TAGS", "BUILTIN"}, rows)
}

// formatRound renders "-" for the prepare step and "n/total" otherwise.
func formatRound(round, total int) string {
	if round <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", round, total)
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
