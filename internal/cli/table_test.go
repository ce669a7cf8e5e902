package cli

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/workouts"
)

func TestWritePlanTable(t *testing.T) {
	noColor = true
	t.Cleanup(func() { noColor = false })

	plan := buildPlan(models.WorkoutDefinition{
		PrepareSeconds: 10,
		Rounds: []models.Round{{
			Repeat: 2,
			Steps: []models.Step{
				{Kind: models.StepKindWork, DurationSeconds: 40},
				{Kind: models.StepKindRest, DurationSeconds: 20},
			},
		}},
	})

	var buf bytes.Buffer
	require.NoError(t, writePlanTable(&buf, plan))
	lines := strings.Split(buf.String(), "\n")

	require.True(t, strings.HasPrefix(lines[0], "#"))
	require.Contains(t, lines[0], "STARTS AT")
	require.Regexp(t, `^0\s+PREPARE\s+-\s+00:10\s+00:00`, lines[1])
	require.Regexp(t, `^3\s+WORK\s+2/2\s+00:40\s+01:10`, lines[4])
	require.Contains(t, buf.String(), "Rounds: 2  Total: 02:10  Work: 01:20  Rest: 00:40")
}

func TestWritePresetTable(t *testing.T) {
	presets := []*workouts.Preset{
		{Name: "tabata", Mode: workouts.ModeIntervals, Work: "20s", Rest: "10s", Rounds: 8, Tags: []string{"hiit", "short"}, Source: "builtin"},
		{Name: "broken", Mode: workouts.ModeIntervals, Work: "soon", Rounds: 1, Source: "/tmp/broken.yaml"},
	}

	var buf bytes.Buffer
	require.NoError(t, writePresetTable(&buf, presets))
	out := buf.String()
	require.Regexp(t, `tabata\s+intervals\s+4:10 \(8 rounds\)\s+hiit,short\s+yes`, out)
	require.Regexp(t, `broken\s+intervals\s+invalid\s+no`, out)
}

func TestFormatRound(t *testing.T) {
	require.Equal(t, "-", formatRound(0, 8))
	require.Equal(t, "3/8", formatRound(3, 8))
}

func TestHeadlessReason(t *testing.T) {
	t.Setenv("ROUNDS_NON_INTERACTIVE", "")
	require.NoError(t, os.Unsetenv("ROUNDS_NON_INTERACTIVE"))
	setOutputMode(t, false, false)

	nonInteractive = true
	require.Equal(t, "--non-interactive", headlessReason())
	nonInteractive = false
	t.Cleanup(func() { nonInteractive = false })

	setOutputMode(t, true, false)
	require.Equal(t, "--json", headlessReason())
	setOutputMode(t, false, true)
	require.Equal(t, "--jsonl", headlessReason())
	setOutputMode(t, false, false)

	t.Setenv("ROUNDS_NON_INTERACTIVE", "1")
	require.Equal(t, "ROUNDS_NON_INTERACTIVE is set", headlessReason())
	require.NoError(t, os.Unsetenv("ROUNDS_NON_INTERACTIVE"))

	t.Setenv("TERM", "dumb")
	require.Equal(t, "TERM=dumb", headlessReason())
	require.True(t, IsNonInteractive())
}

func stubProgress(t *testing.T, terminal bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevTerminal := progressOut, progressTerminal
	progressOut = &buf
	progressTerminal = func() bool { return terminal }
	t.Cleanup(func() {
		progressOut, progressTerminal = prevOut, prevTerminal
	})
	return &buf
}

func TestProgressOnTerminal(t *testing.T) {
	for _, name := range []string{"ROUNDS_NO_PROGRESS", "NO_PROGRESS"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	setOutputMode(t, false, false)
	buf := stubProgress(t, true)

	startProgress("Loading presets").Done()
	require.Regexp(t, `^Loading presets\.\.\. done \(.+\)\n$`, buf.String())

	buf.Reset()
	startProgress("Connecting keep-awake").Fail(errors.New("no bus"))
	require.Equal(t, "Connecting keep-awake... failed: no bus\n", buf.String())
}

func TestProgressSuppressed(t *testing.T) {
	buf := stubProgress(t, false)
	setOutputMode(t, false, false)
	step := startProgress("Loading presets")
	require.Nil(t, step)
	step.Done()

	stubProgress(t, true)
	setOutputMode(t, true, false)
	require.Nil(t, startProgress("Loading presets"))

	require.Empty(t, buf.String())
}
