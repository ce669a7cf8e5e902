package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/rounds/internal/clock"
	"github.com/opencode-ai/rounds/internal/engine"
	"github.com/opencode-ai/rounds/internal/lifecycle"
	"github.com/opencode-ai/rounds/internal/models"
)

func testModel(t *testing.T, def models.WorkoutDefinition) (model, *engine.Engine, *clock.Fake, *lifecycle.Observer) {
	t.Helper()
	fake := clock.NewFake(time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC))
	eng := engine.New(def, engine.WithClock(fake), engine.WithLogger(zerolog.Nop()))
	observer := lifecycle.NewObserver(eng, fake)
	m := newModel(Options{Engine: eng, Observer: observer})
	return m, eng, fake, observer
}

func intervals() models.WorkoutDefinition {
	return models.WorkoutDefinition{
		Name:           "intervals",
		PrepareSeconds: 0,
		Rounds: []models.Round{{Repeat: 2, Steps: []models.Step{
			{Kind: models.StepKindWork, DurationSeconds: 30},
			{Kind: models.StepKindRest, DurationSeconds: 10},
		}}},
	}
}

func press(m model, r rune) model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(model)
}

func TestToggleStartsAndPauses(t *testing.T) {
	m, eng, fake, _ := testModel(t, intervals())

	m = press(m, 's')
	require.Equal(t, models.StatusRunning, eng.Status())
	require.Contains(t, m.View(), "WORK")
	require.Contains(t, m.View(), "1 / 2")

	fake.Advance(5 * time.Second)
	next, cmd := m.Update(tickMsg(fake.Now()))
	m = next.(model)
	require.NotNil(t, cmd)
	require.Contains(t, m.View(), "00:25")

	m = press(m, 's')
	require.Equal(t, models.StatusPaused, eng.Status())
	require.Contains(t, m.View(), "Paused")
}

func TestFinishShowsResults(t *testing.T) {
	m, eng, _, _ := testModel(t, intervals())

	m = press(m, 's')
	m = press(m, 'f')
	require.Equal(t, models.StatusFinished, eng.Status())

	view := m.View()
	require.Contains(t, view, "ended early")
	require.Contains(t, view, "1 / 2")
}

func TestFinishedMsgUpdatesView(t *testing.T) {
	m, eng, fake, _ := testModel(t, intervals())

	m = press(m, 's')
	fake.Advance(80 * time.Second)

	next, _ := m.Update(FinishedMsg{Snapshot: eng.Snapshot()})
	m = next.(model)
	require.Contains(t, m.View(), "Workout complete")
}

func TestResetReturnsToIdle(t *testing.T) {
	m, eng, fake, _ := testModel(t, intervals())

	m = press(m, 's')
	fake.Advance(40 * time.Second)
	m = press(m, 'r')
	require.Equal(t, models.StatusIdle, eng.Status())
	require.Contains(t, m.View(), "Ready")
}

func TestSuspendAndResume(t *testing.T) {
	m, eng, fake, observer := testModel(t, intervals())

	m = press(m, 's')
	fake.Advance(5 * time.Second)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	m = next.(model)
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.SuspendMsg)
	require.True(t, ok)
	require.Equal(t, lifecycle.StatePaused, observer.State())
	require.True(t, eng.Suspended())

	fake.Advance(time.Minute)
	next, _ = m.Update(tea.ResumeMsg{})
	m = next.(model)
	require.Equal(t, lifecycle.StateResumed, observer.State())
	require.Equal(t, 25, m.snap.RemainingSeconds)
}

func TestBlurKeepsTimerRunning(t *testing.T) {
	m, eng, _, observer := testModel(t, intervals())

	m = press(m, 's')
	next, _ := m.Update(tea.BlurMsg{})
	m = next.(model)
	require.Equal(t, lifecycle.StateInactive, observer.State())
	require.False(t, eng.Suspended())

	next, _ = m.Update(tea.FocusMsg{})
	_ = next.(model)
	require.Equal(t, lifecycle.StateResumed, observer.State())
}

func TestDegenerateWorkoutView(t *testing.T) {
	m, eng, _, _ := testModel(t, models.WorkoutDefinition{PrepareSeconds: 10})

	m = press(m, 's')
	require.Equal(t, models.StatusIdle, eng.Status())
	require.Contains(t, m.View(), "Nothing to time")
	require.False(t, m.keys.Toggle.Enabled())
}

func TestQuit(t *testing.T) {
	m, _, _, _ := testModel(t, intervals())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}

func TestSmallTerminal(t *testing.T) {
	m, _, _, _ := testModel(t, intervals())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	view := next.(model).View()
	require.True(t, strings.Contains(view, "Terminal too small"))
}

func TestAutoStart(t *testing.T) {
	fake := clock.NewFake(time.Now())
	eng := engine.New(intervals(), engine.WithClock(fake), engine.WithLogger(zerolog.Nop()))
	m := newModel(Options{Engine: eng, AutoStart: true})

	require.NotNil(t, m.Init())
	msg := startCmd(eng)()
	next, _ := m.Update(msg)
	require.Equal(t, models.StatusRunning, next.(model).snap.Status)
}
