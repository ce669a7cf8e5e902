// Package tui implements the rounds terminal user interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/rounds/internal/engine"
	"github.com/opencode-ai/rounds/internal/lifecycle"
	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/tui/components"
	"github.com/opencode-ai/rounds/internal/tui/styles"
)

// Options configures the TUI.
type Options struct {
	Engine   *engine.Engine
	Observer *lifecycle.Observer
	Notifier *Notifier
	Styles   styles.Styles
	// Title defaults to the workout name.
	Title string
	// AutoStart starts the workout when the program starts.
	AutoStart bool
}

// Run launches the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.Engine == nil {
		return fmt.Errorf("engine is required")
	}

	program := tea.NewProgram(newModel(opts),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if opts.Notifier != nil {
		opts.Notifier.Attach(program)
	}
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type model struct {
	engine    *engine.Engine
	observer  *lifecycle.Observer
	styles    styles.Styles
	keys      keyMap
	help      help.Model
	progress  progress.Model
	title     string
	autoStart bool
	startable bool
	snap      engine.Snapshot
	width     int
	height    int
}

const (
	minWidth        = 40
	minHeight       = 12
	refreshInterval = 100 * time.Millisecond
)

func newModel(opts Options) model {
	styleSet := opts.Styles
	if styleSet.Theme.Name == "" {
		styleSet = styles.DefaultStyles()
	}

	title := opts.Title
	if title == "" {
		title = opts.Engine.Definition().Name
	}
	if title == "" {
		title = "workout"
	}

	bar := progress.New(progress.WithoutPercentage())
	bar.Width = 40
	bar.EmptyColor = styleSet.Theme.Tokens.Border

	m := model{
		engine:    opts.Engine,
		observer:  opts.Observer,
		styles:    styleSet,
		keys:      defaultKeyMap(),
		help:      help.New(),
		progress:  bar,
		title:     title,
		autoStart: opts.AutoStart,
		startable: opts.Engine.Startable(),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	if m.autoStart {
		return tea.Batch(startCmd(m.engine), tickCmd())
	}
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(60, max(10, msg.Width-8))
	case tea.ResumeMsg:
		m.setLifecycle(lifecycle.StateResumed)
		m.refresh()
	case tea.BlurMsg:
		if m.observer != nil && m.observer.State() == lifecycle.StateResumed {
			m.observer.Update(lifecycle.StateInactive)
		}
	case tea.FocusMsg:
		if m.observer != nil && m.observer.State() == lifecycle.StateInactive {
			m.observer.Update(lifecycle.StateResumed)
		}
	case FinishedMsg:
		m.snap = msg.Snapshot
		m.keys.sync(m.snap, m.startable)
	case StepChangedMsg:
		m.refresh()
	case startedMsg:
		m.refresh()
	case tickMsg:
		m.refresh()
		return m, tickCmd()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		if m.snap.Status == models.StatusRunning {
			m.engine.Pause()
		} else {
			m.engine.Start()
		}
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
	case key.Matches(msg, m.keys.Finish):
		m.engine.Finish()
	case key.Matches(msg, m.keys.Suspend):
		m.setLifecycle(lifecycle.StatePaused)
		m.refresh()
		return m, tea.Suspend
	}
	m.refresh()
	return m, nil
}

func (m *model) setLifecycle(state lifecycle.State) {
	if m.observer != nil {
		m.observer.Update(state)
	}
}

func (m *model) refresh() {
	m.snap = m.engine.Snapshot()
	m.keys.sync(m.snap, m.startable)
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", joinLines(m.smallViewLines()))
		}
	}

	lines := []string{
		fmt.Sprintf("%s  %s",
			m.styles.Title.Render("rounds · "+m.title),
			components.RenderStatusBadge(m.styles, m.snap.Status, m.snap.Suspended)),
		"",
	}

	switch {
	case !m.startable:
		lines = append(lines, components.EmptyWorkout().Render(m.styles))
	case m.snap.Finished():
		lines = append(lines, components.RenderResults(m.styles, m.snap))
	default:
		lines = append(lines, m.timerLines()...)
	}

	lines = append(lines, "", m.help.View(m.keys))
	return fmt.Sprintf("%s\n", joinLines(lines))
}

func (m model) timerLines() []string {
	snap := m.snap

	bar := m.progress
	bar.FullColor = components.StepColor(m.styles, snap.Step.Kind)

	lines := []string{
		components.RenderStepLabel(m.styles, snap.Step.Kind),
		m.styles.Clock.Render(snap.RemainingClock()),
		bar.ViewAs(snap.ProgressPercent / 100),
		"",
		fmt.Sprintf("%s %s   %s %s   %s %s",
			m.styles.Muted.Render("Round"),
			m.styles.Text.Render(m.roundLabel()),
			m.styles.Muted.Render("Elapsed"),
			m.styles.Text.Render(snap.ElapsedClock()),
			m.styles.Muted.Render("Work"),
			m.styles.Text.Render(snap.ElapsedWorkClock())),
	}
	if snap.HasNext {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("Next: %s %s",
			strings.ToLower(snap.Next.Kind.Label()),
			models.FormatClock(snap.Next.DurationSeconds))))
	}
	return lines
}

func (m model) roundLabel() string {
	if m.snap.Round == 0 {
		return fmt.Sprintf("- / %d", m.snap.TotalRounds)
	}
	return fmt.Sprintf("%d / %d", m.snap.Round, m.snap.TotalRounds)
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Text.Render(fmt.Sprintf("%s %s", m.snap.Step.Kind.Label(), m.snap.RemainingClock())),
	}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type startedMsg struct{}

func startCmd(e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		e.Start()
		return startedMsg{}
	}
}
