package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme          Theme
	Title          lipgloss.Style
	Text           lipgloss.Style
	Muted          lipgloss.Style
	Accent         lipgloss.Style
	Panel          lipgloss.Style
	Border         lipgloss.Style
	Focus          lipgloss.Style
	Success        lipgloss.Style
	Warning        lipgloss.Style
	Error          lipgloss.Style
	Info           lipgloss.Style
	Clock          lipgloss.Style
	StatusIdle     lipgloss.Style
	StatusRunning  lipgloss.Style
	StatusPaused   lipgloss.Style
	StatusFinished lipgloss.Style
	StepWork       lipgloss.Style
	StepRest       lipgloss.Style
	StepPrepare    lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens

	return Styles{
		Theme:          theme,
		Title:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Bold(true),
		Text:           lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)),
		Muted:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		Accent:         lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)),
		Panel:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Background(lipgloss.Color(tokens.Panel)).BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(tokens.Border)),
		Border:         lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Border)),
		Focus:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Focus)).Bold(true),
		Success:        lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		Warning:        lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
		Info:           lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Info)),
		Clock:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Bold(true).Padding(0, 2),
		StatusIdle:     lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		StatusRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		StatusPaused:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)),
		StatusFinished: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Info)),
		StepWork:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Work)).Bold(true),
		StepRest:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Rest)).Bold(true),
		StepPrepare:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Prepare)).Bold(true),
	}
}
