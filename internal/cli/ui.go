package cli

import (
	"context"
	"os"

	"golang.org/x/term"

	"github.com/opencode-ai/rounds/internal/tui"
	"github.com/opencode-ai/rounds/internal/tui/styles"
)

func runTUI(ctx context.Context, s *session, autoStart bool) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "the full-screen timer requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use --jsonl",
			NextStep: "rounds run --non-interactive",
		}
	}

	theme, ok := styles.ThemeByName(GetConfig().TUI.Theme)
	if !ok {
		logger().Warn().Str("theme", GetConfig().TUI.Theme).Msg("unknown theme, using default")
	}

	err := tui.Run(ctx, tui.Options{
		Engine:    s.engine,
		Observer:  s.observer,
		Notifier:  s.notifier,
		Styles:    styles.BuildStyles(theme),
		AutoStart: autoStart,
	})
	// Quitting mid-workout leaves nothing holding the display awake.
	s.engine.Reset()
	return err
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
