package styles

import "testing"

func TestThemesDefineStepColors(t *testing.T) {
	for name, theme := range Themes {
		tokens := theme.Tokens
		if tokens.Work == "" || tokens.Rest == "" || tokens.Prepare == "" {
			t.Fatalf("theme %s is missing step colors", name)
		}
		if tokens.Work == tokens.Rest {
			t.Fatalf("theme %s uses the same color for work and rest", name)
		}
	}
}

func TestThemeByName(t *testing.T) {
	theme, ok := ThemeByName("high-contrast")
	if !ok || theme.Name != "high-contrast" {
		t.Fatalf("expected high-contrast theme, got %q (%v)", theme.Name, ok)
	}

	theme, ok = ThemeByName("neon")
	if ok || theme.Name != DefaultTheme.Name {
		t.Fatalf("expected fallback to default, got %q (%v)", theme.Name, ok)
	}
}
