package cli

import (
	"os"
	"strings"
)

// headlessReason returns why `run` must print step lines instead of drawing
// the full-screen timer, or "" when the timer can take over the terminal.
// Explicit flags win over the environment, which wins over TTY detection.
func headlessReason() string {
	switch {
	case nonInteractive:
		return "--non-interactive"
	case IsJSONOutput():
		return "--json"
	case IsJSONLOutput():
		return "--jsonl"
	}
	if _, ok := os.LookupEnv("ROUNDS_NON_INTERACTIVE"); ok {
		return "ROUNDS_NON_INTERACTIVE is set"
	}
	if strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return "TERM=dumb"
	}
	if !hasTTY() {
		return "stdin or stdout is not a terminal"
	}
	return ""
}

// IsNonInteractive reports whether the full-screen timer must not be used.
func IsNonInteractive() bool {
	return headlessReason() != ""
}
