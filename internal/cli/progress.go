package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

var (
	// progressOut receives setup progress lines. Step lines and summaries go
	// to stdout, so progress stays on stderr.
	progressOut io.Writer = os.Stderr

	progressTerminal = func() bool {
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
)

// setupStep reports one slow setup phase ("Loading presets... done (12ms)").
type setupStep struct {
	label   string
	started time.Time
}

// startProgress returns nil when progress is disabled; the methods accept a
// nil receiver.
func startProgress(label string) *setupStep {
	if !progressEnabled() {
		return nil
	}
	fmt.Fprintf(progressOut, "%s... ", label)
	return &setupStep{label: label, started: time.Now()}
}

func (p *setupStep) Done() {
	if p == nil {
		return
	}
	fmt.Fprintf(progressOut, "done (%s)\n", formatDuration(time.Since(p.started)))
}

func (p *setupStep) Fail(err error) {
	if p == nil {
		return
	}
	if err != nil {
		fmt.Fprintf(progressOut, "failed: %v\n", err)
		return
	}
	fmt.Fprintln(progressOut, "failed")
}

// progressEnabled is false for machine output, when disabled by flag or
// environment, and when stderr is not a terminal.
func progressEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() || noProgress {
		return false
	}
	for _, name := range []string{"ROUNDS_NO_PROGRESS", "NO_PROGRESS"} {
		if _, ok := os.LookupEnv(name); ok {
			return false
		}
	}
	return progressTerminal()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
