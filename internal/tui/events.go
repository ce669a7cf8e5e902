package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/rounds/internal/engine"
)

// FinishedMsg is delivered once when the workout completes.
type FinishedMsg struct {
	Snapshot engine.Snapshot
}

// StepChangedMsg is delivered on every visible step transition.
type StepChangedMsg struct {
	Snapshot engine.Snapshot
}

// Notifier bridges engine callbacks to a running program. Register its
// methods with engine.OnFinish and engine.OnStepChange, then Attach the
// program before running it.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach sets the program that receives messages.
func (n *Notifier) Attach(program *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = program
}

// Finished forwards the completion notification.
func (n *Notifier) Finished(snap engine.Snapshot) {
	n.send(FinishedMsg{Snapshot: snap})
}

// StepChanged forwards a step transition.
func (n *Notifier) StepChanged(snap engine.Snapshot) {
	n.send(StepChangedMsg{Snapshot: snap})
}

// send must not block; engine callbacks can fire from inside Update.
func (n *Notifier) send(msg tea.Msg) {
	n.mu.Lock()
	program := n.program
	n.mu.Unlock()
	if program != nil {
		go program.Send(msg)
	}
}
