package models

// Status is the lifecycle state of the timer engine.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// Active reports whether a workout is in progress (running or paused).
func (s Status) Active() bool {
	return s == StatusRunning || s == StatusPaused
}
