//go:build unix

package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchJobControl maps terminal job control onto the observer: SIGTSTP moves
// to StatePaused before the process stops itself, SIGCONT moves back to
// StateResumed. It returns when ctx is done.
func WatchJobControl(ctx context.Context, o *Observer) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTSTP, syscall.SIGCONT)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGTSTP:
				o.Update(StatePaused)
				if err := syscall.Kill(os.Getpid(), syscall.SIGSTOP); err != nil {
					o.logger.Warn().Err(err).Msg("failed to stop process")
				}
			case syscall.SIGCONT:
				o.Update(StateResumed)
			}
		}
	}
}
