//go:build !unix

package lifecycle

import "context"

// WatchJobControl is a no-op on platforms without job control.
func WatchJobControl(ctx context.Context, o *Observer) {
	<-ctx.Done()
}
