package orchestrators

import (
	"context"
	"log/slog"
	"time"
)

// StartRefreshWorker refreshes the desk every interval until stopCh is closed.
// PRE: interval > 0
// POST: Worker runs until stopCh is closed; each cycle gets its own timeout
func StartRefreshWorker(desk *Desk, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				desk.Refresh(ctx)
				cancel()
			case <-stopCh:
				slog.Info("refresh_worker_stopped")
				return
			}
		}
	}()
}
