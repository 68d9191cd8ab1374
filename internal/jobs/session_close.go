package jobs

import (
	"context"
	"log"
	"time"

	"github.com/zaqqye/attendance_backend/internal/config"
	"github.com/zaqqye/attendance_backend/internal/metrics"
	"github.com/zaqqye/attendance_backend/internal/store"
	"github.com/zaqqye/attendance_backend/internal/ws"
)

func StartSessionCloseJob(ctx context.Context, cfg *config.Config, st *store.Store, hub *ws.Hub) {
	if !cfg.SessionCloseJobEnabled {
		return
	}
	interval := cfg.SessionCloseJobInterval
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := cfg.SessionCloseJobTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				n, err := closeExpired(tickCtx, st, hub, time.Now().UTC())
				cancel()
				if err != nil {
					log.Printf("session close job error: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("session close job closed %d sessions", n)
				}
			}
		}
	}()
}

// closeExpired closes due sessions and tells their watchers.
func closeExpired(ctx context.Context, st *store.Store, hub *ws.Hub, now time.Time) (int, error) {
	closed, err := st.CloseExpiredSessions(ctx, now)
	if err != nil {
		return 0, err
	}
	metrics.SessionsClosed(len(closed))
	for i := range closed {
		hub.Broadcast(closed[i].ID, ws.EventSessionUpdated, closed[i])
	}
	return len(closed), nil
}
