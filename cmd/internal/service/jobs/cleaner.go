package jobs

import (
	"context"
	"livechat/cmd/internal/utils"
	"livechat/cmd/internal/websocket"
	"time"

	"github.com/labstack/gommon/log"
)

// SessionCleaner drops connections whose auth token expired while the
// socket stayed open. Dead peers are already reaped by ping/pong read
// deadlines; this sweep only covers live peers with lapsed sessions.
type SessionCleaner struct {
	hub    *websocket.Hub
	period time.Duration
}

func NewSessionCleaner(hub *websocket.Hub, period time.Duration) *SessionCleaner {
	return &SessionCleaner{hub: hub, period: period}
}

func (c *SessionCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	log.Info("Session cleaner cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping session cleaner...")
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *SessionCleaner) sweep() {
	now := utils.NowUTC()

	expired := 0
	for _, client := range c.hub.Clients() {
		if !client.Expired(now) {
			continue
		}
		expired++

		// Notify the client first (so they know NOT to reconnect with
		// the same token), then force the disconnect path.
		client.Kill()
	}

	if expired > 0 {
		log.Infof("Cleaner: terminated %d expired sessions", expired)
	}
}
