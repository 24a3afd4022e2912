package conn

import (
	"context"
	"time"
)

// DefaultProbeInterval is how often the health prober pings the server.
const DefaultProbeInterval = 30 * time.Second

// RunHealthProbe pings the established session on a fixed interval until ctx
// is cancelled. Probe results only flip the Healthy flag in Status; a failed
// ping never tears down the session or triggers a reconnect, that is left to
// real call failures.
func (m *Manager) RunHealthProbe(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(interval):
		}
		m.probeOnce(ctx)
	}
}

func (m *Manager) probeOnce(ctx context.Context) {
	m.mu.Lock()
	session := m.session
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || session == nil {
		m.setHealthy(false)
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := session.Ping(pingCtx)
	cancel()

	if err != nil {
		m.logger.Warn("health probe failed", "error", err)
		m.setHealthy(false)
		return
	}
	m.setHealthy(true)
}

func (m *Manager) setHealthy(ok bool) {
	m.mu.Lock()
	m.healthy = ok
	m.mu.Unlock()
}
