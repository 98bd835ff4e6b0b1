package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Probe checks remote reachability. A nil error means online.
type Probe interface {
	Check(ctx context.Context) error
}

// ConnectivityMonitor polls a reachability probe and fires the restore
// callback exactly once per offline-to-online transition. The terminal
// starts in the offline state, so the first successful probe triggers a
// drain of anything queued while the process was down.
type ConnectivityMonitor struct {
	probe     Probe
	interval  time.Duration
	onRestore func(ctx context.Context)
	logger    *zap.Logger

	online atomic.Bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConnectivityMonitor creates a monitor. onRestore runs on the monitor
// goroutine; it must not block forever.
func NewConnectivityMonitor(probe Probe, interval time.Duration, onRestore func(ctx context.Context), logger *zap.Logger) *ConnectivityMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &ConnectivityMonitor{
		probe:     probe,
		interval:  interval,
		onRestore: onRestore,
		logger:    logger,
	}
}

// IsOnline reports the last observed reachability state.
func (m *ConnectivityMonitor) IsOnline() bool {
	return m.online.Load()
}

// Start begins polling in the background.
func (m *ConnectivityMonitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go m.loop(ctx)

	m.logger.Info("connectivity monitor started", zap.Duration("interval", m.interval))
}

// Stop stops polling and waits for the loop to exit.
func (m *ConnectivityMonitor) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("connectivity monitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *ConnectivityMonitor) loop(ctx context.Context) {
	defer m.wg.Done()

	// probe immediately so a healthy start does not wait one interval
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check runs one probe and fires the restore callback on an offline→online
// edge.
func (m *ConnectivityMonitor) check(ctx context.Context) {
	err := m.probe.Check(ctx)
	nowOnline := err == nil
	wasOnline := m.online.Swap(nowOnline)

	switch {
	case nowOnline && !wasOnline:
		m.logger.Info("connectivity restored")
		if m.onRestore != nil {
			m.onRestore(ctx)
		}
	case !nowOnline && wasOnline:
		m.logger.Warn("connectivity lost", zap.Error(err))
	}
}
