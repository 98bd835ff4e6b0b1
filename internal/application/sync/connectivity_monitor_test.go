package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// scriptedProbe returns its results in sequence, repeating the last one.
type scriptedProbe struct {
	mu      stdsync.Mutex
	results []error
	idx     int
}

func (p *scriptedProbe) Check(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idx < len(p.results)-1 {
		err := p.results[p.idx]
		p.idx++
		return err
	}
	return p.results[len(p.results)-1]
}

func TestMonitor_FiresOncePerRestoration(t *testing.T) {
	down := errors.New("dial tcp: connection refused")
	probe := &scriptedProbe{results: []error{down, nil, nil, down, nil}}

	restores := 0
	m := NewConnectivityMonitor(probe, 0, func(context.Context) { restores++ }, zap.NewNop())

	ctx := context.Background()
	// drive the checks directly instead of waiting on the ticker
	m.check(ctx) // offline
	assert.False(t, m.IsOnline())
	m.check(ctx) // offline -> online: fires
	assert.True(t, m.IsOnline())
	m.check(ctx) // still online: no fire
	m.check(ctx) // online -> offline
	assert.False(t, m.IsOnline())
	m.check(ctx) // offline -> online: fires again

	assert.Equal(t, 2, restores)
}

func TestMonitor_StartsOffline(t *testing.T) {
	probe := &scriptedProbe{results: []error{nil}}
	fired := false
	m := NewConnectivityMonitor(probe, 0, func(context.Context) { fired = true }, zap.NewNop())

	assert.False(t, m.IsOnline())
	m.check(context.Background())
	assert.True(t, fired, "first successful probe drains the startup backlog")
}
