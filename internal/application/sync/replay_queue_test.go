package sync

import (
	"context"
	"errors"
	"sort"
	stdsync "sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryWriteRepo is an insertion-ordered in-memory pending write store.
type memoryWriteRepo struct {
	mu     stdsync.Mutex
	writes []*outbox.PendingWrite
}

func (r *memoryWriteRepo) Save(_ context.Context, w *outbox.PendingWrite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.writes {
		if existing.ID == w.ID {
			r.writes[i] = w
			return nil
		}
	}
	r.writes = append(r.writes, w)
	return nil
}

func (r *memoryWriteRepo) FindPending(_ context.Context) ([]*outbox.PendingWrite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*outbox.PendingWrite, len(r.writes))
	copy(out, r.writes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryWriteRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.writes {
		if w.ID == id {
			r.writes = append(r.writes[:i], r.writes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryWriteRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.writes)), nil
}

// recordingRemote captures submissions in call order, optionally slow per
// payload or failing per path.
type recordingRemote struct {
	mu      stdsync.Mutex
	calls   []string
	latency map[string]time.Duration
	fail    map[string]error
}

func (m *recordingRemote) Submit(_ context.Context, method, path string, payload []byte, _ string) error {
	if d, ok := m.latency[string(payload)]; ok {
		time.Sleep(d)
	}
	m.mu.Lock()
	m.calls = append(m.calls, method+" "+path+" "+string(payload))
	m.mu.Unlock()
	if err, ok := m.fail[path]; ok {
		return err
	}
	return nil
}

type memoryIdem struct {
	mu        stdsync.Mutex
	confirmed map[string]bool
}

func newMemoryIdem() *memoryIdem { return &memoryIdem{confirmed: make(map[string]bool)} }

func (s *memoryIdem) IsConfirmed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed[key], nil
}

func (s *memoryIdem) MarkConfirmed(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed[key] = true
	return nil
}

func TestReplay_PreservesInsertionOrderUnderLatency(t *testing.T) {
	repo := &memoryWriteRepo{}
	remote := &recordingRemote{
		latency: map[string]time.Duration{`{"stock":9}`: 50 * time.Millisecond},
	}
	svc := NewReplayService(repo, remote, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Enqueue(ctx, "PUT", "/products/a", []byte(`{"stock":9}`))
	require.NoError(t, err)
	_, err = svc.Enqueue(ctx, "PUT", "/products/b", []byte(`{"stock":8}`))
	require.NoError(t, err)

	report := svc.OnConnectivityRestored(ctx)

	assert.Equal(t, 2, report.Succeeded)
	// the first write is slower than the second but must still land first;
	// a parallel or reversed drain would submit the cheap write ahead of it
	assert.Equal(t, []string{
		`PUT /products/a {"stock":9}`,
		`PUT /products/b {"stock":8}`,
	}, remote.calls)

	depth, err := svc.QueueDepth(ctx)
	require.NoError(t, err)
	assert.Zero(t, depth)
}

func TestReplay_FailedWriteStaysQueued(t *testing.T) {
	repo := &memoryWriteRepo{}
	remote := &recordingRemote{
		fail: map[string]error{"/orders": errors.New("gateway timeout")},
	}
	svc := NewReplayService(repo, remote, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Enqueue(ctx, "POST", "/orders", []byte(`{}`))
	require.NoError(t, err)
	_, err = svc.Enqueue(ctx, "PUT", "/customers/1", []byte(`{}`))
	require.NoError(t, err)

	report := svc.OnConnectivityRestored(ctx)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Succeeded)

	pending, err := repo.FindPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "/orders", pending[0].ResourcePath)
	assert.Equal(t, 1, pending[0].RetryCount)
	assert.Equal(t, "gateway timeout", pending[0].LastError)

	// next restoration event retries the same write
	remote.fail = nil
	report = svc.OnConnectivityRestored(ctx)
	assert.Equal(t, 1, report.Succeeded)
	depth, _ := repo.Count(ctx)
	assert.Zero(t, depth)
}

func TestReplay_ConfirmedWriteIsNotResubmitted(t *testing.T) {
	repo := &memoryWriteRepo{}
	remote := &recordingRemote{}
	idem := newMemoryIdem()
	svc := NewReplayService(repo, remote, idem, zap.NewNop())
	ctx := context.Background()

	w, err := svc.Enqueue(ctx, "POST", "/orders", []byte(`{"total":"10"}`))
	require.NoError(t, err)

	// simulate a success whose response was lost: the remote effect landed
	// but the write was never removed
	require.NoError(t, idem.MarkConfirmed(ctx, w.IdempotencyKey))

	report := svc.OnConnectivityRestored(ctx)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, remote.calls, "confirmed write must not be re-applied")

	depth, _ := repo.Count(ctx)
	assert.Zero(t, depth)
}

func TestReplay_EmptyQueueIsNoop(t *testing.T) {
	svc := NewReplayService(&memoryWriteRepo{}, &recordingRemote{}, nil, zap.NewNop())
	report := svc.OnConnectivityRestored(context.Background())
	assert.Zero(t, report.Attempted)
}
