package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PendingWrite represents one local mutation that has not yet been
// confirmed by the remote API. It is created when a write happens while
// offline and deleted once a replay succeeds. A permanently failing write
// stays queued; RetryCount and LastError exist for observability only.
// There is no dead-letter state.
type PendingWrite struct {
	ID             uuid.UUID
	ResourcePath   string
	Method         string
	Payload        []byte
	IdempotencyKey string
	RetryCount     int
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPendingWrite creates a pending write with a fresh idempotency key so
// replays are safe under at-least-once delivery.
func NewPendingWrite(method, resourcePath string, payload []byte) *PendingWrite {
	now := time.Now()
	return &PendingWrite{
		ID:             uuid.New(),
		ResourcePath:   resourcePath,
		Method:         method,
		Payload:        payload,
		IdempotencyKey: uuid.NewString(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MarkFailed records a failed replay attempt. The write stays queued for
// the next connectivity-restoration event.
func (w *PendingWrite) MarkFailed(errMsg string) {
	w.RetryCount++
	w.LastError = errMsg
	w.UpdatedAt = time.Now()
}

// Repository persists pending writes in the local mirror store.
type Repository interface {
	// Save appends or updates a pending write.
	Save(ctx context.Context, write *PendingWrite) error
	// FindPending returns all queued writes in insertion order.
	FindPending(ctx context.Context) ([]*PendingWrite, error)
	// Delete removes a successfully replayed write.
	Delete(ctx context.Context, id uuid.UUID) error
	// Count returns the queue depth.
	Count(ctx context.Context) (int64, error)
}
