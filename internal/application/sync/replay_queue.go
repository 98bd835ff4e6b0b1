package sync

import (
	"context"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/outbox"
	"go.uber.org/zap"
)

// RemoteSubmitter submits one queued write to the remote API. The
// idempotency key makes replay safe when a success response was lost after
// the remote mutation committed.
type RemoteSubmitter interface {
	Submit(ctx context.Context, method, path string, payload []byte, idempotencyKey string) error
}

// IdempotencyStore remembers keys whose remote effect is known committed.
type IdempotencyStore interface {
	IsConfirmed(ctx context.Context, key string) (bool, error)
	MarkConfirmed(ctx context.Context, key string) error
}

// DrainReport summarizes one replay pass.
type DrainReport struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
}

// ReplayService owns the offline replay queue: local writes are appended
// durably while offline and drained against the remote API when
// connectivity returns. Draining is strictly sequential so writes against
// the same resource are never reordered.
type ReplayService struct {
	repo   outbox.Repository
	remote RemoteSubmitter
	idem   IdempotencyStore // optional
	logger *zap.Logger
}

// NewReplayService creates a replay service. idem may be nil, in which
// case replay falls back to plain at-least-once delivery.
func NewReplayService(repo outbox.Repository, remote RemoteSubmitter, idem IdempotencyStore, logger *zap.Logger) *ReplayService {
	return &ReplayService{
		repo:   repo,
		remote: remote,
		idem:   idem,
		logger: logger,
	}
}

// Enqueue appends a write to the durable queue. It never touches the
// network.
func (s *ReplayService) Enqueue(ctx context.Context, method, path string, payload []byte) (*outbox.PendingWrite, error) {
	write := outbox.NewPendingWrite(method, path, payload)
	if err := s.repo.Save(ctx, write); err != nil {
		return nil, err
	}
	s.logger.Debug("queued offline write",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("idempotency_key", write.IdempotencyKey),
	)
	return write, nil
}

// QueueDepth returns the number of writes waiting for replay.
func (s *ReplayService) QueueDepth(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// OnConnectivityRestored drains the queue. It is invoked once per
// offline-to-online transition. Writes are submitted one at a time in
// insertion order; a success removes the write, a failure records the
// error and leaves it queued for the next restoration event. There is no
// backoff within a single pass and no dead-letter state.
func (s *ReplayService) OnConnectivityRestored(ctx context.Context) DrainReport {
	var report DrainReport

	pending, err := s.repo.FindPending(ctx)
	if err != nil {
		s.logger.Error("failed to read pending writes", zap.Error(err))
		return report
	}
	if len(pending) == 0 {
		return report
	}

	s.logger.Info("replaying offline writes", zap.Int("pending", len(pending)))

	for _, write := range pending {
		report.Attempted++

		if s.idem != nil {
			confirmed, idemErr := s.idem.IsConfirmed(ctx, write.IdempotencyKey)
			if idemErr == nil && confirmed {
				// remote effect already landed; a lost success response
				// must not double-apply
				if delErr := s.repo.Delete(ctx, write.ID); delErr != nil {
					s.logger.Error("failed to drop confirmed write", zap.Error(delErr))
				}
				report.Skipped++
				continue
			}
		}

		err := s.remote.Submit(ctx, write.Method, write.ResourcePath, write.Payload, write.IdempotencyKey)
		if err != nil {
			write.MarkFailed(err.Error())
			if saveErr := s.repo.Save(ctx, write); saveErr != nil {
				s.logger.Error("failed to record replay failure", zap.Error(saveErr))
			}
			s.logger.Warn("replay failed, write stays queued",
				zap.String("method", write.Method),
				zap.String("path", write.ResourcePath),
				zap.Int("retry_count", write.RetryCount),
				zap.Error(err),
			)
			report.Failed++
			continue
		}

		if s.idem != nil {
			if idemErr := s.idem.MarkConfirmed(ctx, write.IdempotencyKey); idemErr != nil {
				s.logger.Warn("failed to mark write confirmed", zap.Error(idemErr))
			}
		}
		if err := s.repo.Delete(ctx, write.ID); err != nil {
			s.logger.Error("failed to remove replayed write", zap.Error(err))
		}
		report.Succeeded++
	}

	s.logger.Info("replay pass finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
	return report
}
