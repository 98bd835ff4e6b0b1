package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OnlineChecker reports the last observed connectivity state. Offline
// writes are mirrored into the replay queue.
type OnlineChecker interface {
	IsOnline() bool
}

// Service implements the inventory use cases: receiving batches, damage
// reports, expiry sweeps and stock recalculation. Local writes are applied
// optimistically; while offline each mutation is also queued for replay.
type Service struct {
	products catalog.Repository
	replay   *sync.ReplayService
	online   OnlineChecker
	tx       TransactionScope
	logger   *zap.Logger
}

// NewService creates an inventory service.
func NewService(products catalog.Repository, replay *sync.ReplayService, online OnlineChecker, tx TransactionScope, logger *zap.Logger) *Service {
	return &Service{
		products: products,
		replay:   replay,
		online:   online,
		tx:       tx,
		logger:   logger,
	}
}

// ReceiveBatch records an incoming stock lot and keeps the product's
// aggregate stock equal to the sum of its batches.
func (s *Service) ReceiveBatch(ctx context.Context, productID uuid.UUID, batchNumber string, qty decimal.Decimal, issueDate, expiryDate *time.Time) (*catalog.ProductBatch, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	batch, err := catalog.NewProductBatch(productID, batchNumber, qty, issueDate, expiryDate)
	if err != nil {
		return nil, err
	}
	if err := product.ReceiveStock(qty); err != nil {
		return nil, err
	}
	if expiryDate != nil && (product.StockExpiryDate == nil || expiryDate.Before(*product.StockExpiryDate)) {
		product.StockExpiryDate = expiryDate
	}

	err = s.tx.Execute(ctx, func(ctx context.Context) error {
		if err := s.products.SaveBatch(ctx, batch); err != nil {
			return err
		}
		return s.products.Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.queueRemoteWrite(ctx, "PUT", fmt.Sprintf("/products/%s", productID), product)
	return batch, nil
}

// ReportDamage moves qty into the damaged bucket and appends the damage
// log entry in one transaction. Over-limit requests are rejected before
// any mutation.
func (s *Service) ReportDamage(ctx context.Context, productID uuid.UUID, qty decimal.Decimal, note, reportedBy string) (*catalog.DamageLog, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	log, err := catalog.ApplyDamage(product, qty, note, reportedBy)
	if err != nil {
		return nil, err
	}

	err = s.tx.Execute(ctx, func(ctx context.Context) error {
		if err := s.products.Save(ctx, product); err != nil {
			return err
		}
		return s.products.SaveDamageLog(ctx, log)
	})
	if err != nil {
		return nil, err
	}

	s.queueRemoteWrite(ctx, "PUT", fmt.Sprintf("/products/%s", productID), product)
	return log, nil
}

// SweepExpired moves the remaining stock of every expired product into the
// expired bucket. Running it twice on the same day is a no-op the second
// time.
func (s *Service) SweepExpired(ctx context.Context, today time.Time) ([]catalog.SweptProduct, error) {
	products, err := s.products.FindExpirable(ctx)
	if err != nil {
		return nil, err
	}

	swept := catalog.SweepExpired(products, today)
	if len(swept) == 0 {
		return swept, nil
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	err = s.tx.Execute(ctx, func(ctx context.Context) error {
		for _, sw := range swept {
			p := byID[sw.ProductID]
			if err := s.products.Save(ctx, p); err != nil {
				return err
			}
			// zeroed lots must be persisted or a later recalc would
			// resurrect the swept stock
			for i := range p.Batches {
				if err := s.products.SaveBatch(ctx, &p.Batches[i]); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, sw := range swept {
		s.queueRemoteWrite(ctx, "PUT", fmt.Sprintf("/products/%s", sw.ProductID), byID[sw.ProductID])
	}
	s.logger.Info("expiry sweep finished", zap.Int("products", len(swept)))
	return swept, nil
}

// RecalcStock re-derives a product's sellable stock from its batches.
func (s *Service) RecalcStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	batches, err := s.products.FindBatches(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}

	total := catalog.RecalcStock(batches)
	if !total.Equal(product.Stock) {
		product.Stock = total
		product.Touch()
		if err := s.products.Save(ctx, product); err != nil {
			return decimal.Zero, err
		}
	}
	return total, nil
}

// queueRemoteWrite mirrors an already-applied local write into the replay
// queue when the terminal is offline. Online submission is handled by the
// caller's own remote sync; queue failures are logged, never fatal.
func (s *Service) queueRemoteWrite(ctx context.Context, method, path string, payload any) {
	if s.online.IsOnline() {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode offline write", zap.String("path", path), zap.Error(err))
		return
	}
	if _, err := s.replay.Enqueue(ctx, method, path, body); err != nil {
		s.logger.Error("failed to queue offline write", zap.String("path", path), zap.Error(err))
	}
}
