package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/catalog"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/outbox"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDatabase opens an in-memory sqlite store with the full schema.
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	d := &Database{DB: db}
	require.NoError(t, d.Migrate())
	return d
}

func TestProductRepository_RoundTrip(t *testing.T) {
	d := newTestDatabase(t)
	repo := NewGormProductRepository(d.DB)
	ctx := context.Background()

	p, err := catalog.NewProduct("SKU-001", "Paracetamol 500mg", decimal.NewFromInt(5))
	require.NoError(t, err)
	p.BatchTracked = true
	require.NoError(t, p.ReceiveStock(decimal.NewFromInt(30)))
	require.NoError(t, repo.Save(ctx, p))

	expiry := time.Now().AddDate(0, 6, 0)
	batch, err := catalog.NewProductBatch(p.ID, "LOT-A", decimal.NewFromInt(30), nil, &expiry)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(ctx, batch))

	loaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", loaded.SKU)
	assert.True(t, decimal.NewFromInt(30).Equal(loaded.Stock))
	require.Len(t, loaded.Batches, 1)
	assert.Equal(t, "LOT-A", loaded.Batches[0].BatchNumber)

	// upsert keeps the row unique per ID
	loaded.Name = "Paracetamol 500mg (24s)"
	require.NoError(t, repo.Save(ctx, loaded))
	again, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500mg (24s)", again.Name)
}

func TestProductRepository_FindExpirable(t *testing.T) {
	d := newTestDatabase(t)
	repo := NewGormProductRepository(d.DB)
	ctx := context.Background()

	plain, err := catalog.NewProduct("SKU-P", "Notebook", decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, plain))

	dated, err := catalog.NewProduct("SKU-D", "Yogurt", decimal.NewFromInt(1))
	require.NoError(t, err)
	expiry := time.Now().AddDate(0, 0, 2)
	dated.StockExpiryDate = &expiry
	require.NoError(t, repo.Save(ctx, dated))

	expirable, err := repo.FindExpirable(ctx)
	require.NoError(t, err)
	require.Len(t, expirable, 1)
	assert.Equal(t, dated.ID, expirable[0].ID)
}

func TestPendingWriteRepository_InsertionOrder(t *testing.T) {
	d := newTestDatabase(t)
	repo := NewGormPendingWriteRepository(d.DB)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		w := outbox.NewPendingWrite("POST", fmt.Sprintf("/orders/%d", i), []byte("{}"))
		require.NoError(t, repo.Save(ctx, w))
	}

	pending, err := repo.FindPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 5)
	for i, w := range pending {
		assert.Equal(t, fmt.Sprintf("/orders/%d", i), w.ResourcePath)
	}

	// a failure update must not move the write's position
	pending[0].MarkFailed("remote returned 502")
	require.NoError(t, repo.Save(ctx, pending[0]))

	again, err := repo.FindPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/orders/0", again[0].ResourcePath)
	assert.Equal(t, 1, again[0].RetryCount)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	require.NoError(t, repo.Delete(ctx, pending[0].ID))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestSettingsRepository_SeedsDefaults(t *testing.T) {
	d := newTestDatabase(t)
	repo := NewGormSettingsRepository(d.DB)
	ctx := context.Background()

	cfg, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Store", cfg.StoreName)
	assert.Equal(t, 42, cfg.Print.Width)

	cfg.StoreName = "Corner Pharmacy"
	cfg.TaxRate = decimal.NewFromInt(8)
	require.NoError(t, repo.Save(ctx, cfg))

	reloaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Corner Pharmacy", reloaded.StoreName)
	assert.True(t, decimal.NewFromInt(8).Equal(reloaded.TaxRate))
}

func TestSalesOrderRepository_SaveAndLoadLines(t *testing.T) {
	d := newTestDatabase(t)
	repo := NewGormSalesOrderRepository(d.DB)
	ctx := context.Background()

	order, err := trade.NewSalesOrder([]trade.OrderLine{
		{Name: "Coffee", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(3)},
	}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	loaded, err := repo.FindByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.True(t, decimal.NewFromInt(6).Equal(loaded.Total))

	_, err = repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
}

func TestTransactionScope_RollsBackOnError(t *testing.T) {
	d := newTestDatabase(t)
	products := NewGormProductRepository(d.DB)
	scope := NewGormTransactionScope(d.DB)
	ctx := context.Background()

	p, err := catalog.NewProduct("SKU-TX", "Tea", decimal.NewFromInt(2))
	require.NoError(t, err)

	err = scope.Execute(ctx, func(ctx context.Context) error {
		if err := products.Save(ctx, p); err != nil {
			return err
		}
		return shared.NewDomainError("BOOM", "forced failure")
	})
	require.Error(t, err)

	_, err = products.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
