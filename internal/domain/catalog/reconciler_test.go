package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, stock string) *Product {
	t.Helper()
	p, err := NewProduct("SKU-001", "Paracetamol 500mg", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, p.ReceiveStock(mustDecimal(t, stock)))
	return p
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func TestRecalcStock_SumsBatchQuantities(t *testing.T) {
	productID := uuid.New()
	quantities := []string{"10", "0", "5"}
	batches := make([]ProductBatch, 0, len(quantities))
	for i, q := range quantities {
		b, err := NewProductBatch(productID, "B-"+string(rune('A'+i)), mustDecimal(t, q), nil, nil)
		require.NoError(t, err)
		batches = append(batches, *b)
	}

	total := RecalcStock(batches)
	assert.True(t, decimal.NewFromInt(15).Equal(total), "total = %s", total)
}

func TestRecalcStock_Empty(t *testing.T) {
	assert.True(t, RecalcStock(nil).IsZero())
}

func TestApplyDamage_MovesQuantityAndLogs(t *testing.T) {
	p := newTestProduct(t, "15")

	log, err := ApplyDamage(p, decimal.NewFromInt(3), "broken", "cashier-1")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(12).Equal(p.Stock))
	assert.True(t, decimal.NewFromInt(3).Equal(p.DamagedQty))
	assert.Equal(t, "broken", log.Note)
	assert.Equal(t, "cashier-1", log.ReportedBy)
	assert.Equal(t, p.ID, log.ProductID)
	assert.Len(t, p.DamageLogs, 1)
}

func TestApplyDamage_RejectsOverLimitWithoutMutation(t *testing.T) {
	p := newTestProduct(t, "15")

	_, err := ApplyDamage(p, decimal.NewFromInt(20), "water damage", "cashier-1")
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	assert.True(t, decimal.NewFromInt(15).Equal(p.Stock))
	assert.True(t, p.DamagedQty.IsZero())
	assert.Empty(t, p.DamageLogs)
}

func TestApplyDamage_RejectsNonPositive(t *testing.T) {
	p := newTestProduct(t, "15")
	_, err := ApplyDamage(p, decimal.Zero, "", "cashier-1")
	require.Error(t, err)
}

func TestApplyDamage_PreservesBucketSum(t *testing.T) {
	p := newTestProduct(t, "15")
	before := p.BucketSum()

	_, err := ApplyDamage(p, decimal.NewFromInt(5), "crushed", "cashier-2")
	require.NoError(t, err)

	assert.True(t, before.Equal(p.BucketSum()))
	assert.True(t, p.BucketSum().LessThanOrEqual(p.TotalQty))
}

func TestSweepExpired_MovesWholeStockOnce(t *testing.T) {
	p := newTestProduct(t, "8")
	yesterday := time.Now().AddDate(0, 0, -1)
	p.StockExpiryDate = &yesterday

	today := time.Now()
	swept := SweepExpired([]*Product{p}, today)
	require.Len(t, swept, 1)
	assert.Equal(t, p.ID, swept[0].ProductID)
	assert.True(t, decimal.NewFromInt(8).Equal(swept[0].MovedQty))
	assert.True(t, p.Stock.IsZero())
	assert.True(t, decimal.NewFromInt(8).Equal(p.ExpiredQty))

	// second sweep on the same day moves nothing
	swept = SweepExpired([]*Product{p}, today)
	assert.Empty(t, swept)
	assert.True(t, decimal.NewFromInt(8).Equal(p.ExpiredQty))
}

func TestSweepExpired_SkipsUnexpired(t *testing.T) {
	fresh := newTestProduct(t, "5")
	tomorrow := time.Now().AddDate(0, 0, 1)
	fresh.StockExpiryDate = &tomorrow

	noDate := newTestProduct(t, "5")

	swept := SweepExpired([]*Product{fresh, noDate}, time.Now())
	assert.Empty(t, swept)
	assert.True(t, decimal.NewFromInt(5).Equal(fresh.Stock))
	assert.True(t, decimal.NewFromInt(5).Equal(noDate.Stock))
}

func TestSweepExpired_ZeroesExpiredBatches(t *testing.T) {
	p := newTestProduct(t, "10")
	p.BatchTracked = true
	yesterday := time.Now().AddDate(0, 0, -1)
	p.StockExpiryDate = &yesterday

	expired, err := NewProductBatch(p.ID, "B-OLD", decimal.NewFromInt(10), nil, &yesterday)
	require.NoError(t, err)
	p.Batches = append(p.Batches, *expired)

	SweepExpired([]*Product{p}, time.Now())
	assert.True(t, p.Batches[0].Quantity.IsZero())
	assert.True(t, RecalcStock(p.Batches).Equal(p.Stock))
}

func TestSell_OnlyOperationToShrinkBucketSum(t *testing.T) {
	p := newTestProduct(t, "10")
	require.NoError(t, p.Sell(decimal.NewFromInt(4)))
	assert.True(t, decimal.NewFromInt(6).Equal(p.Stock))
	assert.True(t, decimal.NewFromInt(6).Equal(p.TotalQty))

	err := p.Sell(decimal.NewFromInt(7))
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestProductBatch_Deduct(t *testing.T) {
	b, err := NewProductBatch(uuid.New(), "B-1", decimal.NewFromInt(5), nil, nil)
	require.NoError(t, err)

	removed := b.Deduct(decimal.NewFromInt(3))
	assert.True(t, decimal.NewFromInt(3).Equal(removed))

	// over-deduct caps at remaining quantity
	removed = b.Deduct(decimal.NewFromInt(10))
	assert.True(t, decimal.NewFromInt(2).Equal(removed))
	assert.True(t, b.Quantity.IsZero())
}
