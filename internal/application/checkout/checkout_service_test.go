package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/application/dispatch"
	appsync "github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/catalog"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/outbox"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/partner"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/receipt"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// in-memory fakes

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindBySKU(context.Context, string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(context.Context) ([]*catalog.Product, error) { return nil, nil }

func (r *fakeProductRepo) FindExpirable(context.Context) ([]*catalog.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (r *fakeProductRepo) SaveBatch(context.Context, *catalog.ProductBatch) error { return nil }

func (r *fakeProductRepo) FindBatches(context.Context, uuid.UUID) ([]catalog.ProductBatch, error) {
	return nil, nil
}

func (r *fakeProductRepo) DeleteBatch(context.Context, uuid.UUID) error { return nil }

func (r *fakeProductRepo) SaveDamageLog(context.Context, *catalog.DamageLog) error { return nil }

func (r *fakeProductRepo) FindDamageLogs(context.Context, uuid.UUID) ([]catalog.DamageLog, error) {
	return nil, nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindByPhone(context.Context, string) (*partner.Customer, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindAll(context.Context) ([]*partner.Customer, error) { return nil, nil }

func (r *fakeCustomerRepo) Delete(context.Context, uuid.UUID) error { return nil }

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*trade.SalesOrder
}

func (r *fakeOrderRepo) Save(_ context.Context, o *trade.SalesOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return nil
}

func (r *fakeOrderRepo) FindByID(context.Context, uuid.UUID) (*trade.SalesOrder, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByNumber(context.Context, string) (*trade.SalesOrder, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindBetween(context.Context, time.Time, time.Time) ([]*trade.SalesOrder, error) {
	return nil, nil
}

type fakeSettingsRepo struct{ cfg *settings.StoreSettings }

func (r *fakeSettingsRepo) Load(context.Context) (*settings.StoreSettings, error) {
	return r.cfg, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *settings.StoreSettings) error {
	r.cfg = s
	return nil
}

type fakeWriteRepo struct {
	mu     sync.Mutex
	writes []*outbox.PendingWrite
}

func (r *fakeWriteRepo) Save(_ context.Context, w *outbox.PendingWrite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, w)
	return nil
}

func (r *fakeWriteRepo) FindPending(context.Context) ([]*outbox.PendingWrite, error) {
	return r.writes, nil
}

func (r *fakeWriteRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (r *fakeWriteRepo) Count(context.Context) (int64, error) {
	return int64(len(r.writes)), nil
}

type noopRemote struct{}

func (noopRemote) Submit(context.Context, string, string, []byte, string) error { return nil }

type fixedOnline struct{ online bool }

func (f fixedOnline) IsOnline() bool { return f.online }

type passthroughTx struct{}

func (passthroughTx) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubRenderer struct{}

func (stubRenderer) Render(*receipt.SaleSnapshot) (string, error) { return "doc", nil }

type noopPrinter struct{}

func (noopPrinter) Print(context.Context, string) error { return nil }

type noopPush struct{}

func (noopPush) Send(context.Context, settings.PushSettings, string, string, string) error {
	return nil
}

type noopEmail struct{}

func (noopEmail) Send(context.Context, settings.EmailSettings, string, string, string) error {
	return nil
}

type noopSMS struct{}

func (noopSMS) Send(context.Context, settings.SMSSettings, string, string) error { return nil }

type fixture struct {
	svc       *Service
	products  *fakeProductRepo
	customers *fakeCustomerRepo
	orders    *fakeOrderRepo
	writes    *fakeWriteRepo
	cfg       *settings.StoreSettings
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()

	cfg := settings.Default()
	cfg.TaxRate = decimal.NewFromInt(10)
	cfg.Loyalty = settings.LoyaltySettings{
		RedemptionRate: decimal.NewFromInt(2),
		EarnThreshold:  decimal.NewFromInt(100),
		EarnRate:       1,
	}

	products := newFakeProductRepo()
	customers := newFakeCustomerRepo()
	orders := &fakeOrderRepo{}
	writes := &fakeWriteRepo{}

	replay := appsync.NewReplayService(writes, noopRemote{}, nil, zap.NewNop())
	coordinator := dispatch.NewCoordinator(dispatch.Renderers{
		PrintDoc: stubRenderer{}, Text: stubRenderer{}, HTML: stubRenderer{},
	}, noopPrinter{}, noopPush{}, noopEmail{}, noopSMS{}, zap.NewNop())

	svc := NewService(products, customers, orders, &fakeSettingsRepo{cfg: cfg}, replay, coordinator, fixedOnline{online}, passthroughTx{}, zap.NewNop())
	return &fixture{svc: svc, products: products, customers: customers, orders: orders, writes: writes, cfg: cfg}
}

func (f *fixture) seedProduct(t *testing.T, name string, price, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("SKU-"+name, name, decimal.NewFromInt(price))
	require.NoError(t, err)
	require.NoError(t, p.ReceiveStock(decimal.NewFromInt(stock)))
	require.NoError(t, f.products.Save(context.Background(), p))
	return p
}

func (f *fixture) seedCustomer(t *testing.T, points int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer("Sam Perera", "+15551230000", "sam@example.com")
	require.NoError(t, err)
	c.Loyalty.Earn(points)
	require.NoError(t, f.customers.Save(context.Background(), c))
	return c
}

func TestCompleteSale_DecrementsStockAndPersistsOrder(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t, "Coffee", 50, 10)

	res, err := f.svc.CompleteSale(context.Background(), Input{
		Lines:    []LineInput{{ProductID: p.ID, Quantity: decimal.NewFromInt(2)}},
		Tendered: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(110).Equal(res.Order.Total)) // 100 + 10% tax
	assert.True(t, decimal.NewFromInt(90).Equal(res.Order.Change))
	assert.True(t, decimal.NewFromInt(8).Equal(p.Stock))
	require.Len(t, f.orders.orders, 1)
	assert.Empty(t, f.writes.writes, "online sale is not queued")
}

func TestCompleteSale_RejectsInsufficientStock(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t, "Coffee", 50, 1)

	_, err := f.svc.CompleteSale(context.Background(), Input{
		Lines:    []LineInput{{ProductID: p.ID, Quantity: decimal.NewFromInt(2)}},
		Tendered: decimal.NewFromInt(200),
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, decimal.NewFromInt(1).Equal(p.Stock), "no mutation on rejection")
	assert.Empty(t, f.orders.orders)
}

func TestCompleteSale_LoyaltySettlement(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t, "Coffee", 100, 10)
	c := f.seedCustomer(t, 50)

	res, err := f.svc.CompleteSale(context.Background(), Input{
		Lines:        []LineInput{{ProductID: p.ID, Quantity: decimal.NewFromInt(2)}},
		CustomerID:   &c.ID,
		RedeemPoints: true,
		Tendered:     decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	// taxed total 220; 50 points at rate 2 redeem fully for 100 off
	assert.Equal(t, int64(50), res.Order.PointsRedeemed)
	assert.True(t, decimal.NewFromInt(100).Equal(res.Order.LoyaltyDiscount))
	assert.True(t, decimal.NewFromInt(120).Equal(res.Order.Total))
	// earn: floor(120/100)*1 = 1 point on the final total
	assert.Equal(t, int64(1), res.Order.PointsEarned)
	assert.Equal(t, int64(1), c.Loyalty.Balance)
	require.NotNil(t, res.Snapshot.Loyalty)
	assert.Equal(t, int64(1), res.Snapshot.Loyalty.BalanceAfter)
}

func TestCompleteSale_OfflineQueuesOrderForReplay(t *testing.T) {
	f := newFixture(t, false)
	p := f.seedProduct(t, "Coffee", 50, 10)

	_, err := f.svc.CompleteSale(context.Background(), Input{
		Lines:    []LineInput{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
		Tendered: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	require.Len(t, f.writes.writes, 1)
	w := f.writes.writes[0]
	assert.Equal(t, "POST", w.Method)
	assert.Equal(t, "/orders", w.ResourcePath)
	assert.NotEmpty(t, w.IdempotencyKey)
}

type failingWriteRepo struct{ fakeWriteRepo }

func (r *failingWriteRepo) Save(context.Context, *outbox.PendingWrite) error {
	return errors.New("disk full")
}

func TestCompleteSale_ReplayQueueFailureIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	products := newFakeProductRepo()
	orders := &fakeOrderRepo{}
	writes := &failingWriteRepo{}

	replay := appsync.NewReplayService(writes, noopRemote{}, nil, zap.NewNop())
	coordinator := dispatch.NewCoordinator(dispatch.Renderers{
		PrintDoc: stubRenderer{}, Text: stubRenderer{}, HTML: stubRenderer{},
	}, noopPrinter{}, noopPush{}, noopEmail{}, noopSMS{}, zap.NewNop())

	svc := NewService(products, newFakeCustomerRepo(), orders,
		&fakeSettingsRepo{cfg: settings.Default()}, replay, coordinator,
		fixedOnline{false}, passthroughTx{}, zap.New(core))

	p, err := catalog.NewProduct("SKU-Tea", "Tea", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, p.ReceiveStock(decimal.NewFromInt(5)))
	require.NoError(t, products.Save(context.Background(), p))

	_, err = svc.CompleteSale(context.Background(), Input{
		Lines:    []LineInput{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
		Tendered: decimal.NewFromInt(100),
	})
	require.NoError(t, err, "a queue failure must not fail the sale")

	require.Len(t, orders.orders, 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to queue order for replay").Len())
}

func TestCompleteSale_DispatchFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t, "Coffee", 50, 10)
	f.cfg.Print.Enabled = false // print requested but disabled -> channel error

	res, err := f.svc.CompleteSale(context.Background(), Input{
		Lines:    []LineInput{{ProductID: p.ID, Quantity: decimal.NewFromInt(1)}},
		Tendered: decimal.NewFromInt(100),
		Receipts: dispatch.Request{Print: true},
	})
	require.NoError(t, err, "the order is authoritative once created")

	assert.Equal(t, receipt.StatusError, res.DispatchResults[receipt.ChannelPrint].Status)
	require.Len(t, f.orders.orders, 1)
}
