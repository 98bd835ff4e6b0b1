package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/application/inventory"
	appsync "github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/catalog"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/outbox"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCatalogRepo is an in-memory catalog.Repository.
type fakeCatalogRepo struct {
	products map[uuid.UUID]*catalog.Product
	batches  map[uuid.UUID][]catalog.ProductBatch
	logs     map[uuid.UUID][]catalog.DamageLog
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products: make(map[uuid.UUID]*catalog.Product),
		batches:  make(map[uuid.UUID][]catalog.ProductBatch),
		logs:     make(map[uuid.UUID][]catalog.DamageLog),
	}
}

func (r *fakeCatalogRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeCatalogRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeCatalogRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCatalogRepo) FindAll(_ context.Context) ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeCatalogRepo) FindExpirable(_ context.Context) ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0)
	for _, p := range r.products {
		if p.StockExpiryDate != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	delete(r.batches, id)
	delete(r.logs, id)
	return nil
}

func (r *fakeCatalogRepo) SaveBatch(_ context.Context, b *catalog.ProductBatch) error {
	for i, existing := range r.batches[b.ProductID] {
		if existing.ID == b.ID {
			r.batches[b.ProductID][i] = *b
			return nil
		}
	}
	r.batches[b.ProductID] = append(r.batches[b.ProductID], *b)
	return nil
}

func (r *fakeCatalogRepo) FindBatches(_ context.Context, productID uuid.UUID) ([]catalog.ProductBatch, error) {
	return r.batches[productID], nil
}

func (r *fakeCatalogRepo) DeleteBatch(_ context.Context, id uuid.UUID) error {
	for pid, list := range r.batches {
		for i, b := range list {
			if b.ID == id {
				r.batches[pid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return shared.ErrNotFound
}

func (r *fakeCatalogRepo) SaveDamageLog(_ context.Context, l *catalog.DamageLog) error {
	r.logs[l.ProductID] = append(r.logs[l.ProductID], *l)
	return nil
}

func (r *fakeCatalogRepo) FindDamageLogs(_ context.Context, productID uuid.UUID) ([]catalog.DamageLog, error) {
	return r.logs[productID], nil
}

type fakeWriteRepo struct {
	writes []*outbox.PendingWrite
}

func (r *fakeWriteRepo) Save(_ context.Context, w *outbox.PendingWrite) error {
	for i, existing := range r.writes {
		if existing.ID == w.ID {
			r.writes[i] = w
			return nil
		}
	}
	r.writes = append(r.writes, w)
	return nil
}

func (r *fakeWriteRepo) FindPending(_ context.Context) ([]*outbox.PendingWrite, error) {
	return r.writes, nil
}

func (r *fakeWriteRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, w := range r.writes {
		if w.ID == id {
			r.writes = append(r.writes[:i], r.writes[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *fakeWriteRepo) Count(_ context.Context) (int64, error) {
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

func setupProductHandler(repo *fakeCatalogRepo) *ProductHandler {
	replay := appsync.NewReplayService(&fakeWriteRepo{}, noopRemote{}, nil, zap.NewNop())
	inv := inventory.NewService(repo, replay, fixedOnline{online: true}, passthroughTx{}, zap.NewNop())
	return NewProductHandler(repo, inv, zap.NewNop())
}

func seedProduct(t *testing.T, repo *fakeCatalogRepo, sku string, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Product "+sku, decimal.NewFromInt(10))
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, p.ReceiveStock(decimal.NewFromInt(stock)))
	}
	repo.products[p.ID] = p
	return p
}

func TestProductHandler_Create_Success(t *testing.T) {
	repo := newFakeCatalogRepo()
	h := setupProductHandler(repo)
	router := setupTestRouter()
	router.POST("/products", h.Create)

	body, _ := json.Marshal(map[string]any{
		"sku":   "SKU-001",
		"name":  "Test Product",
		"price": "19.99",
	})
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.products, 1)
}

func TestProductHandler_Create_NegativePrice(t *testing.T) {
	h := setupProductHandler(newFakeCatalogRepo())
	router := setupTestRouter()
	router.POST("/products", h.Create)

	body, _ := json.Marshal(map[string]any{
		"sku":   "SKU-001",
		"name":  "Test Product",
		"price": "-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	h := setupProductHandler(newFakeCatalogRepo())
	router := setupTestRouter()
	router.GET("/products/:id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	h := setupProductHandler(newFakeCatalogRepo())
	router := setupTestRouter()
	router.GET("/products/:id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_ReceiveBatch_UpdatesStock(t *testing.T) {
	repo := newFakeCatalogRepo()
	p := seedProduct(t, repo, "SKU-001", 0)
	h := setupProductHandler(repo)
	router := setupTestRouter()
	router.POST("/products/:id/batches", h.ReceiveBatch)

	expiry := time.Now().AddDate(0, 1, 0).UTC()
	body, _ := json.Marshal(map[string]any{
		"batch_number": "LOT-7",
		"quantity":     "25",
		"expiry_date":  expiry.Format(time.RFC3339),
	})
	req := httptest.NewRequest(http.MethodPost, "/products/"+p.ID.String()+"/batches", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(25)))
	require.Len(t, repo.batches[p.ID], 1)
	assert.Equal(t, "LOT-7", repo.batches[p.ID][0].BatchNumber)
}

func TestProductHandler_ReportDamage_OverStock(t *testing.T) {
	repo := newFakeCatalogRepo()
	p := seedProduct(t, repo, "SKU-001", 5)
	h := setupProductHandler(repo)
	router := setupTestRouter()
	router.POST("/products/:id/damage-reports", h.ReportDamage)

	body, _ := json.Marshal(map[string]any{
		"quantity": "6",
		"note":     "dropped pallet",
	})
	req := httptest.NewRequest(http.MethodPost, "/products/"+p.ID.String()+"/damage-reports", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(5)), "rejected report must not mutate stock")
}

func TestProductHandler_SweepExpired(t *testing.T) {
	repo := newFakeCatalogRepo()
	p := seedProduct(t, repo, "SKU-001", 8)
	yesterday := time.Now().AddDate(0, 0, -1)
	p.StockExpiryDate = &yesterday

	h := setupProductHandler(repo)
	router := setupTestRouter()
	router.POST("/inventory/sweep-expired", h.SweepExpired)

	req := httptest.NewRequest(http.MethodPost, "/inventory/sweep-expired", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, p.Stock.IsZero())
	assert.True(t, p.ExpiredQty.Equal(decimal.NewFromInt(8)))
}

func TestProductHandler_List(t *testing.T) {
	repo := newFakeCatalogRepo()
	seedProduct(t, repo, "SKU-001", 3)
	seedProduct(t, repo, "SKU-002", 4)

	h := setupProductHandler(repo)
	router := setupTestRouter()
	router.GET("/products", h.List)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []productView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
