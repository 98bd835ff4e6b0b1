package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appsync "github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/remote"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReportFetcher struct {
	sales     *remote.SalesReport
	stats     *remote.DashboardStats
	err       error
	salesFrom time.Time
	salesTo   time.Time
}

func (f *fakeReportFetcher) FetchSalesReport(_ context.Context, from, to time.Time) (*remote.SalesReport, error) {
	f.salesFrom, f.salesTo = from, to
	return f.sales, f.err
}

func (f *fakeReportFetcher) FetchInventoryReport(context.Context) (*remote.InventoryReport, error) {
	return &remote.InventoryReport{}, f.err
}

func (f *fakeReportFetcher) FetchDashboardStats(context.Context) (*remote.DashboardStats, error) {
	return f.stats, f.err
}

func onlineMonitor(t *testing.T) *appsync.ConnectivityMonitor {
	t.Helper()
	m := appsync.NewConnectivityMonitor(upProbe{}, time.Hour, nil, zap.NewNop())
	m.Start(context.Background())
	t.Cleanup(func() { m.Stop(context.Background()) })
	require.Eventually(t, m.IsOnline, time.Second, 5*time.Millisecond)
	return m
}

func TestReportHandler_OfflineReturns503(t *testing.T) {
	monitor := appsync.NewConnectivityMonitor(upProbe{}, time.Hour, nil, zap.NewNop())
	h := NewReportHandler(&fakeReportFetcher{}, monitor, zap.NewNop())

	router := setupTestRouter()
	router.GET("/reports/sales", h.SalesReport)

	req := httptest.NewRequest(http.MethodGet, "/reports/sales", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_OFFLINE")
}

func TestReportHandler_SalesReportPassesWindow(t *testing.T) {
	fetcher := &fakeReportFetcher{
		sales: &remote.SalesReport{
			OrderCount: 4,
			NetSales:   decimal.RequireFromString("99.90"),
		},
	}
	h := NewReportHandler(fetcher, onlineMonitor(t), zap.NewNop())

	router := setupTestRouter()
	router.GET("/reports/sales", h.SalesReport)

	req := httptest.NewRequest(http.MethodGet,
		"/reports/sales?from=2026-08-01T00:00:00Z&to=2026-08-02T00:00:00Z", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), fetcher.salesFrom)
	assert.Equal(t, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), fetcher.salesTo)

	var resp struct {
		Data remote.SalesReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 4, resp.Data.OrderCount)
	assert.Equal(t, "99.9", resp.Data.NetSales.String())
}

func TestReportHandler_SalesReportBadTimestamp(t *testing.T) {
	h := NewReportHandler(&fakeReportFetcher{}, onlineMonitor(t), zap.NewNop())

	router := setupTestRouter()
	router.GET("/reports/sales", h.SalesReport)

	req := httptest.NewRequest(http.MethodGet, "/reports/sales?from=yesterday", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_FetchFailureReadsAsOffline(t *testing.T) {
	fetcher := &fakeReportFetcher{err: errors.New("connection reset")}
	h := NewReportHandler(fetcher, onlineMonitor(t), zap.NewNop())

	router := setupTestRouter()
	router.GET("/dashboard/stats", h.DashboardStats)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_OFFLINE")
}

func TestReportHandler_DashboardStats(t *testing.T) {
	fetcher := &fakeReportFetcher{
		stats: &remote.DashboardStats{
			TodaySales:  decimal.RequireFromString("320.50"),
			TodayOrders: 7,
		},
	}
	h := NewReportHandler(fetcher, onlineMonitor(t), zap.NewNop())

	router := setupTestRouter()
	router.GET("/dashboard/stats", h.DashboardStats)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data remote.DashboardStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 7, resp.Data.TodayOrders)
}
