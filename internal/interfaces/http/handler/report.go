package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appsync "github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/remote"
	"github.com/inblognet/OmniPOS-sub000/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ReportFetcher retrieves head-office reports. Satisfied by remote.Client.
type ReportFetcher interface {
	FetchSalesReport(ctx context.Context, from, to time.Time) (*remote.SalesReport, error)
	FetchInventoryReport(ctx context.Context) (*remote.InventoryReport, error)
	FetchDashboardStats(ctx context.Context) (*remote.DashboardStats, error)
}

// ReportHandler proxies reporting reads to the head-office API. Reports
// are not mirrored locally, so every endpoint requires connectivity.
type ReportHandler struct {
	BaseHandler
	reports ReportFetcher
	monitor *appsync.ConnectivityMonitor
	logger  *zap.Logger
}

// NewReportHandler creates a report handler.
func NewReportHandler(reports ReportFetcher, monitor *appsync.ConnectivityMonitor, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, monitor: monitor, logger: logger}
}

// RegisterRoutes wires the reporting endpoints into the API group.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/sales", h.SalesReport)
		reports.GET("/inventory", h.InventoryReport)
	}
	rg.GET("/dashboard/stats", h.DashboardStats)
}

func (h *ReportHandler) offline(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeOffline, "Reports require a head-office connection", getRequestID(c)))
}

// SalesReport returns the head-office sales summary for a window. The
// window defaults to the current day in the terminal's timezone.
func (h *ReportHandler) SalesReport(c *gin.Context) {
	if !h.monitor.IsOnline() {
		h.offline(c)
		return
	}

	now := time.Now()
	from := startOfDay(now)
	to := now

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' timestamp, expected RFC 3339")
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.BadRequest(c, "Invalid 'to' timestamp, expected RFC 3339")
			return
		}
		to = t
	}

	report, err := h.reports.FetchSalesReport(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Warn("sales report fetch failed", zap.Error(err))
		h.offline(c)
		return
	}
	h.Success(c, report)
}

// InventoryReport returns the head-office stock position report.
func (h *ReportHandler) InventoryReport(c *gin.Context) {
	if !h.monitor.IsOnline() {
		h.offline(c)
		return
	}
	report, err := h.reports.FetchInventoryReport(c.Request.Context())
	if err != nil {
		h.logger.Warn("inventory report fetch failed", zap.Error(err))
		h.offline(c)
		return
	}
	h.Success(c, report)
}

// DashboardStats returns the head-office dashboard summary.
func (h *ReportHandler) DashboardStats(c *gin.Context) {
	if !h.monitor.IsOnline() {
		h.offline(c)
		return
	}
	stats, err := h.reports.FetchDashboardStats(c.Request.Context())
	if err != nil {
		h.logger.Warn("dashboard stats fetch failed", zap.Error(err))
		h.offline(c)
		return
	}
	h.Success(c, stats)
}
