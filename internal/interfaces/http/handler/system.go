package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appsync "github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/persistence"
	"github.com/inblognet/OmniPOS-sub000/internal/interfaces/http/dto"
)

// SystemHandler exposes the health endpoint.
type SystemHandler struct {
	db      *persistence.Database
	monitor *appsync.ConnectivityMonitor
	started time.Time
}

// NewSystemHandler creates a system handler.
func NewSystemHandler(db *persistence.Database, monitor *appsync.ConnectivityMonitor) *SystemHandler {
	return &SystemHandler{db: db, monitor: monitor, started: time.Now()}
}

// RegisterPublicRoutes wires the health endpoint. It is reachable without
// a token so probes and the UI splash screen can reach it.
func (h *SystemHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

type healthView struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Remote   string `json:"remote"`
	Uptime   string `json:"uptime"`
}

// Health reports local store health and the last observed remote state.
// The terminal is healthy while offline; only a broken local store degrades
// it.
func (h *SystemHandler) Health(c *gin.Context) {
	view := healthView{
		Status:   "ok",
		Database: "ok",
		Remote:   "online",
		Uptime:   time.Since(h.started).Round(time.Second).String(),
	}
	if err := h.db.Ping(); err != nil {
		view.Status = "degraded"
		view.Database = err.Error()
	}
	if !h.monitor.IsOnline() {
		view.Remote = "offline"
	}

	status := http.StatusOK
	if view.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.NewSuccessResponse(view))
}
