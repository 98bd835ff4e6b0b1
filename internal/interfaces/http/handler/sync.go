package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	appsync "github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/outbox"
	"go.uber.org/zap"
)

// SyncHandler exposes the offline replay queue: its status, its contents
// and a manual drain trigger.
type SyncHandler struct {
	BaseHandler
	replay  *appsync.ReplayService
	monitor *appsync.ConnectivityMonitor
	writes  outbox.Repository
	logger  *zap.Logger
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(replay *appsync.ReplayService, monitor *appsync.ConnectivityMonitor, writes outbox.Repository, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{replay: replay, monitor: monitor, writes: writes, logger: logger}
}

// RegisterRoutes wires the sync endpoints into the API group.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.GET("/status", h.Status)
		sync.GET("/pending", h.ListPending)
		sync.POST("/drain", h.Drain)
	}
}

type syncStatusView struct {
	Online     bool  `json:"online"`
	QueueDepth int64 `json:"queue_depth"`
}

// Status reports the connectivity state and how many writes wait for
// replay.
func (h *SyncHandler) Status(c *gin.Context) {
	depth, err := h.replay.QueueDepth(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, syncStatusView{
		Online:     h.monitor.IsOnline(),
		QueueDepth: depth,
	})
}

type pendingWriteView struct {
	ID             string    `json:"id"`
	Method         string    `json:"method"`
	ResourcePath   string    `json:"resource_path"`
	IdempotencyKey string    `json:"idempotency_key"`
	RetryCount     int       `json:"retry_count"`
	LastError      string    `json:"last_error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListPending returns the queued writes in replay order. Payloads are
// omitted; the queue view is for diagnosis, not editing.
func (h *SyncHandler) ListPending(c *gin.Context) {
	pending, err := h.writes.FindPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views := make([]pendingWriteView, 0, len(pending))
	for _, w := range pending {
		views = append(views, pendingWriteView{
			ID:             w.ID.String(),
			Method:         w.Method,
			ResourcePath:   w.ResourcePath,
			IdempotencyKey: w.IdempotencyKey,
			RetryCount:     w.RetryCount,
			LastError:      w.LastError,
			CreatedAt:      w.CreatedAt,
		})
	}
	h.Success(c, views)
}

type drainReportView struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Drain runs one replay pass immediately instead of waiting for the next
// connectivity-restoration event.
func (h *SyncHandler) Drain(c *gin.Context) {
	report := h.replay.OnConnectivityRestored(c.Request.Context())
	h.Success(c, drainReportView{
		Attempted: report.Attempted,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Skipped:   report.Skipped,
	})
}
