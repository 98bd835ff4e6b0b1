package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/application/inventory"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/catalog"
	"github.com/inblognet/OmniPOS-sub000/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHandler exposes the catalog and stock management endpoints.
type ProductHandler struct {
	BaseHandler
	products  catalog.Repository
	inventory *inventory.Service
	logger    *zap.Logger
}

// NewProductHandler creates a product handler.
func NewProductHandler(products catalog.Repository, inv *inventory.Service, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, inventory: inv, logger: logger}
}

// RegisterRoutes wires the product endpoints into the API group.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.POST("", h.Create)
		products.GET("/:id", h.Get)
		products.DELETE("/:id", h.Delete)
		products.POST("/:id/recalc", h.RecalcStock)
		products.GET("/:id/batches", h.ListBatches)
		products.POST("/:id/batches", h.ReceiveBatch)
		products.GET("/:id/damage-logs", h.ListDamageLogs)
		products.POST("/:id/damage-reports", h.ReportDamage)
	}
	rg.POST("/inventory/sweep-expired", h.SweepExpired)
}

type productView struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Cost            decimal.Decimal `json:"cost"`
	Stock           decimal.Decimal `json:"stock"`
	DamagedQty      decimal.Decimal `json:"damaged_qty"`
	ExpiredQty      decimal.Decimal `json:"expired_qty"`
	TotalQty        decimal.Decimal `json:"total_qty"`
	BatchTracked    bool            `json:"batch_tracked"`
	StockExpiryDate *time.Time      `json:"stock_expiry_date,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toProductView(p *catalog.Product) productView {
	return productView{
		ID:              p.ID.String(),
		SKU:             p.SKU,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		Price:           p.Price,
		Cost:            p.Cost,
		Stock:           p.Stock,
		DamagedQty:      p.DamagedQty,
		ExpiredQty:      p.ExpiredQty,
		TotalQty:        p.TotalQty,
		BatchTracked:    p.BatchTracked,
		StockExpiryDate: p.StockExpiryDate,
		UpdatedAt:       p.UpdatedAt,
	}
}

type batchView struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	IssueDate   *time.Time      `json:"issue_date,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

func toBatchView(b *catalog.ProductBatch) batchView {
	return batchView{
		ID:          b.ID.String(),
		ProductID:   b.ProductID.String(),
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		IssueDate:   b.IssueDate,
		ExpiryDate:  b.ExpiryDate,
	}
}

// List returns the full local catalog.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	h.Success(c, views)
}

// Get returns a single product with its batches and damage history loaded.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	product, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductView(product))
}

type createProductRequest struct {
	SKU          string           `json:"sku" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Price        decimal.Decimal  `json:"price" binding:"required"`
	Cost         *decimal.Decimal `json:"cost"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	BatchTracked bool             `json:"batch_tracked"`
}

// Create adds a product to the local catalog.
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid product payload: "+err.Error())
		return
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Price)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	product.CategoryID = req.CategoryID
	product.BatchTracked = req.BatchTracked

	if err := h.products.Save(c.Request.Context(), product); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProductView(product))
}

// Delete removes a product and its child rows from the local mirror.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type receiveBatchRequest struct {
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	IssueDate   *time.Time      `json:"issue_date"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// ReceiveBatch records an incoming stock lot.
func (h *ProductHandler) ReceiveBatch(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req receiveBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid batch payload: "+err.Error())
		return
	}

	batch, err := h.inventory.ReceiveBatch(c.Request.Context(), id, req.BatchNumber, req.Quantity, req.IssueDate, req.ExpiryDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toBatchView(batch))
}

// ListBatches returns the stock lots of a product ordered by expiry.
func (h *ProductHandler) ListBatches(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	batches, err := h.products.FindBatches(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views := make([]batchView, 0, len(batches))
	for i := range batches {
		views = append(views, toBatchView(&batches[i]))
	}
	h.Success(c, views)
}

type damageReportRequest struct {
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Note       string          `json:"note"`
	ReportedBy string          `json:"reported_by"`
}

type damageLogView struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Note       string          `json:"note"`
	ReportedBy string          `json:"reported_by"`
	ReportedAt time.Time       `json:"reported_at"`
}

func toDamageLogView(l *catalog.DamageLog) damageLogView {
	return damageLogView{
		ID:         l.ID.String(),
		ProductID:  l.ProductID.String(),
		Quantity:   l.Quantity,
		Note:       l.Note,
		ReportedBy: l.ReportedBy,
		ReportedAt: l.ReportedAt,
	}
}

// ReportDamage moves stock into the damaged bucket and logs the report.
func (h *ProductHandler) ReportDamage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req damageReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid damage payload: "+err.Error())
		return
	}
	if req.ReportedBy == "" {
		req.ReportedBy = middleware.GetJWTUsername(c)
	}

	log, err := h.inventory.ReportDamage(c.Request.Context(), id, req.Quantity, req.Note, req.ReportedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toDamageLogView(log))
}

// ListDamageLogs returns the damage history of a product, newest first.
func (h *ProductHandler) ListDamageLogs(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	logs, err := h.products.FindDamageLogs(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views := make([]damageLogView, 0, len(logs))
	for i := range logs {
		views = append(views, toDamageLogView(&logs[i]))
	}
	h.Success(c, views)
}

// RecalcStock re-derives the sellable stock of a product from its batches.
func (h *ProductHandler) RecalcStock(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	total, err := h.inventory.RecalcStock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"product_id": id.String(), "stock": total})
}

type sweepView struct {
	ProductID string          `json:"product_id"`
	MovedQty  decimal.Decimal `json:"moved_qty"`
}

// SweepExpired runs the daily expiry sweep.
func (h *ProductHandler) SweepExpired(c *gin.Context) {
	swept, err := h.inventory.SweepExpired(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views := make([]sweepView, 0, len(swept))
	for _, s := range swept {
		views = append(views, sweepView{ProductID: s.ProductID.String(), MovedQty: s.MovedQty})
	}
	h.Success(c, views)
}

func (h *ProductHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}
