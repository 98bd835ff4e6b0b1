package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/application/checkout"
	"github.com/inblognet/OmniPOS-sub000/internal/application/dispatch"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the point-of-sale checkout endpoint and order
// lookups.
type CheckoutHandler struct {
	BaseHandler
	checkout *checkout.Service
	orders   trade.Repository
	logger   *zap.Logger
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(svc *checkout.Service, orders trade.Repository, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, orders: orders, logger: logger}
}

// RegisterRoutes wires the checkout and order endpoints into the API group.
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.CompleteSale)
	orders := rg.Group("/orders")
	{
		orders.GET("/:id", h.GetOrder)
		orders.GET("", h.ListOrders)
	}
}

type checkoutLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

type receiptRequest struct {
	Print   bool   `json:"print"`
	PushTo  string `json:"push_to"`
	EmailTo string `json:"email_to"`
	SMSTo   string `json:"sms_to"`
}

type checkoutRequest struct {
	Lines        []checkoutLineRequest `json:"lines" binding:"required,min=1,dive"`
	CustomerID   *uuid.UUID            `json:"customer_id"`
	RedeemPoints bool                  `json:"redeem_points"`
	Tendered     decimal.Decimal       `json:"tendered" binding:"required"`
	Receipts     receiptRequest        `json:"receipts"`
}

type orderLineView struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

type orderView struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	Lines           []orderLineView `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	LoyaltyDiscount decimal.Decimal `json:"loyalty_discount"`
	Total           decimal.Decimal `json:"total"`
	Tendered        decimal.Decimal `json:"tendered"`
	Change          decimal.Decimal `json:"change"`
	PointsEarned    int64           `json:"points_earned"`
	PointsRedeemed  int64           `json:"points_redeemed"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toOrderView(o *trade.SalesOrder) orderView {
	lines := make([]orderLineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineView{
			ProductID: l.ProductID.String(),
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		})
	}
	return orderView{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Lines:           lines,
		Subtotal:        o.Subtotal,
		TaxRate:         o.TaxRate,
		TaxAmount:       o.TaxAmount,
		LoyaltyDiscount: o.LoyaltyDiscount,
		Total:           o.Total,
		Tendered:        o.Tendered,
		Change:          o.Change,
		PointsEarned:    o.PointsEarned,
		PointsRedeemed:  o.PointsRedeemed,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

// startOfDay is midnight in t's location, not UTC midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type dispatchResultView struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type checkoutResponse struct {
	Order    orderView                     `json:"order"`
	Receipts map[string]dispatchResultView `json:"receipts"`
}

// CompleteSale runs the full checkout: cart validation, loyalty settlement,
// atomic persistence and best-effort receipt dispatch. Receipt failures are
// reported in the response but never fail the sale.
func (h *CheckoutHandler) CompleteSale(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid checkout payload: "+err.Error())
		return
	}

	lines := make([]checkout.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, checkout.LineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	result, err := h.checkout.CompleteSale(c.Request.Context(), checkout.Input{
		Lines:        lines,
		CustomerID:   req.CustomerID,
		RedeemPoints: req.RedeemPoints,
		Tendered:     req.Tendered,
		Receipts: dispatch.Request{
			Print:   req.Receipts.Print,
			PushTo:  req.Receipts.PushTo,
			EmailTo: req.Receipts.EmailTo,
			SMSTo:   req.Receipts.SMSTo,
		},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	receipts := make(map[string]dispatchResultView, len(result.DispatchResults))
	for ch, r := range result.DispatchResults {
		receipts[string(ch)] = dispatchResultView{Status: string(r.Status), Error: r.Error}
	}

	h.Created(c, checkoutResponse{
		Order:    toOrderView(result.Order),
		Receipts: receipts,
	})
}

// GetOrder returns a completed order by ID.
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	order, err := h.orders.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderView(order))
}

// ListOrders returns the orders created in the given window. The window
// defaults to the current day in the terminal's timezone.
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
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

	orders, err := h.orders.FindBetween(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	h.Success(c, views)
}
