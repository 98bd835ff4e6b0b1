package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/partner"
	"go.uber.org/zap"
)

// CustomerHandler exposes the customer and loyalty lookup endpoints.
type CustomerHandler struct {
	BaseHandler
	customers partner.Repository
	logger    *zap.Logger
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(customers partner.Repository, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, logger: logger}
}

// RegisterRoutes wires the customer endpoints into the API group.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.List)
		customers.POST("", h.Create)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}

type customerView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	LoyaltyPoints int64     `json:"loyalty_points"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toCustomerView(cu *partner.Customer) customerView {
	return customerView{
		ID:            cu.ID.String(),
		Name:          cu.Name,
		Phone:         cu.Phone,
		Email:         cu.Email,
		LoyaltyPoints: cu.Loyalty.Balance,
		UpdatedAt:     cu.UpdatedAt,
	}
}

// List returns all customers, or a single match when ?phone= is given.
func (h *CustomerHandler) List(c *gin.Context) {
	if phone := c.Query("phone"); phone != "" {
		cu, err := h.customers.FindByPhone(c.Request.Context(), phone)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, []customerView{toCustomerView(cu)})
		return
	}

	customers, err := h.customers.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views := make([]customerView, 0, len(customers))
	for _, cu := range customers {
		views = append(views, toCustomerView(cu))
	}
	h.Success(c, views)
}

// Get returns one customer by ID.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	cu, err := h.customers.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCustomerView(cu))
}

type customerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
}

// Create registers a customer with an empty loyalty account.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid customer payload: "+err.Error())
		return
	}

	cu, err := partner.NewCustomer(req.Name, req.Phone, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.customers.Save(c.Request.Context(), cu); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toCustomerView(cu))
}

// Update changes a customer's contact details. Loyalty balances move only
// through sales, never through this endpoint.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid customer payload: "+err.Error())
		return
	}

	cu, err := h.customers.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	cu.Name = req.Name
	cu.Phone = req.Phone
	cu.Email = req.Email
	cu.Touch()

	if err := h.customers.Save(c.Request.Context(), cu); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCustomerView(cu))
}

// Delete removes a customer from the local mirror.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CustomerHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return uuid.Nil, false
	}
	return id, true
}
