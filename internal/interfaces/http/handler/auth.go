package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/identity"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/auth"
	"github.com/inblognet/OmniPOS-sub000/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// AuthHandler handles operator sign-in and account management.
type AuthHandler struct {
	BaseHandler
	operators identity.Repository
	jwt       *auth.JWTService
	logger    *zap.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(operators identity.Repository, jwt *auth.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{operators: operators, jwt: jwt, logger: logger}
}

// RegisterPublicRoutes wires the endpoints reachable without a token.
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterRoutes wires the authenticated account endpoints.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/operators", middleware.RequireRole(string(identity.RoleAdmin)), h.CreateOperator)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Operator  any       `json:"operator"`
}

type operatorView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Login verifies the operator credentials and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Username and password are required")
		return
	}

	op, err := h.operators.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.Unauthorized(c, "Invalid username or password")
			return
		}
		h.HandleError(c, err)
		return
	}

	if !op.Active || !auth.CheckPassword(op.PasswordHash, req.Password) {
		h.logger.Warn("failed sign-in attempt", zap.String("username", req.Username))
		h.Unauthorized(c, "Invalid username or password")
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(op.ID, op.Username, string(op.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Operator: operatorView{
			ID:          op.ID.String(),
			Username:    op.Username,
			DisplayName: op.DisplayName,
			Role:        string(op.Role),
		},
	})
}

type createOperatorRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=admin cashier"`
}

// CreateOperator registers a new staff account. Admin only.
func (h *AuthHandler) CreateOperator(c *gin.Context) {
	var req createOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid operator payload: "+err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	op, err := identity.NewOperator(req.Username, req.DisplayName, hash, identity.Role(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if _, err := h.operators.FindByUsername(c.Request.Context(), req.Username); err == nil {
		h.HandleError(c, shared.ErrAlreadyExists)
		return
	}

	if err := h.operators.Save(c.Request.Context(), op); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, operatorView{
		ID:          op.ID.String(),
		Username:    op.Username,
		DisplayName: op.DisplayName,
		Role:        string(op.Role),
	})
}
