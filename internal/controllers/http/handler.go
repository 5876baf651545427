package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"foodies-backend/internal/auth"
	"foodies-backend/internal/infra"
	"foodies-backend/internal/services"
)

type Handler struct {
	orders *services.OrderService
	carts  *services.CartService
	users  *services.UserService
	rdb    *redis.Client
	logger *zap.Logger
}

func NewHandler(orders *services.OrderService, carts *services.CartService, users *services.UserService, rdb *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{
		orders: orders,
		carts:  carts,
		users:  users,
		rdb:    rdb,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)

	api := r.Group("/api", authMW)
	api.POST("/orders/create", h.CreateOrder)
	api.POST("/orders/verify", h.VerifyPayment)
	api.GET("/orders", h.GetMyOrders)
	api.GET("/orders/all", h.GetAllOrders)
	api.DELETE("/orders/:orderId", h.DeleteOrder)
	api.PATCH("/orders/status/:orderId", h.UpdateOrderStatus)
	api.POST("/cart", h.AddToCart)
	api.GET("/cart", h.GetCart)
	api.POST("/cart/remove", h.RemoveFromCart)
	api.DELETE("/cart", h.ClearCart)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Email: req.Email, Token: token})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := auth.UserID(c)
	result, err := h.orders.CreateOrderWithPayment(c.Request.Context(), userID, services.CreateOrderInput{
		UserAddress:  req.UserAddress,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		Amount:       req.Amount,
		OrderStatus:  req.OrderStatus,
		OrderedItems: req.OrderedItems,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.rdb.Del(context.Background(), ordersCacheKey(userID))

	c.JSON(http.StatusCreated, OrderResponse{
		Order:            *result.Order,
		AuthorizationURL: result.AuthorizationURL,
	})
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orders.VerifyPayment(c.Request.Context(), req.Reference); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) GetMyOrders(c *gin.Context) {
	userID := auth.UserID(c)
	cacheKey := ordersCacheKey(userID)
	ctx := c.Request.Context()

	if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var cached []OrderResponse
		if json.Unmarshal([]byte(b), &cached) == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	orders, err := h.orders.GetUserOrders(ctx, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderResponse{Order: o})
	}

	if data, err := json.Marshal(out); err == nil {
		h.rdb.Set(ctx, cacheKey, data, 10*time.Second)
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetAllOrders(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderResponse{Order: o})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	if err := h.orders.RemoveOrder(c.Request.Context(), orderID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("orderId")
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status query parameter required"})
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), orderID, status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, OrderResponse{Order: *order})
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.carts.AddToCart(c.Request.Context(), auth.UserID(c), req.FoodID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.carts.RemoveFromCart(c.Request.Context(), auth.UserID(c), req.FoodID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.ClearForUser(c.Request.Context(), auth.UserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ordersCacheKey(userID string) string {
	return "orders:user:" + userID
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPaymentNotSuccessful):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, infra.ErrGatewayInit), errors.Is(err, infra.ErrGatewayVerify):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
