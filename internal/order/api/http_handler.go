package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d4vhost/salesmanager/internal/auth"
	"github.com/d4vhost/salesmanager/internal/order/domain"
	"github.com/d4vhost/salesmanager/internal/order/repository"
	"github.com/d4vhost/salesmanager/internal/order/service"
	"github.com/d4vhost/salesmanager/internal/platform/idempotency"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
)

type OrderHandler struct {
	orderService service.OrderService
	replayCache  *idempotency.Store
}

// NewOrderHandler builds the order endpoints. replayCache may be nil to
// disable idempotency-key support.
func NewOrderHandler(os service.OrderService, replayCache *idempotency.Store) *OrderHandler {
	return &OrderHandler{orderService: os, replayCache: replayCache}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	orderRoutes := router.Group("/orders")
	{
		orderRoutes.POST("", authRequired, h.PlaceOrder)
		orderRoutes.GET("/:id", h.GetOrder)
		orderRoutes.GET("", h.FindOrders)
	}
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	idemKey := c.GetHeader("Idempotency-Key")
	if h.replayCache != nil && idemKey != "" {
		if cached, err := h.replayCache.Get(idemKey); err == nil {
			c.Data(cached.Status, "application/json", cached.Body)
			return
		}
	}

	var req domain.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	req.EmployeeID = auth.EmployeeIDFromContext(c)

	orderID, err := h.orderService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.writePlacementError(c, err)
		return
	}

	body, _ := json.Marshal(domain.PlaceOrderResponse{OrderID: orderID})
	if h.replayCache != nil && idemKey != "" {
		if err := h.replayCache.Put(idemKey, idempotency.Response{Status: http.StatusCreated, Body: body}); err != nil {
			// Replay cache is best effort; the order is already committed.
			logger.Error("PlaceOrder Hdl: failed to cache idempotent response", err, nil)
		}
	}
	c.Data(http.StatusCreated, "application/json", body)
}

func (h *OrderHandler) writePlacementError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var nferr *service.NotFoundError
	var brerr *service.BusinessRuleError
	var cerr *service.ConcurrencyConflictError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &nferr):
		c.JSON(http.StatusNotFound, gin.H{"error": nferr.Error()})
	case errors.As(err, &brerr):
		c.JSON(http.StatusBadRequest, gin.H{"error": brerr.Error()})
	case errors.As(err, &cerr):
		c.JSON(http.StatusConflict, gin.H{"error": cerr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
	}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	order, err := h.orderService.GetOrderWithDetails(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) FindOrders(c *gin.Context) {
	filter := domain.OrderFilter{CustomerID: c.Query("customer_id")}
	filter.PageNumber, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if empStr := c.Query("employee_id"); empStr != "" {
		if empID, err := strconv.ParseInt(empStr, 10, 64); err == nil {
			filter.EmployeeID = &empID
		}
	}

	page, err := h.orderService.FindOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, page)
}
