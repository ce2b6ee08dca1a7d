package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d4vhost/salesmanager/internal/customer/domain"
	"github.com/d4vhost/salesmanager/internal/customer/repository"
	"github.com/d4vhost/salesmanager/internal/customer/service"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(cs service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	customerRoutes := router.Group("/customers")
	{
		customerRoutes.GET("", h.FindCustomers)
		customerRoutes.GET("/:id", h.GetCustomer)
		customerRoutes.POST("", authRequired, h.CreateCustomer)
	}
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) FindCustomers(c *gin.Context) {
	pageNumber, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	page, err := h.customerService.FindCustomers(c.Request.Context(), c.Query("search"), pageNumber, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search customers"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req domain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}
