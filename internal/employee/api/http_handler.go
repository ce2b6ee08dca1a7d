package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d4vhost/salesmanager/internal/employee/domain"
	"github.com/d4vhost/salesmanager/internal/employee/repository"
	"github.com/d4vhost/salesmanager/internal/employee/service"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(es service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: es}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	employeeRoutes := router.Group("/employees", authRequired)
	{
		employeeRoutes.GET("", h.ListEmployees)
		employeeRoutes.GET("/:id", h.GetEmployee)
		employeeRoutes.POST("", h.CreateEmployee)
	}
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee id"})
		return
	}
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get employee"})
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.employeeService.ListEmployees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list employees"})
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req domain.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}
	c.JSON(http.StatusCreated, employee)
}
