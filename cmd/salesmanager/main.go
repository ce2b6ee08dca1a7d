package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d4vhost/salesmanager/internal/auth"
	authapi "github.com/d4vhost/salesmanager/internal/auth/api"
	authrepo "github.com/d4vhost/salesmanager/internal/auth/repository"
	authservice "github.com/d4vhost/salesmanager/internal/auth/service"
	customerapi "github.com/d4vhost/salesmanager/internal/customer/api"
	customerrepo "github.com/d4vhost/salesmanager/internal/customer/repository"
	customerservice "github.com/d4vhost/salesmanager/internal/customer/service"
	employeeapi "github.com/d4vhost/salesmanager/internal/employee/api"
	employeerepo "github.com/d4vhost/salesmanager/internal/employee/repository"
	employeeservice "github.com/d4vhost/salesmanager/internal/employee/service"
	"github.com/d4vhost/salesmanager/internal/errorlog"
	orderapi "github.com/d4vhost/salesmanager/internal/order/api"
	orderrepo "github.com/d4vhost/salesmanager/internal/order/repository"
	orderservice "github.com/d4vhost/salesmanager/internal/order/service"
	"github.com/d4vhost/salesmanager/internal/platform/config"
	"github.com/d4vhost/salesmanager/internal/platform/database"
	"github.com/d4vhost/salesmanager/internal/platform/idempotency"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
	productapi "github.com/d4vhost/salesmanager/internal/product/api"
	productrepo "github.com/d4vhost/salesmanager/internal/product/repository"
	productservice "github.com/d4vhost/salesmanager/internal/product/service"
)

func main() {
	dbCfg := config.LoadDBConfig()
	serverCfg := config.LoadServerConfig("8080")
	authCfg := config.LoadAuthConfig()
	jobCfg := config.LoadJobConfig()
	idemCfg := config.LoadIdempotencyConfig()
	orderCfg, err := config.LoadOrderConfig()
	if err != nil {
		logger.Error("Invalid TAX_RATE configuration", err, nil)
		return
	}

	logger.Info("Starting SalesManager API...", nil)

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database", err, nil)
		return
	}
	defer db.Close()

	replayCache, err := idempotency.Open(idemCfg.DBPath)
	if err != nil {
		logger.Error("Failed to open idempotency store", err, nil)
		return
	}
	defer replayCache.Close()

	customerRepository := customerrepo.NewPostgresCustomerRepository(db)
	productRepository := productrepo.NewPostgresProductRepository(db)
	employeeRepository := employeerepo.NewPostgresEmployeeRepository(db)
	userRepository := authrepo.NewPostgresUserRepository(db)
	orderReader := orderrepo.NewPostgresOrderReader(db)
	unitOfWork := orderrepo.NewPostgresUnitOfWork(db)
	errorLogRepository := errorlog.NewPostgresRepository(db)

	customerService := customerservice.NewCustomerService(customerRepository)
	productService := productservice.NewProductService(productRepository, jobCfg.LowStockSpec)
	defer productService.StopScheduler()
	employeeService := employeeservice.NewEmployeeService(employeeRepository)
	authService := authservice.NewAuthService(userRepository, authCfg.JWTSecret)
	orderService := orderservice.NewOrderService(unitOfWork, orderReader, orderCfg.TaxRate)

	router := gin.New()
	router.Use(gin.Logger(), errorlog.RequestID(), errorlog.Recorder(errorLogRepository))

	authRequired := auth.RequireAuth(authCfg.JWTSecret)
	apiV1 := router.Group("/api/v1")
	authapi.NewAuthHandler(authService).RegisterRoutes(apiV1)
	customerapi.NewCustomerHandler(customerService).RegisterRoutes(apiV1, authRequired)
	productapi.NewProductHandler(productService).RegisterRoutes(apiV1, authRequired)
	employeeapi.NewEmployeeHandler(employeeService).RegisterRoutes(apiV1, authRequired)
	orderapi.NewOrderHandler(orderService, replayCache).RegisterRoutes(apiV1, authRequired)

	srv := &http.Server{Addr: serverCfg.Port, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped unexpectedly", err, nil)
		}
	}()
	logger.Info("SalesManager API running", map[string]interface{}{
		"port":     serverCfg.Port,
		"tax_rate": orderCfg.TaxRate.String(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err, nil)
	}
}
