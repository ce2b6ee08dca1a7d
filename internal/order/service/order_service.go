package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	customerrepo "github.com/d4vhost/salesmanager/internal/customer/repository"
	"github.com/d4vhost/salesmanager/internal/order/domain"
	"github.com/d4vhost/salesmanager/internal/order/repository"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
	productdomain "github.com/d4vhost/salesmanager/internal/product/domain"
	productrepo "github.com/d4vhost/salesmanager/internal/product/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var one = decimal.NewFromInt(1)

type OrderService interface {
	// PlaceOrder validates the request against inventory and business
	// rules, decrements stock, computes totals, and persists the order and
	// all of its effects atomically. On any error nothing is persisted.
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (int64, error)
	GetOrderWithDetails(ctx context.Context, orderID int64) (*domain.Order, error)
	FindOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error)
}

type orderServiceImpl struct {
	uow     repository.UnitOfWork
	reader  repository.OrderReader
	taxRate decimal.Decimal
}

// NewOrderService builds the placement engine. taxRate is a fraction
// (0.12 for 12%) applied to the order subtotal.
func NewOrderService(uow repository.UnitOfWork, reader repository.OrderReader, taxRate decimal.Decimal) OrderService {
	return &orderServiceImpl{uow: uow, reader: reader, taxRate: taxRate}
}

func (s *orderServiceImpl) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (int64, error) {
	// Shape validation happens before any store access; nothing is staged
	// yet, so failures here need no rollback.
	if err := validateShape(req); err != nil {
		return 0, err
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		return 0, s.internal("PlaceOrder: failed to begin transaction", err)
	}
	defer tx.Rollback()

	customer, err := tx.Customers().GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, customerrepo.ErrCustomerNotFound) {
			return 0, &NotFoundError{Resource: "customer", ID: req.CustomerID}
		}
		return 0, s.internal("PlaceOrder: customer lookup failed", err)
	}

	// First pass: read and validate every line before touching stock, so a
	// late rejection never leaves earlier lines half-applied.
	products := make([]*productdomain.Product, len(req.Items))
	for i, item := range req.Items {
		product, err := tx.Products().GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, productrepo.ErrProductNotFound) {
				return 0, &BusinessRuleError{Reason: "product unavailable", ProductID: item.ProductID}
			}
			return 0, s.internal("PlaceOrder: product lookup failed", err)
		}
		if !product.Sellable() {
			return 0, &BusinessRuleError{Reason: "product unavailable", ProductID: item.ProductID}
		}
		if *product.UnitsInStock < item.Quantity {
			return 0, &BusinessRuleError{
				Reason:    "insufficient stock",
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: *product.UnitsInStock,
			}
		}
		products[i] = product
	}

	order := &domain.Order{
		CustomerID:     req.CustomerID,
		EmployeeID:     req.EmployeeID,
		OrderDate:      time.Now().UTC(),
		ShipName:       customer.CompanyName,
		ShipAddress:    customer.Address,
		ShipCity:       customer.City,
		ShipPostalCode: customer.PostalCode,
		ShipCountry:    customer.Country,
		Freight:        req.Freight,
	}

	// Second pass: decrement stock and capture price snapshots. The
	// version check on each update turns a concurrent sale into a conflict
	// instead of a silent oversell; the deferred rollback discards any
	// decrements already staged.
	subtotal := decimal.Zero
	for i, item := range req.Items {
		product := products[i]
		newStock := *product.UnitsInStock - item.Quantity
		if err := tx.Products().UpdateStock(ctx, product.ProductID, newStock, product.Version); err != nil {
			if errors.Is(err, productrepo.ErrVersionConflict) {
				logger.Warn("PlaceOrder: stock version conflict", map[string]interface{}{
					"product_id": product.ProductID,
				})
				return 0, &ConcurrencyConflictError{ProductID: product.ProductID}
			}
			return 0, s.internal("PlaceOrder: stock update failed", err)
		}

		detail := domain.OrderDetail{
			ProductID: product.ProductID,
			UnitPrice: product.UnitPrice,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		}
		order.Details = append(order.Details, detail)
		subtotal = subtotal.Add(detail.Subtotal())
	}

	order.Subtotal = subtotal
	// Round half away from zero to 2 decimal places.
	order.TaxAmount = subtotal.Mul(s.taxRate).Round(2)
	order.TotalAmount = subtotal.Add(order.TaxAmount).Add(order.Freight)

	if err := tx.Orders().Insert(ctx, order); err != nil {
		return 0, s.internal("PlaceOrder: order insert failed", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, s.internal("PlaceOrder: commit failed", err)
	}

	logger.Info("Order placed", map[string]interface{}{
		"order_id": order.OrderID,
		"subtotal": order.Subtotal.String(),
		"tax":      order.TaxAmount.String(),
		"total":    order.TotalAmount.String(),
	})
	return order.OrderID, nil
}

func validateShape(req domain.PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return &ValidationError{Reason: "order must contain at least one item"}
	}

	seen := make(map[int64]bool, len(req.Items))
	var duplicates []int64
	for _, item := range req.Items {
		if seen[item.ProductID] {
			duplicates = append(duplicates, item.ProductID)
		}
		seen[item.ProductID] = true
	}
	if len(duplicates) > 0 {
		return &ValidationError{Reason: "duplicate products in order", ProductIDs: duplicates}
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return &ValidationError{Reason: "quantity must be positive", ProductIDs: []int64{item.ProductID}}
		}
		if item.Discount.IsNegative() || item.Discount.GreaterThanOrEqual(one) {
			return &ValidationError{Reason: "discount must be in [0, 1)", ProductIDs: []int64{item.ProductID}}
		}
	}
	if req.Freight.IsNegative() {
		return &ValidationError{Reason: "freight must not be negative"}
	}
	return nil
}

// internal logs the cause with full detail and returns an opaque error so
// storage internals never leak to the caller.
func (s *orderServiceImpl) internal(msg string, cause error) error {
	logger.Error(msg, cause, nil)
	return &InternalError{cause: cause}
}

func (s *orderServiceImpl) GetOrderWithDetails(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.reader.GetWithDetails(ctx, orderID)
}

func (s *orderServiceImpl) FindOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	if filter.PageNumber < 1 {
		filter.PageNumber = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	orders, totalCount, err := s.reader.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &domain.OrderPage{
		Orders:     orders,
		TotalCount: totalCount,
		PageNumber: filter.PageNumber,
		PageSize:   filter.PageSize,
	}, nil
}
