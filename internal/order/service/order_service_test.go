package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customerdomain "github.com/d4vhost/salesmanager/internal/customer/domain"
	customerrepo "github.com/d4vhost/salesmanager/internal/customer/repository"
	"github.com/d4vhost/salesmanager/internal/order/domain"
	"github.com/d4vhost/salesmanager/internal/order/service/mocks"
	productdomain "github.com/d4vhost/salesmanager/internal/product/domain"
	productrepo "github.com/d4vhost/salesmanager/internal/product/repository"
)

var taxRate = decimal.RequireFromString("0.12")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

func testCustomer() *customerdomain.Customer {
	addr, city, zip, country := "Av. Amazonas 100", "Quito", "170135", "Ecuador"
	return &customerdomain.Customer{
		CustomerID:  "ALFKI",
		CompanyName: "Alfreds Futterkiste",
		Address:     &addr,
		City:        &city,
		PostalCode:  &zip,
		Country:     &country,
	}
}

func testProduct(id int64, price string, stock int, version int64) *productdomain.Product {
	return &productdomain.Product{
		ProductID:    id,
		ProductName:  "Product",
		UnitPrice:    dec(price),
		UnitsInStock: intPtr(stock),
		Version:      version,
	}
}

func newEngine(tx *mocks.MockTx) (OrderService, *mocks.MockUnitOfWork) {
	uow := new(mocks.MockUnitOfWork)
	if tx != nil {
		uow.On("Begin", mock.Anything).Return(tx, nil)
	}
	return NewOrderService(uow, new(mocks.MockOrderReader), taxRate), uow
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.TODO()
	tx := new(mocks.MockTx)
	tx.On("Commit").Return(nil).Once()
	tx.On("Rollback").Return(nil)

	tx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
	tx.ProductStore.On("GetByID", ctx, int64(1)).Return(testProduct(1, "10.00", 10, 3), nil).Once()
	tx.ProductStore.On("GetByID", ctx, int64(2)).Return(testProduct(2, "5.50", 5, 7), nil).Once()
	tx.ProductStore.On("UpdateStock", ctx, int64(1), 7, int64(3)).Return(nil).Once()
	tx.ProductStore.On("UpdateStock", ctx, int64(2), 3, int64(7)).Return(nil).Once()

	employeeID := int64(9)
	tx.OrderWriter.On("Insert", ctx, mock.MatchedBy(func(o *domain.Order) bool {
		return o.CustomerID == "ALFKI" &&
			o.EmployeeID != nil && *o.EmployeeID == employeeID &&
			o.ShipName == "Alfreds Futterkiste" &&
			o.ShipCity != nil && *o.ShipCity == "Quito" &&
			o.Subtotal.Equal(dec("41.00")) &&
			o.TaxAmount.Equal(dec("4.92")) &&
			o.TotalAmount.Equal(dec("45.92")) &&
			len(o.Details) == 2 &&
			o.Details[0].UnitPrice.Equal(dec("10.00")) &&
			o.Details[0].Quantity == 3 &&
			o.Details[1].UnitPrice.Equal(dec("5.50")) &&
			o.Details[1].Quantity == 2
	})).Return(nil).Once()

	svc, _ := newEngine(tx)
	orderID, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		CustomerID: "ALFKI",
		EmployeeID: &employeeID,
		Items: []domain.OrderLineRequest{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 2},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1042), orderID)
	tx.AssertExpectations(t)
	tx.ProductStore.AssertExpectations(t)
	tx.OrderWriter.AssertExpectations(t)
}

func TestPlaceOrder_FreightAndDiscount(t *testing.T) {
	ctx := context.TODO()
	tx := new(mocks.MockTx)
	tx.On("Commit").Return(nil).Once()
	tx.On("Rollback").Return(nil)

	tx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
	tx.ProductStore.On("GetByID", ctx, int64(1)).Return(testProduct(1, "100.00", 10, 1), nil).Once()
	tx.ProductStore.On("UpdateStock", ctx, int64(1), 8, int64(1)).Return(nil).Once()

	// 100.00 * 2 * (1 - 0.25) = 150.00; tax 18.00; + freight 5.00 = 173.00
	tx.OrderWriter.On("Insert", ctx, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Subtotal.Equal(dec("150.00")) &&
			o.TaxAmount.Equal(dec("18.00")) &&
			o.Freight.Equal(dec("5.00")) &&
			o.TotalAmount.Equal(dec("173.00")) &&
			o.Details[0].Discount.Equal(dec("0.25"))
	})).Return(nil).Once()

	svc, _ := newEngine(tx)
	_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		CustomerID: "ALFKI",
		Freight:    dec("5.00"),
		Items: []domain.OrderLineRequest{
			{ProductID: 1, Quantity: 2, Discount: dec("0.25")},
		},
	})

	assert.NoError(t, err)
	tx.AssertExpectations(t)
}

func TestPlaceOrder_ShapeValidation(t *testing.T) {
	ctx := context.TODO()
	svc, uow := newEngine(nil)

	t.Run("Empty item list", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{CustomerID: "ALFKI"})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Error(), "at least one item")
	})

	t.Run("Duplicate product ids", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: "ALFKI",
			Items: []domain.OrderLineRequest{
				{ProductID: 4, Quantity: 1},
				{ProductID: 4, Quantity: 2},
			},
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, []int64{4}, verr.ProductIDs)
	})

	t.Run("Non-positive quantity", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: "ALFKI",
			Items:      []domain.OrderLineRequest{{ProductID: 4, Quantity: 0}},
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Discount out of range", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: "ALFKI",
			Items:      []domain.OrderLineRequest{{ProductID: 4, Quantity: 1, Discount: dec("1")}},
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	// Shape failures must abort before any store interaction.
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestPlaceOrder_CustomerNotFound(t *testing.T) {
	ctx := context.TODO()
	tx := new(mocks.MockTx)
	tx.On("Rollback").Return(nil).Once()
	tx.CustomerReader.On("GetByID", ctx, "NOPE").Return(nil, customerrepo.ErrCustomerNotFound).Once()

	svc, _ := newEngine(tx)
	_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		CustomerID: "NOPE",
		Items:      []domain.OrderLineRequest{{ProductID: 1, Quantity: 1}},
	})

	var nferr *NotFoundError
	assert.ErrorAs(t, err, &nferr)
	assert.Equal(t, "customer", nferr.Resource)
	tx.AssertNotCalled(t, "Commit")
	tx.AssertExpectations(t)
}

func TestPlaceOrder_ProductUnavailable(t *testing.T) {
	ctx := context.TODO()

	cases := []struct {
		name    string
		product *productdomain.Product
		repoErr error
	}{
		{"Missing product", nil, productrepo.ErrProductNotFound},
		{"Discontinued with stock", &productdomain.Product{ProductID: 1, UnitPrice: dec("10"), UnitsInStock: intPtr(5), Discontinued: true}, nil},
		{"Zero stock", &productdomain.Product{ProductID: 1, UnitPrice: dec("10"), UnitsInStock: intPtr(0)}, nil},
		{"Untracked stock", &productdomain.Product{ProductID: 1, UnitPrice: dec("10")}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := new(mocks.MockTx)
			tx.On("Rollback").Return(nil).Once()
			tx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
			tx.ProductStore.On("GetByID", ctx, int64(1)).Return(tc.product, tc.repoErr).Once()

			svc, _ := newEngine(tx)
			_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
				CustomerID: "ALFKI",
				Items:      []domain.OrderLineRequest{{ProductID: 1, Quantity: 1}},
			})

			var brerr *BusinessRuleError
			assert.ErrorAs(t, err, &brerr)
			assert.Equal(t, "product unavailable", brerr.Reason)
			tx.ProductStore.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			tx.AssertNotCalled(t, "Commit")
		})
	}
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	ctx := context.TODO()
	tx := new(mocks.MockTx)
	tx.On("Rollback").Return(nil).Once()
	tx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
	// First line is fine; the second line's shortage must reject the whole
	// order before any stock is touched.
	tx.ProductStore.On("GetByID", ctx, int64(1)).Return(testProduct(1, "10.00", 10, 1), nil).Once()
	tx.ProductStore.On("GetByID", ctx, int64(2)).Return(testProduct(2, "5.50", 3, 1), nil).Once()

	svc, _ := newEngine(tx)
	_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		CustomerID: "ALFKI",
		Items: []domain.OrderLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 5},
		},
	})

	var brerr *BusinessRuleError
	assert.ErrorAs(t, err, &brerr)
	assert.Equal(t, "insufficient stock", brerr.Reason)
	assert.Equal(t, int64(2), brerr.ProductID)
	assert.Equal(t, 5, brerr.Requested)
	assert.Equal(t, 3, brerr.Available)
	tx.ProductStore.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "Commit")
}

func TestPlaceOrder_ConcurrencyConflict(t *testing.T) {
	ctx := context.TODO()
	tx := new(mocks.MockTx)
	tx.On("Rollback").Return(nil).Once()
	tx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
	tx.ProductStore.On("GetByID", ctx, int64(1)).Return(testProduct(1, "10.00", 10, 3), nil).Once()
	tx.ProductStore.On("UpdateStock", ctx, int64(1), 9, int64(3)).Return(productrepo.ErrVersionConflict).Once()

	svc, _ := newEngine(tx)
	_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		CustomerID: "ALFKI",
		Items:      []domain.OrderLineRequest{{ProductID: 1, Quantity: 1}},
	})

	var cerr *ConcurrencyConflictError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, int64(1), cerr.ProductID)
	tx.AssertNotCalled(t, "Commit")
	tx.OrderWriter.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	tx.AssertExpectations(t)
}

func TestPlaceOrder_PersistenceFailuresAreOpaque(t *testing.T) {
	ctx := context.TODO()
	storeErr := errors.New("pq: deadlock detected")

	t.Run("Insert failure", func(t *testing.T) {
		tx := new(mocks.MockTx)
		tx.On("Rollback").Return(nil).Once()
		tx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
		tx.ProductStore.On("GetByID", ctx, int64(1)).Return(testProduct(1, "10.00", 10, 3), nil).Once()
		tx.ProductStore.On("UpdateStock", ctx, int64(1), 9, int64(3)).Return(nil).Once()
		tx.OrderWriter.On("Insert", ctx, mock.Anything).Return(storeErr).Once()

		svc, _ := newEngine(tx)
		_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: "ALFKI",
			Items:      []domain.OrderLineRequest{{ProductID: 1, Quantity: 1}},
		})

		var ierr *InternalError
		assert.ErrorAs(t, err, &ierr)
		// The caller-visible message must not leak storage detail.
		assert.Equal(t, "internal error", err.Error())
		assert.ErrorIs(t, err, storeErr)
		tx.AssertNotCalled(t, "Commit")
		tx.AssertExpectations(t)
	})

	t.Run("Commit failure", func(t *testing.T) {
		tx := new(mocks.MockTx)
		tx.On("Commit").Return(storeErr).Once()
		tx.On("Rollback").Return(nil)
		tx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
		tx.ProductStore.On("GetByID", ctx, int64(1)).Return(testProduct(1, "10.00", 10, 3), nil).Once()
		tx.ProductStore.On("UpdateStock", ctx, int64(1), 9, int64(3)).Return(nil).Once()
		tx.OrderWriter.On("Insert", ctx, mock.Anything).Return(nil).Once()

		svc, _ := newEngine(tx)
		_, err := svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
			CustomerID: "ALFKI",
			Items:      []domain.OrderLineRequest{{ProductID: 1, Quantity: 1}},
		})

		var ierr *InternalError
		assert.ErrorAs(t, err, &ierr)
		tx.AssertExpectations(t)
	})
}

// Retrying after a transient failure must produce the same outcome as a
// first attempt: the failed call left nothing behind to influence it.
func TestPlaceOrder_RetryAfterInternalError(t *testing.T) {
	ctx := context.TODO()
	req := domain.PlaceOrderRequest{
		CustomerID: "ALFKI",
		Items:      []domain.OrderLineRequest{{ProductID: 1, Quantity: 2}},
	}

	uow := new(mocks.MockUnitOfWork)

	failTx := new(mocks.MockTx)
	failTx.On("Rollback").Return(nil).Once()
	failTx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
	failTx.ProductStore.On("GetByID", ctx, int64(1)).Return(testProduct(1, "10.00", 10, 3), nil).Once()
	failTx.ProductStore.On("UpdateStock", ctx, int64(1), 8, int64(3)).Return(nil).Once()
	failTx.OrderWriter.On("Insert", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

	okTx := new(mocks.MockTx)
	okTx.On("Commit").Return(nil).Once()
	okTx.On("Rollback").Return(nil)
	okTx.CustomerReader.On("GetByID", ctx, "ALFKI").Return(testCustomer(), nil).Once()
	// The rollback restored stock and version, so the retry sees the same
	// snapshot the first attempt saw.
	okTx.ProductStore.On("GetByID", ctx, int64(1)).Return(testProduct(1, "10.00", 10, 3), nil).Once()
	okTx.ProductStore.On("UpdateStock", ctx, int64(1), 8, int64(3)).Return(nil).Once()
	okTx.OrderWriter.On("Insert", ctx, mock.Anything).Return(nil).Once()

	uow.On("Begin", ctx).Return(failTx, nil).Once()
	uow.On("Begin", ctx).Return(okTx, nil).Once()

	svc := NewOrderService(uow, new(mocks.MockOrderReader), taxRate)

	_, err := svc.PlaceOrder(ctx, req)
	var ierr *InternalError
	assert.ErrorAs(t, err, &ierr)

	orderID, err := svc.PlaceOrder(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, int64(1042), orderID)
	failTx.AssertExpectations(t)
	okTx.AssertExpectations(t)
}

func TestFindOrders_PageDefaults(t *testing.T) {
	ctx := context.TODO()
	reader := new(mocks.MockOrderReader)
	svc := NewOrderService(new(mocks.MockUnitOfWork), reader, taxRate)

	reader.On("Find", ctx, domain.OrderFilter{PageNumber: 1, PageSize: 20}).
		Return([]domain.OrderSummary{}, 0, nil).Once()

	page, err := svc.FindOrders(ctx, domain.OrderFilter{PageNumber: 0, PageSize: -5})

	assert.NoError(t, err)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 20, page.PageSize)
	reader.AssertExpectations(t)
}
