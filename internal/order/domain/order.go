package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate root: it owns its detail lines, and the two are
// persisted together or not at all. Orders are immutable once placed.
type Order struct {
	OrderID    int64     `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	EmployeeID *int64    `json:"employee_id,omitempty"`
	OrderDate  time.Time `json:"order_date"`

	// Shipping snapshot copied from the customer at placement time. Later
	// customer edits never alter a placed order.
	ShipName       string  `json:"ship_name"`
	ShipAddress    *string `json:"ship_address,omitempty"`
	ShipCity       *string `json:"ship_city,omitempty"`
	ShipPostalCode *string `json:"ship_postal_code,omitempty"`
	ShipCountry    *string `json:"ship_country,omitempty"`

	Freight     decimal.Decimal `json:"freight"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`

	Details []OrderDetail `json:"details,omitempty"`
}

// OrderDetail is one order line. UnitPrice is the product's price at the
// moment of sale, not a live reference.
type OrderDetail struct {
	OrderID   int64           `json:"-"`
	ProductID int64           `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

// Subtotal is unitPrice * quantity * (1 - discount), exact decimal.
func (d OrderDetail) Subtotal() decimal.Decimal {
	return d.UnitPrice.
		Mul(decimal.NewFromInt(int64(d.Quantity))).
		Mul(decimal.NewFromInt(1).Sub(d.Discount))
}

type OrderLineRequest struct {
	ProductID int64           `json:"product_id" binding:"required,gt=0"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	Discount  decimal.Decimal `json:"discount"`
}

type PlaceOrderRequest struct {
	CustomerID string             `json:"customer_id" binding:"required"`
	Items      []OrderLineRequest `json:"items" binding:"required"`
	Freight    decimal.Decimal    `json:"freight"`

	// EmployeeID is attributed from the authenticated session, never from
	// the request body.
	EmployeeID *int64 `json:"-"`
}

type PlaceOrderResponse struct {
	OrderID int64 `json:"order_id"`
}

type OrderSummary struct {
	OrderID     int64           `json:"order_id"`
	CustomerID  string          `json:"customer_id"`
	CompanyName string          `json:"company_name"`
	EmployeeID  *int64          `json:"employee_id,omitempty"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type OrderPage struct {
	Orders     []OrderSummary `json:"orders"`
	TotalCount int            `json:"total_count"`
	PageNumber int            `json:"page_number"`
	PageSize   int            `json:"page_size"`
}

type OrderFilter struct {
	CustomerID string
	EmployeeID *int64
	PageNumber int
	PageSize   int
}
