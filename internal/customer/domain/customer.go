package domain

// Customer is read-only input to order placement. The shipping snapshot on
// an order is copied from these fields at placement time.
type Customer struct {
	CustomerID  string  `json:"customer_id"`
	CompanyName string  `json:"company_name"`
	ContactName *string `json:"contact_name,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	Country     *string `json:"country,omitempty"`
}

type CreateCustomerRequest struct {
	CustomerID  string  `json:"customer_id" binding:"required,max=10"`
	CompanyName string  `json:"company_name" binding:"required"`
	ContactName *string `json:"contact_name"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	Country     *string `json:"country"`
}

type CustomerPage struct {
	Customers  []Customer `json:"customers"`
	TotalCount int        `json:"total_count"`
	PageNumber int        `json:"page_number"`
	PageSize   int        `json:"page_size"`
}
