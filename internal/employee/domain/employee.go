package domain

import "time"

type Employee struct {
	EmployeeID int64      `json:"employee_id"`
	LastName   string     `json:"last_name"`
	FirstName  string     `json:"first_name"`
	Title      *string    `json:"title,omitempty"`
	HireDate   *time.Time `json:"hire_date,omitempty"`
	City       *string    `json:"city,omitempty"`
	Country    *string    `json:"country,omitempty"`
}

type CreateEmployeeRequest struct {
	LastName  string     `json:"last_name" binding:"required"`
	FirstName string     `json:"first_name" binding:"required"`
	Title     *string    `json:"title"`
	HireDate  *time.Time `json:"hire_date"`
	City      *string    `json:"city"`
	Country   *string    `json:"country"`
}
