package service

import (
	"context"

	"github.com/d4vhost/salesmanager/internal/customer/domain"
	"github.com/d4vhost/salesmanager/internal/customer/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CustomerService interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	FindCustomers(ctx context.Context, searchTerm string, pageNumber, pageSize int) (*domain.CustomerPage, error)
	CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error)
}

type customerServiceImpl struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerServiceImpl{repo: repo}
}

func (s *customerServiceImpl) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *customerServiceImpl) FindCustomers(ctx context.Context, searchTerm string, pageNumber, pageSize int) (*domain.CustomerPage, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	customers, totalCount, err := s.repo.Find(ctx, searchTerm, pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	return &domain.CustomerPage{
		Customers:  customers,
		TotalCount: totalCount,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}, nil
}

func (s *customerServiceImpl) CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	c := &domain.Customer{
		CustomerID:  req.CustomerID,
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
