package service

import (
	"context"

	"github.com/d4vhost/salesmanager/internal/employee/domain"
	"github.com/d4vhost/salesmanager/internal/employee/repository"
)

type EmployeeService interface {
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, req domain.CreateEmployeeRequest) (*domain.Employee, error)
}

type employeeServiceImpl struct {
	repo repository.EmployeeRepository
}

func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeServiceImpl{repo: repo}
}

func (s *employeeServiceImpl) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *employeeServiceImpl) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.List(ctx)
}

func (s *employeeServiceImpl) CreateEmployee(ctx context.Context, req domain.CreateEmployeeRequest) (*domain.Employee, error) {
	e := &domain.Employee{
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Title:     req.Title,
		HireDate:  req.HireDate,
		City:      req.City,
		Country:   req.Country,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
