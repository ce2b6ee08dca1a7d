package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/d4vhost/salesmanager/internal/platform/logger"
	"github.com/d4vhost/salesmanager/internal/product/domain"
	"github.com/d4vhost/salesmanager/internal/product/repository"
)

type ProductService interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListSellableProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	AdjustStock(ctx context.Context, id int64, newStock int) (*domain.Product, error)
	ReportLowStock(ctx context.Context)
	StopScheduler()
}

type productServiceImpl struct {
	repo      repository.ProductRepository
	scheduler *cron.Cron
}

// NewProductService starts a background job on cronSpec that reports
// products at or below their reorder level. Pass an empty spec to disable
// the scheduler (tests).
func NewProductService(repo repository.ProductRepository, cronSpec string) ProductService {
	s := &productServiceImpl{repo: repo}
	if cronSpec != "" {
		s.scheduler = cron.New()
		s.scheduler.AddFunc(cronSpec, func() {
			s.ReportLowStock(context.Background())
		})
		s.scheduler.Start()
		logger.Info("Low-stock monitor scheduled", map[string]interface{}{"spec": cronSpec})
	}
	return s
}

func (s *productServiceImpl) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// ReportLowStock logs a warning per product that needs reordering. It is
// advisory only; nothing is mutated.
func (s *productServiceImpl) ReportLowStock(ctx context.Context) {
	products, err := s.repo.ListBelowReorderLevel(ctx)
	if err != nil {
		logger.Error("ReportLowStock: failed to list products", err, nil)
		return
	}
	for _, p := range products {
		stock := 0
		if p.UnitsInStock != nil {
			stock = *p.UnitsInStock
		}
		logger.Warn("Product at or below reorder level", map[string]interface{}{
			"product_id":     p.ProductID,
			"product_name":   p.ProductName,
			"units_in_stock": stock,
			"reorder_level":  p.ReorderLevel,
		})
	}
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *productServiceImpl) ListSellableProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListSellable(ctx)
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price must not be negative")
	}
	p := &domain.Product{
		ProductName:  req.ProductName,
		UnitPrice:    req.UnitPrice,
		UnitsInStock: req.UnitsInStock,
		ReorderLevel: req.ReorderLevel,
		Discontinued: req.Discontinued,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AdjustStock is the administrative stock override. It re-reads on version
// conflict so an admin correction does not fail behind a concurrent sale.
func (s *productServiceImpl) AdjustStock(ctx context.Context, id int64, newStock int) (*domain.Product, error) {
	for {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		err = s.repo.UpdateStock(ctx, id, newStock, p.Version)
		if err == nil {
			p.UnitsInStock = &newStock
			p.Version++
			return p, nil
		}
		if err != repository.ErrVersionConflict {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
}
