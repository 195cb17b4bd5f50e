package catalog

import (
	"context"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	CreateCategory(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, search string) ([]*Product, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	c := &Category{ID: uuid.New(), Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.SKU == "" {
		return nil, apperr.Validation("sku is required")
	}
	if req.CostPrice < 0 || req.RetailPrice < 0 {
		return nil, apperr.Validation("prices cannot be negative")
	}
	p := &Product{
		ID:          uuid.New(),
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		CostPrice:   req.CostPrice,
		RetailPrice: req.RetailPrice,
		IsActive:    true,
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, apperr.Validation("invalid category_id: %s", req.CategoryID)
		}
		p.CategoryID = &cid
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, search string) ([]*Product, error) {
	return s.repo.ListProducts(ctx, search)
}
