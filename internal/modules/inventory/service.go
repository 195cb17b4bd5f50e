package inventory

import (
	"context"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
)

// Service defines inventory business logic.
type Service interface {
	UpsertItem(ctx context.Context, req UpsertItemRequest) (*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*Item, error)
	Adjust(ctx context.Context, id string, req AdjustRequest) (*Item, error)
	AddStock(ctx context.Context, productID, warehouseID string, qty int, costPrice float64) error
	DeductStock(ctx context.Context, productID, warehouseID string, qty int) error
}

type service struct{ repo Repository }

// NewService creates a new inventory service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) UpsertItem(ctx context.Context, req UpsertItemRequest) (*Item, error) {
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.Validation("invalid product_id: %s", req.ProductID)
	}
	wid, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apperr.Validation("invalid warehouse_id: %s", req.WarehouseID)
	}
	if req.Quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative")
	}
	item := &Item{
		ID:          uuid.New(),
		ProductID:   pid,
		WarehouseID: wid,
		Quantity:    req.Quantity,
		CostPrice:   req.CostPrice,
	}
	if req.BinID != "" {
		bid, err := uuid.Parse(req.BinID)
		if err != nil {
			return nil, apperr.Validation("invalid bin_id: %s", req.BinID)
		}
		item.BinID = &bid
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetItemByID(ctx, id)
}

func (s *service) ListByWarehouse(ctx context.Context, warehouseID string) ([]*Item, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

func (s *service) Adjust(ctx context.Context, id string, req AdjustRequest) (*Item, error) {
	if req.Delta == 0 {
		return nil, apperr.Validation("delta must be non-zero")
	}
	return s.repo.AdjustQuantity(ctx, id, req.Delta)
}

func (s *service) AddStock(ctx context.Context, productID, warehouseID string, qty int, costPrice float64) error {
	if qty <= 0 {
		return apperr.Validation("quantity must be positive")
	}
	return s.repo.AddStock(ctx, productID, warehouseID, qty, costPrice)
}

func (s *service) DeductStock(ctx context.Context, productID, warehouseID string, qty int) error {
	if qty <= 0 {
		return apperr.Validation("quantity must be positive")
	}
	return s.repo.DeductStock(ctx, productID, warehouseID, qty)
}
