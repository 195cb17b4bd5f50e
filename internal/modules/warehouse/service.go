package warehouse

import (
	"context"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
)

// Service defines warehouse and location-hierarchy business logic.
type Service interface {
	CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*Warehouse, error)
	GetWarehouse(ctx context.Context, id string) (*Warehouse, error)
	ListWarehouses(ctx context.Context, activeOnly bool) ([]*Warehouse, error)
	SetActive(ctx context.Context, id string, active bool) error

	CreateZone(ctx context.Context, warehouseID string, req CreateZoneRequest) (*Zone, error)
	ListZones(ctx context.Context, warehouseID string) ([]*Zone, error)
	CreateAisle(ctx context.Context, zoneID string, req CreateLocationRequest) (*Aisle, error)
	CreateShelf(ctx context.Context, aisleID string, req CreateLocationRequest) (*Shelf, error)
	CreateBin(ctx context.Context, shelfID string, req CreateLocationRequest) (*Bin, error)
	BinsForZones(ctx context.Context, zoneIDs []string) ([]uuid.UUID, error)
}

type service struct {
	repo Repository
}

// NewService creates a new warehouse service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*Warehouse, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.Code == "" {
		return nil, apperr.Validation("code is required")
	}
	w := &Warehouse{
		ID:       uuid.New(),
		Name:     req.Name,
		Code:     req.Code,
		Address:  req.Address,
		IsActive: true,
	}
	if err := s.repo.CreateWarehouse(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) GetWarehouse(ctx context.Context, id string) (*Warehouse, error) {
	return s.repo.GetWarehouseByID(ctx, id)
}

func (s *service) ListWarehouses(ctx context.Context, activeOnly bool) ([]*Warehouse, error) {
	return s.repo.ListWarehouses(ctx, activeOnly)
}

func (s *service) SetActive(ctx context.Context, id string, active bool) error {
	return s.repo.SetWarehouseActive(ctx, id, active)
}

func (s *service) CreateZone(ctx context.Context, warehouseID string, req CreateZoneRequest) (*Zone, error) {
	if req.Name == "" || req.Code == "" {
		return nil, apperr.Validation("name and code are required")
	}
	w, err := s.repo.GetWarehouseByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	z := &Zone{
		ID:          uuid.New(),
		WarehouseID: w.ID,
		Name:        req.Name,
		Code:        req.Code,
	}
	if err := s.repo.CreateZone(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *service) ListZones(ctx context.Context, warehouseID string) ([]*Zone, error) {
	return s.repo.ListZones(ctx, warehouseID)
}

func (s *service) CreateAisle(ctx context.Context, zoneID string, req CreateLocationRequest) (*Aisle, error) {
	zid, err := uuid.Parse(zoneID)
	if err != nil {
		return nil, apperr.NotFound("zone", zoneID)
	}
	if req.Name == "" || req.Code == "" {
		return nil, apperr.Validation("name and code are required")
	}
	a := &Aisle{ID: uuid.New(), ZoneID: zid, Name: req.Name, Code: req.Code}
	if err := s.repo.CreateAisle(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) CreateShelf(ctx context.Context, aisleID string, req CreateLocationRequest) (*Shelf, error) {
	aid, err := uuid.Parse(aisleID)
	if err != nil {
		return nil, apperr.NotFound("aisle", aisleID)
	}
	if req.Name == "" || req.Code == "" {
		return nil, apperr.Validation("name and code are required")
	}
	sh := &Shelf{ID: uuid.New(), AisleID: aid, Name: req.Name, Code: req.Code}
	if err := s.repo.CreateShelf(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// CreateBin resolves the shelf's zone once and stores the membership row
// alongside the bin, keeping zone filtering a single index lookup.
func (s *service) CreateBin(ctx context.Context, shelfID string, req CreateLocationRequest) (*Bin, error) {
	if req.Name == "" || req.Code == "" {
		return nil, apperr.Validation("name and code are required")
	}
	sid, err := uuid.Parse(shelfID)
	if err != nil {
		return nil, apperr.NotFound("shelf", shelfID)
	}
	zoneID, warehouseID, err := s.repo.ResolveShelfZone(ctx, shelfID)
	if err != nil {
		return nil, err
	}
	b := &Bin{
		ID:      uuid.New(),
		ShelfID: sid,
		ZoneID:  zoneID,
		Name:    req.Name,
		Code:    req.Code,
	}
	if err := s.repo.CreateBin(ctx, b, warehouseID); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) BinsForZones(ctx context.Context, zoneIDs []string) ([]uuid.UUID, error) {
	return s.repo.BinsForZones(ctx, zoneIDs)
}
