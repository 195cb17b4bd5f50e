package warehouse

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines warehouse and location-hierarchy data storage.
type Repository interface {
	CreateWarehouse(ctx context.Context, w *Warehouse) error
	GetWarehouseByID(ctx context.Context, id string) (*Warehouse, error)
	ListWarehouses(ctx context.Context, activeOnly bool) ([]*Warehouse, error)
	SetWarehouseActive(ctx context.Context, id string, active bool) error

	CreateZone(ctx context.Context, z *Zone) error
	ListZones(ctx context.Context, warehouseID string) ([]*Zone, error)

	CreateAisle(ctx context.Context, a *Aisle) error
	CreateShelf(ctx context.Context, s *Shelf) error

	// ResolveShelfZone walks shelf -> aisle -> zone once, at bin-creation
	// time.
	ResolveShelfZone(ctx context.Context, shelfID string) (uuid.UUID, uuid.UUID, error)

	// CreateBin inserts the bin and its zone_bins membership row atomically.
	CreateBin(ctx context.Context, b *Bin, warehouseID uuid.UUID) error

	// BinsForZones returns the bin ids belonging to any of the given zones,
	// straight from the zone_bins index.
	BinsForZones(ctx context.Context, zoneIDs []string) ([]uuid.UUID, error)
}
