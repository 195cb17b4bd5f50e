package warehouse

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a stock-holding location with a physical zone layout.
type Warehouse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Zone is the top level of the physical layout inside a warehouse.
type Zone struct {
	ID          uuid.UUID `json:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"created_at"`
}

// Aisle belongs to a zone.
type Aisle struct {
	ID        uuid.UUID `json:"id"`
	ZoneID    uuid.UUID `json:"zone_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Shelf belongs to an aisle.
type Shelf struct {
	ID        uuid.UUID `json:"id"`
	AisleID   uuid.UUID `json:"aisle_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Bin is the smallest addressable location; inventory items may reference
// one. Creating a bin also records its resolved zone in the zone_bins
// membership index so zone-scoped queries never walk the parent chain.
type Bin struct {
	ID        uuid.UUID `json:"id"`
	ShelfID   uuid.UUID `json:"shelf_id"`
	ZoneID    uuid.UUID `json:"zone_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateWarehouseRequest is the payload for creating a warehouse.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address,omitempty"`
}

// CreateZoneRequest is the payload for adding a zone to a warehouse.
type CreateZoneRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CreateLocationRequest is the shared payload for aisles, shelves and bins.
type CreateLocationRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}
