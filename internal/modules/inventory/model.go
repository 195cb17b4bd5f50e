package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Item is the on-hand quantity of one product at one warehouse, optionally
// pinned to a specific bin.
type Item struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	WarehouseID uuid.UUID  `json:"warehouse_id"`
	BinID       *uuid.UUID `json:"bin_id,omitempty"`
	Quantity    int        `json:"quantity"`
	CostPrice   float64    `json:"cost_price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpsertItemRequest is the payload for setting stock at a location.
type UpsertItemRequest struct {
	ProductID   string  `json:"product_id"`
	WarehouseID string  `json:"warehouse_id"`
	BinID       string  `json:"bin_id,omitempty"`
	Quantity    int     `json:"quantity"`
	CostPrice   float64 `json:"cost_price"`
}

// AdjustRequest is the payload for a relative stock adjustment.
type AdjustRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
}
