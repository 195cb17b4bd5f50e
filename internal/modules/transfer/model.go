package transfer

import (
	"time"

	"github.com/google/uuid"
)

// TransferStatus represents the lifecycle state of a stock transfer.
type TransferStatus string

const (
	StatusDraft     TransferStatus = "DRAFT"
	StatusInTransit TransferStatus = "IN_TRANSIT"
	StatusReceived  TransferStatus = "RECEIVED"
	StatusCancelled TransferStatus = "CANCELLED"
)

// validTransitions defines the allowed status state machine.
var validTransitions = map[TransferStatus][]TransferStatus{
	StatusDraft:     {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusReceived, StatusCancelled},
	StatusReceived:  {},
	StatusCancelled: {},
}

// CanTransition returns true if the transition from current to next is valid.
func CanTransition(current, next TransferStatus) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Transfer is a stock movement document between two warehouses.
type Transfer struct {
	ID              uuid.UUID       `json:"id"`
	ReferenceNumber string          `json:"reference_number"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id"`
	Status          TransferStatus  `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedByID     *uuid.UUID      `json:"created_by_id,omitempty"`
	Items           []*TransferItem `json:"items,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TransferItem is a single product line within a transfer.
type TransferItem struct {
	ID         uuid.UUID `json:"id"`
	TransferID uuid.UUID `json:"transfer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
	CostPrice  float64   `json:"cost_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransferLine is a transient struct describing one requested line.
type TransferLine struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
}

// CreateTransferRequest is the payload for creating a transfer.
type CreateTransferRequest struct {
	FromWarehouseID string         `json:"from_warehouse_id"`
	ToWarehouseID   string         `json:"to_warehouse_id"`
	Notes           string         `json:"notes,omitempty"`
	Items           []TransferLine `json:"items"`
}

// ReceiveResult reports the received transfer plus any stock lines that
// could not be applied to destination inventory.
type ReceiveResult struct {
	Transfer *Transfer `json:"transfer"`
	Warnings []string  `json:"warnings,omitempty"`
}
