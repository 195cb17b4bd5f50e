package transfer

import "context"

// Repository defines transfer data storage.
type Repository interface {
	// CreateTransfer inserts the transfer and all its items inside a
	// single transaction.
	CreateTransfer(ctx context.Context, t *Transfer) error
	GetByID(ctx context.Context, id string) (*Transfer, error)
	ListByWarehouse(ctx context.Context, warehouseID string, status string) ([]*Transfer, error)
	UpdateStatus(ctx context.Context, id string, status TransferStatus) error
}
