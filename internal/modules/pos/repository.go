package pos

import "context"

// Repository defines sale data storage.
type Repository interface {
	// CreateSale inserts the sale and all its items inside a single
	// transaction.
	CreateSale(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, id string) (*Sale, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*Sale, error)
	UpdateStatus(ctx context.Context, id string, status SaleStatus) error

	// GetProductPrice returns the retail price and active flag of a
	// catalog product.
	GetProductPrice(ctx context.Context, productID string) (float64, bool, error)
}
