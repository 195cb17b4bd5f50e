package inventory

import "context"

// Repository defines inventory data storage.
type Repository interface {
	UpsertItem(ctx context.Context, item *Item) error
	GetItemByID(ctx context.Context, id string) (*Item, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*Item, error)
	AdjustQuantity(ctx context.Context, id string, delta int) (*Item, error)

	// AddStock increments (or creates) the quantity of a product at a
	// warehouse. Used by transfer receiving.
	AddStock(ctx context.Context, productID, warehouseID string, qty int, costPrice float64) error

	// DeductStock removes quantity of a product across the warehouse,
	// draining bins in order. Fails when on-hand stock is insufficient.
	DeductStock(ctx context.Context, productID, warehouseID string, qty int) error
}
