package loyalty

import "context"

// Repository defines loyalty data storage.
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomerByID(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context, search string) ([]*Customer, error)

	// RecordTransaction applies the points movement and inserts the
	// transaction row atomically. Fails with InvalidStateError when a
	// redemption exceeds the balance.
	RecordTransaction(ctx context.Context, t *Transaction) error

	ListTransactions(ctx context.Context, customerID string) ([]*Transaction, error)
}
