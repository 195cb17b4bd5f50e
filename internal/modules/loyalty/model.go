package loyalty

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the customer's loyalty tier, derived from lifetime points.
type Tier string

const (
	TierBronze Tier = "BRONZE"
	TierSilver Tier = "SILVER"
	TierGold   Tier = "GOLD"
)

// TierFor maps lifetime points to a tier.
func TierFor(lifetimePoints int) Tier {
	switch {
	case lifetimePoints >= 5000:
		return TierGold
	case lifetimePoints >= 1000:
		return TierSilver
	default:
		return TierBronze
	}
}

// Customer is a loyalty program member.
type Customer struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	Points         int       `json:"points"`
	LifetimePoints int       `json:"lifetime_points"`
	Tier           Tier      `json:"tier"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TransactionType distinguishes accruals from redemptions.
type TransactionType string

const (
	TypeEarn   TransactionType = "EARN"
	TypeRedeem TransactionType = "REDEEM"
)

// Transaction is one points movement on a customer's account.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	SaleID     *uuid.UUID      `json:"sale_id,omitempty"`
	Type       TransactionType `json:"type"`
	Points     int             `json:"points"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CreateCustomerRequest is the payload for enrolling a customer.
type CreateCustomerRequest struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// RecordTransactionRequest is the payload for a points movement.
type RecordTransactionRequest struct {
	CustomerID string `json:"customer_id"`
	SaleID     string `json:"sale_id,omitempty"`
	Type       string `json:"type"`
	Points     int    `json:"points"`
	Notes      string `json:"notes,omitempty"`
}

// TransactionResult carries the committed transaction; Customer is a
// best-effort enrichment that may be nil when the post-write lookup fails.
type TransactionResult struct {
	Transaction *Transaction `json:"transaction"`
	Customer    *Customer    `json:"customer,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
}
