package pos

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod represents how a sale was paid.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentCard        PaymentMethod = "CARD"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentVoucher     PaymentMethod = "VOUCHER"
)

// SaleStatus represents the state of a sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleRefunded  SaleStatus = "REFUNDED"
)

// Sale records a point-of-sale checkout at a store.
type Sale struct {
	ID              uuid.UUID     `json:"id"`
	ReferenceNumber string        `json:"reference_number"`
	WarehouseID     uuid.UUID     `json:"warehouse_id"`
	CashierID       *uuid.UUID    `json:"cashier_id,omitempty"`
	CustomerID      *uuid.UUID    `json:"customer_id,omitempty"` // nil for walk-in sales
	Subtotal        float64       `json:"subtotal"`
	Discount        float64       `json:"discount"`
	Tax             float64       `json:"tax"`
	Total           float64       `json:"total"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Status          SaleStatus    `json:"status"`
	Notes           string        `json:"notes,omitempty"`
	Items           []*SaleItem   `json:"items,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// SaleItem is a single line item within a sale.
type SaleItem struct {
	ID        uuid.UUID `json:"id"`
	SaleID    uuid.UUID `json:"sale_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineTotal float64   `json:"line_total"`
	CreatedAt time.Time `json:"created_at"`
}

// CartLine is a transient struct describing one requested line.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateSaleRequest is the payload for recording a checkout.
type CreateSaleRequest struct {
	WarehouseID   string     `json:"warehouse_id"`
	CustomerID    string     `json:"customer_id,omitempty"`
	PaymentMethod string     `json:"payment_method"`
	Items         []CartLine `json:"items"`
	Discount      float64    `json:"discount,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// SaleResult carries the committed sale plus warnings from best-effort
// follow-ups such as loyalty accrual.
type SaleResult struct {
	Sale     *Sale    `json:"sale"`
	Warnings []string `json:"warnings,omitempty"`
}
