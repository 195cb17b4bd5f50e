package audit

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an audit.
type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// validTransitions defines the allowed audit state machine.
var validTransitions = map[Status][]Status{
	StatusPlanned:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition returns true if the transition from current to next is valid.
func CanTransition(current, next Status) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// ItemStatus represents the counting state of one audit line.
type ItemStatus string

const (
	ItemPending ItemStatus = "PENDING"
	ItemCounted ItemStatus = "COUNTED"
	// ItemDiscrepancy marks a counted line whose variance is non-zero.
	ItemDiscrepancy ItemStatus = "DISCREPANCY"
	// ItemReconciled is written by the downstream reconciliation process,
	// never by this service.
	ItemReconciled ItemStatus = "RECONCILED"
)

// Audit is a scheduled physical inventory count scoped to a warehouse,
// optionally restricted to a subset of its zones.
type Audit struct {
	ID              uuid.UUID  `json:"id"`
	ReferenceNumber string     `json:"reference_number"`
	WarehouseID     uuid.UUID  `json:"warehouse_id"`
	Status          Status     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedByID     uuid.UUID  `json:"created_by_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Warehouse   *WarehouseRef `json:"warehouse,omitempty"`
	CreatedBy   *UserRef      `json:"created_by,omitempty"`
	Assignments []*Assignment `json:"assignments,omitempty"`
	Items       []*Item       `json:"items,omitempty"`
}

// Item is one product/location line within an audit. ExpectedQuantity is
// snapshotted at plan time and never changes afterwards.
type Item struct {
	ID               uuid.UUID   `json:"id"`
	AuditID          uuid.UUID   `json:"audit_id"`
	ProductID        uuid.UUID   `json:"product_id"`
	InventoryItemID  uuid.UUID   `json:"inventory_item_id"`
	ExpectedQuantity int         `json:"expected_quantity"`
	ActualQuantity   *int        `json:"actual_quantity,omitempty"`
	Variance         *int        `json:"variance,omitempty"`
	Status           ItemStatus  `json:"status"`
	Notes            string      `json:"notes,omitempty"`
	CountedByID      *uuid.UUID  `json:"counted_by_id,omitempty"`
	CountedAt        *time.Time  `json:"counted_at,omitempty"`
	Product          *ProductRef `json:"product,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// Assignment links an audit to a counting user, optionally restricted to a
// set of zones.
type Assignment struct {
	ID            uuid.UUID `json:"id"`
	AuditID       uuid.UUID `json:"audit_id"`
	UserID        uuid.UUID `json:"user_id"`
	AssignedZones []string  `json:"assigned_zones,omitempty"`
	User          *UserRef  `json:"user,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// WarehouseRef is the denormalized warehouse projection embedded in audit
// responses.
type WarehouseRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// UserRef is the denormalized user projection embedded in audit responses.
type UserRef struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
}

// ProductRef is the denormalized product projection embedded in audit items.
type ProductRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	SKU  string    `json:"sku"`
}

// CreateAuditRequest is the payload for planning a new audit.
type CreateAuditRequest struct {
	WarehouseID string   `json:"warehouse_id"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Zones       []string `json:"zones,omitempty"`
	Users       []string `json:"users,omitempty"`
}

// CreateAuditResult is the planning outcome: the created audit plus any
// best-effort steps that failed without aborting the creation.
type CreateAuditResult struct {
	Audit     *Audit   `json:"audit"`
	ItemCount int      `json:"item_count"`
	Warnings  []string `json:"warnings,omitempty"`
}

// CountSubmission is one submitted line count.
type CountSubmission struct {
	ID             string `json:"id"`
	ActualQuantity int    `json:"actual_quantity"`
	Notes          string `json:"notes,omitempty"`
}

// SubmitCountsRequest is the payload for recording physical counts.
// Completion is judged across the whole audit, so the payload carries no
// zone scope; the counting screen filters items via the list endpoint.
type SubmitCountsRequest struct {
	Items []CountSubmission `json:"items"`
}

// CountResult reports how many lines were updated and whether every line of
// the audit has now been counted.
type CountResult struct {
	UpdatedCount int  `json:"updated_count"`
	IsComplete   bool `json:"is_complete"`
}

// ReportSummary is the read-only reporting projection of an audit.
type ReportSummary struct {
	AuditID               uuid.UUID `json:"audit_id"`
	ReferenceNumber       string    `json:"reference_number"`
	Status                Status    `json:"status"`
	TotalItems            int       `json:"total_items"`
	CountedItems          int       `json:"counted_items"`
	PendingItems          int       `json:"pending_items"`
	DiscrepancyItems      int       `json:"discrepancy_items"`
	AccuracyRate          float64   `json:"accuracy_rate"`
	TotalVarianceValue    float64   `json:"total_variance_value"`
	PositiveVarianceValue float64   `json:"positive_variance_value"`
	NegativeVarianceValue float64   `json:"negative_variance_value"`
	GeneratedAt           time.Time `json:"generated_at"`
}

// ReportRow is the raw per-item input to report aggregation. CostPrice is
// the product's first recorded inventory cost, nil when the product has no
// inventory cost record.
type ReportRow struct {
	Status         ItemStatus
	ActualQuantity *int
	Variance       *int
	CostPrice      *float64
}

// ListFilter is the validated filter for audit listings. It is built at the
// API boundary; persistence never sees raw query strings.
type ListFilter struct {
	Status      Status
	WarehouseID string
	Search      string
	Page        int
	PageSize    int
}

// AuditPage is one page of an audit listing.
type AuditPage struct {
	Audits   []*Audit `json:"audits"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}
