package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines audit data storage.
type Repository interface {
	// CountCreatedBetween returns how many audits were created inside the
	// given time window. Feeds daily reference-number sequencing.
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)

	// CreatePlan inserts the audit and snapshots every qualifying inventory
	// item (quantity > 0, optionally restricted to the given bins) into
	// audit items, all inside a single transaction with a 15 second
	// timeout. Returns the number of items created. Any failure rolls the
	// whole plan back.
	CreatePlan(ctx context.Context, a *Audit, binFilter []uuid.UUID) (int, error)

	// InsertAssignment writes one assignment row. Called post-commit,
	// best-effort.
	InsertAssignment(ctx context.Context, asg *Assignment) error

	GetHeader(ctx context.Context, id string) (*Audit, error)
	GetByID(ctx context.Context, id string) (*Audit, error)
	List(ctx context.Context, f ListFilter) ([]*Audit, int, error)
	UpdateStatus(ctx context.Context, id string, status Status, endDate *time.Time) error

	GetItem(ctx context.Context, itemID string) (*Item, error)
	ListItems(ctx context.Context, auditID string) ([]*Item, error)
	ListItemsByZone(ctx context.Context, auditID, zoneID string) ([]*Item, error)
	UpdateItemCount(ctx context.Context, item *Item) error
	CountUncounted(ctx context.Context, auditID string) (int, error)
	ListReportRows(ctx context.Context, auditID string) ([]*ReportRow, error)

	// BinsForZones resolves zone ids to bin ids via the zone_bins
	// membership index.
	BinsForZones(ctx context.Context, zoneIDs []string) ([]uuid.UUID, error)

	WarehouseExists(ctx context.Context, id string) (bool, error)
	UserExists(ctx context.Context, id string) (bool, error)
}
