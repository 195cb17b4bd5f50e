package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// planTxTimeout bounds the audit-creation transaction. If exceeded, the
// whole plan rolls back.
const planTxTimeout = 15 * time.Second

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL audit repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audits WHERE created_at BETWEEN $1 AND $2`, from, to).Scan(&n)
	return n, err
}

type snapshotRow struct {
	inventoryItemID uuid.UUID
	productID       uuid.UUID
	quantity        int
}

// CreatePlan inserts the audit row, snapshots the qualifying inventory
// items, and writes one audit item per snapshot row, all in one
// transaction.
func (r *postgresRepo) CreatePlan(ctx context.Context, a *Audit, binFilter []uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, planTxTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audits (id, reference_number, warehouse_id, status, start_date, end_date, notes, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.ReferenceNumber, a.WarehouseID, a.Status, a.StartDate, a.EndDate, a.Notes, a.CreatedByID)
	if err != nil {
		return 0, fmt.Errorf("insert audit: %w", err)
	}

	query := `
		SELECT id, product_id, quantity FROM inventory_items
		WHERE warehouse_id = $1 AND quantity > 0`
	args := []interface{}{a.WarehouseID}
	if len(binFilter) > 0 {
		query += ` AND bin_id = ANY($2::uuid[])`
		ids := make([]string, len(binFilter))
		for i, b := range binFilter {
			ids[i] = b.String()
		}
		args = append(args, pq.Array(ids))
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("snapshot inventory: %w", err)
	}
	var snapshot []snapshotRow
	for rows.Next() {
		var s snapshotRow
		if err := rows.Scan(&s.inventoryItemID, &s.productID, &s.quantity); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan inventory snapshot: %w", err)
		}
		snapshot = append(snapshot, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("snapshot inventory: %w", err)
	}
	rows.Close()

	for _, s := range snapshot {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_items (id, audit_id, product_id, inventory_item_id, expected_quantity, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), a.ID, s.productID, s.inventoryItemID, s.quantity, ItemPending)
		if err != nil {
			return 0, fmt.Errorf("insert audit_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(snapshot), nil
}

func (r *postgresRepo) InsertAssignment(ctx context.Context, asg *Assignment) error {
	var zones interface{}
	if len(asg.AssignedZones) > 0 {
		b, err := json.Marshal(asg.AssignedZones)
		if err != nil {
			return err
		}
		zones = string(b)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_assignments (id, audit_id, user_id, assigned_zones)
		VALUES ($1, $2, $3, $4)`,
		asg.ID, asg.AuditID, asg.UserID, zones)
	return err
}

func (r *postgresRepo) GetHeader(ctx context.Context, id string) (*Audit, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("audit", id)
	}
	a := &Audit{}
	var endDate sql.NullTime
	err = r.db.QueryRowContext(ctx, `
		SELECT id, reference_number, warehouse_id, status, start_date, end_date, notes, created_by_id, created_at, updated_at
		FROM audits WHERE id = $1`, uid).
		Scan(&a.ID, &a.ReferenceNumber, &a.WarehouseID, &a.Status, &a.StartDate,
			&endDate, &a.Notes, &a.CreatedByID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("audit", id)
	}
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		a.EndDate = &endDate.Time
	}
	return a, nil
}

// GetByID returns the audit enriched with its warehouse, creator,
// assignments (with users) and items (with products).
func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Audit, error) {
	a, err := r.GetHeader(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Warehouse = &WarehouseRef{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, code FROM warehouses WHERE id = $1`, a.WarehouseID).
		Scan(&a.Warehouse.ID, &a.Warehouse.Name, &a.Warehouse.Code)
	if err != nil {
		return nil, fmt.Errorf("load audit warehouse: %w", err)
	}

	a.CreatedBy = &UserRef{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name FROM users WHERE id = $1`, a.CreatedByID).
		Scan(&a.CreatedBy.ID, &a.CreatedBy.Email, &a.CreatedBy.FirstName, &a.CreatedBy.LastName)
	if err != nil {
		return nil, fmt.Errorf("load audit creator: %w", err)
	}

	a.Assignments, err = r.listAssignments(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Items, err = r.ListItems(ctx, a.ID.String())
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) listAssignments(ctx context.Context, auditID uuid.UUID) ([]*Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT aa.id, aa.audit_id, aa.user_id, aa.assigned_zones, aa.created_at,
		       u.id, u.email, u.first_name, u.last_name
		FROM audit_assignments aa
		JOIN users u ON u.id = aa.user_id
		WHERE aa.audit_id = $1 ORDER BY aa.created_at ASC`, auditID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var assignments []*Assignment
	for rows.Next() {
		asg := &Assignment{User: &UserRef{}}
		var zones sql.NullString
		if err := rows.Scan(&asg.ID, &asg.AuditID, &asg.UserID, &zones, &asg.CreatedAt,
			&asg.User.ID, &asg.User.Email, &asg.User.FirstName, &asg.User.LastName); err != nil {
			return nil, err
		}
		if zones.Valid {
			if err := json.Unmarshal([]byte(zones.String), &asg.AssignedZones); err != nil {
				return nil, fmt.Errorf("decode assigned_zones: %w", err)
			}
		}
		assignments = append(assignments, asg)
	}
	return assignments, rows.Err()
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]*Audit, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.Status != "" {
		n++
		where += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, f.Status)
	}
	if f.WarehouseID != "" {
		n++
		where += fmt.Sprintf(` AND warehouse_id = $%d`, n)
		args = append(args, f.WarehouseID)
	}
	if f.Search != "" {
		n++
		where += fmt.Sprintf(` AND (reference_number ILIKE $%d OR notes ILIKE $%d)`, n, n)
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audits`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, reference_number, warehouse_id, status, start_date, end_date, notes, created_by_id, created_at, updated_at
		FROM audits` + where + ` ORDER BY created_at DESC`
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var audits []*Audit
	for rows.Next() {
		a := &Audit{}
		var endDate sql.NullTime
		if err := rows.Scan(&a.ID, &a.ReferenceNumber, &a.WarehouseID, &a.Status, &a.StartDate,
			&endDate, &a.Notes, &a.CreatedByID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if endDate.Valid {
			a.EndDate = &endDate.Time
		}
		audits = append(audits, a)
	}
	return audits, total, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status Status, endDate *time.Time) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("audit", id)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE audits SET status = $1, end_date = COALESCE($2, end_date), updated_at = NOW()
		WHERE id = $3`, status, endDate, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("audit", id)
	}
	return nil
}

const itemColumns = `
	ai.id, ai.audit_id, ai.product_id, ai.inventory_item_id, ai.expected_quantity,
	ai.actual_quantity, ai.variance, ai.status, ai.notes, ai.counted_by_id, ai.counted_at, ai.created_at,
	p.id, p.name, p.sku`

func (r *postgresRepo) GetItem(ctx context.Context, itemID string) (*Item, error) {
	uid, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperr.NotFound("audit item", itemID)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+itemColumns+`
		FROM audit_items ai JOIN products p ON p.id = ai.product_id
		WHERE ai.id = $1`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperr.NotFound("audit item", itemID)
	}
	return scanItem(rows)
}

func (r *postgresRepo) ListItems(ctx context.Context, auditID string) ([]*Item, error) {
	uid, err := uuid.Parse(auditID)
	if err != nil {
		return nil, apperr.NotFound("audit", auditID)
	}
	return r.queryItems(ctx, `
		SELECT`+itemColumns+`
		FROM audit_items ai JOIN products p ON p.id = ai.product_id
		WHERE ai.audit_id = $1 ORDER BY ai.created_at ASC`, uid)
}

// ListItemsByZone scopes items to a zone through the zone_bins membership
// index of each item's source bin.
func (r *postgresRepo) ListItemsByZone(ctx context.Context, auditID, zoneID string) ([]*Item, error) {
	aid, err := uuid.Parse(auditID)
	if err != nil {
		return nil, apperr.NotFound("audit", auditID)
	}
	zid, err := uuid.Parse(zoneID)
	if err != nil {
		return nil, apperr.NotFound("zone", zoneID)
	}
	return r.queryItems(ctx, `
		SELECT`+itemColumns+`
		FROM audit_items ai
		JOIN products p ON p.id = ai.product_id
		JOIN inventory_items ii ON ii.id = ai.inventory_item_id
		JOIN zone_bins zb ON zb.bin_id = ii.bin_id
		WHERE ai.audit_id = $1 AND zb.zone_id = $2
		ORDER BY ai.created_at ASC`, aid, zid)
}

func (r *postgresRepo) queryItems(ctx context.Context, query string, args ...interface{}) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(rows *sql.Rows) (*Item, error) {
	item := &Item{Product: &ProductRef{}}
	var actual, variance sql.NullInt64
	// notes is NULL until the first count writes it, like the other
	// count-time columns.
	var notes, countedBy sql.NullString
	var countedAt sql.NullTime
	err := rows.Scan(&item.ID, &item.AuditID, &item.ProductID, &item.InventoryItemID,
		&item.ExpectedQuantity, &actual, &variance, &item.Status, &notes,
		&countedBy, &countedAt, &item.CreatedAt,
		&item.Product.ID, &item.Product.Name, &item.Product.SKU)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		item.Notes = notes.String
	}
	if actual.Valid {
		v := int(actual.Int64)
		item.ActualQuantity = &v
	}
	if variance.Valid {
		v := int(variance.Int64)
		item.Variance = &v
	}
	if countedBy.Valid {
		uid, _ := uuid.Parse(countedBy.String)
		item.CountedByID = &uid
	}
	if countedAt.Valid {
		item.CountedAt = &countedAt.Time
	}
	return item, nil
}

func (r *postgresRepo) UpdateItemCount(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE audit_items
		SET actual_quantity = $1, variance = $2, status = $3, notes = $4,
		    counted_by_id = $5, counted_at = $6
		WHERE id = $7`,
		item.ActualQuantity, item.Variance, item.Status, item.Notes,
		item.CountedByID, item.CountedAt, item.ID)
	return err
}

func (r *postgresRepo) CountUncounted(ctx context.Context, auditID string) (int, error) {
	uid, err := uuid.Parse(auditID)
	if err != nil {
		return 0, apperr.NotFound("audit", auditID)
	}
	var n int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_items WHERE audit_id = $1 AND actual_quantity IS NULL`, uid).Scan(&n)
	return n, err
}

// ListReportRows joins each item with its product's first recorded
// inventory cost.
func (r *postgresRepo) ListReportRows(ctx context.Context, auditID string) ([]*ReportRow, error) {
	uid, err := uuid.Parse(auditID)
	if err != nil {
		return nil, apperr.NotFound("audit", auditID)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT ai.status, ai.actual_quantity, ai.variance, cost.cost_price
		FROM audit_items ai
		LEFT JOIN LATERAL (
			SELECT cost_price FROM inventory_items
			WHERE product_id = ai.product_id
			ORDER BY created_at ASC LIMIT 1
		) cost ON TRUE
		WHERE ai.audit_id = $1`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var report []*ReportRow
	for rows.Next() {
		row := &ReportRow{}
		var actual, variance sql.NullInt64
		var cost sql.NullFloat64
		if err := rows.Scan(&row.Status, &actual, &variance, &cost); err != nil {
			return nil, err
		}
		if actual.Valid {
			v := int(actual.Int64)
			row.ActualQuantity = &v
		}
		if variance.Valid {
			v := int(variance.Int64)
			row.Variance = &v
		}
		if cost.Valid {
			row.CostPrice = &cost.Float64
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func (r *postgresRepo) BinsForZones(ctx context.Context, zoneIDs []string) ([]uuid.UUID, error) {
	if len(zoneIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT bin_id FROM zone_bins WHERE zone_id = ANY($1::uuid[])`, pq.Array(zoneIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bins []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		bins = append(bins, id)
	}
	return bins, rows.Err()
}

func (r *postgresRepo) WarehouseExists(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM warehouses WHERE id = $1)`, uid).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) UserExists(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, uid).Scan(&exists)
	return exists, err
}
