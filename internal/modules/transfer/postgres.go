package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL transfer repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateTransfer inserts the transfer and all its items inside a single
// transaction.
func (r *postgresRepo) CreateTransfer(ctx context.Context, t *Transfer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transfers (id, reference_number, from_warehouse_id, to_warehouse_id, status, notes, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.ReferenceNumber, t.FromWarehouseID, t.ToWarehouseID, t.Status, t.Notes, t.CreatedByID)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}

	for _, item := range t.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transfer_items (id, transfer_id, product_id, quantity, cost_price)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, t.ID, item.ProductID, item.Quantity, item.CostPrice)
		if err != nil {
			return fmt.Errorf("insert transfer_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Transfer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("transfer", id)
	}
	t := &Transfer{}
	var createdBy sql.NullString
	var receivedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, `
		SELECT id, reference_number, from_warehouse_id, to_warehouse_id, status, notes, created_by_id, received_at, created_at, updated_at
		FROM transfers WHERE id = $1`, uid).
		Scan(&t.ID, &t.ReferenceNumber, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status,
			&t.Notes, &createdBy, &receivedAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("transfer", id)
	}
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		cid, _ := uuid.Parse(createdBy.String)
		t.CreatedByID = &cid
	}
	if receivedAt.Valid {
		t.ReceivedAt = &receivedAt.Time
	}
	t.Items, err = r.listItems(ctx, t.ID)
	return t, err
}

func (r *postgresRepo) ListByWarehouse(ctx context.Context, warehouseID string, status string) ([]*Transfer, error) {
	wid, err := uuid.Parse(warehouseID)
	if err != nil {
		return nil, apperr.NotFound("warehouse", warehouseID)
	}
	query := `
		SELECT id, reference_number, from_warehouse_id, to_warehouse_id, status, notes, created_by_id, received_at, created_at, updated_at
		FROM transfers WHERE (from_warehouse_id = $1 OR to_warehouse_id = $1)`
	args := []interface{}{wid}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transfers []*Transfer
	for rows.Next() {
		t := &Transfer{}
		var createdBy sql.NullString
		var receivedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.ReferenceNumber, &t.FromWarehouseID, &t.ToWarehouseID,
			&t.Status, &t.Notes, &createdBy, &receivedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if createdBy.Valid {
			cid, _ := uuid.Parse(createdBy.String)
			t.CreatedByID = &cid
		}
		if receivedAt.Valid {
			t.ReceivedAt = &receivedAt.Time
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status TransferStatus) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("transfer", id)
	}
	var receivedAt interface{}
	if status == StatusReceived {
		receivedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transfers SET status = $1, received_at = COALESCE($2, received_at), updated_at = NOW()
		WHERE id = $3`, status, receivedAt, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("transfer", id)
	}
	return nil
}

func (r *postgresRepo) listItems(ctx context.Context, transferID uuid.UUID) ([]*TransferItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, transfer_id, product_id, quantity, cost_price, created_at
		FROM transfer_items WHERE transfer_id = $1 ORDER BY created_at ASC`, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TransferItem
	for rows.Next() {
		item := &TransferItem{}
		if err := rows.Scan(&item.ID, &item.TransferID, &item.ProductID,
			&item.Quantity, &item.CostPrice, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
