package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL inventory repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) UpsertItem(ctx context.Context, item *Item) error {
	// One row per (product, warehouse, bin); bin may be null.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (id, product_id, warehouse_id, bin_id, quantity, cost_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, warehouse_id, COALESCE(bin_id, '00000000-0000-0000-0000-000000000000'))
		DO UPDATE SET quantity = EXCLUDED.quantity, cost_price = EXCLUDED.cost_price, updated_at = NOW()`,
		item.ID, item.ProductID, item.WarehouseID, item.BinID, item.Quantity, item.CostPrice)
	return err
}

func (r *postgresRepo) GetItemByID(ctx context.Context, id string) (*Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("inventory item", id)
	}
	item := &Item{}
	var binID sql.NullString
	err = r.db.QueryRowContext(ctx, `
		SELECT id, product_id, warehouse_id, bin_id, quantity, cost_price, created_at, updated_at
		FROM inventory_items WHERE id = $1`, uid).
		Scan(&item.ID, &item.ProductID, &item.WarehouseID, &binID,
			&item.Quantity, &item.CostPrice, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("inventory item", id)
	}
	if err != nil {
		return nil, err
	}
	if binID.Valid {
		bid, _ := uuid.Parse(binID.String)
		item.BinID = &bid
	}
	return item, nil
}

func (r *postgresRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*Item, error) {
	uid, err := uuid.Parse(warehouseID)
	if err != nil {
		return nil, apperr.NotFound("warehouse", warehouseID)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, warehouse_id, bin_id, quantity, cost_price, created_at, updated_at
		FROM inventory_items WHERE warehouse_id = $1 ORDER BY created_at ASC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item := &Item{}
		var binID sql.NullString
		if err := rows.Scan(&item.ID, &item.ProductID, &item.WarehouseID, &binID,
			&item.Quantity, &item.CostPrice, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		if binID.Valid {
			bid, _ := uuid.Parse(binID.String)
			item.BinID = &bid
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("inventory item", id)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory_items SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2 AND quantity + $1 >= 0`, delta, uid)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, apperr.InvalidState("adjustment would make quantity negative or item %s does not exist", id)
	}
	return r.GetItemByID(ctx, id)
}

func (r *postgresRepo) AddStock(ctx context.Context, productID, warehouseID string, qty int, costPrice float64) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return apperr.NotFound("product", productID)
	}
	wid, err := uuid.Parse(warehouseID)
	if err != nil {
		return apperr.NotFound("warehouse", warehouseID)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (id, product_id, warehouse_id, bin_id, quantity, cost_price)
		VALUES ($1, $2, $3, NULL, $4, $5)
		ON CONFLICT (product_id, warehouse_id, COALESCE(bin_id, '00000000-0000-0000-0000-000000000000'))
		DO UPDATE SET quantity = inventory_items.quantity + EXCLUDED.quantity, updated_at = NOW()`,
		uuid.New(), pid, wid, qty, costPrice)
	return err
}

func (r *postgresRepo) DeductStock(ctx context.Context, productID, warehouseID string, qty int) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return apperr.NotFound("product", productID)
	}
	wid, err := uuid.Parse(warehouseID)
	if err != nil {
		return apperr.NotFound("warehouse", warehouseID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, quantity FROM inventory_items
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity > 0
		ORDER BY created_at ASC
		FOR UPDATE`, pid, wid)
	if err != nil {
		return err
	}
	type slot struct {
		id  uuid.UUID
		qty int
	}
	var slots []slot
	onHand := 0
	for rows.Next() {
		var s slot
		if err := rows.Scan(&s.id, &s.qty); err != nil {
			rows.Close()
			return err
		}
		slots = append(slots, s)
		onHand += s.qty
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if onHand < qty {
		return apperr.InvalidState("insufficient stock for product %s: have %d, need %d", productID, onHand, qty)
	}

	remaining := qty
	for _, s := range slots {
		if remaining == 0 {
			break
		}
		take := s.qty
		if take > remaining {
			take = remaining
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE inventory_items SET quantity = quantity - $1, updated_at = NOW()
			WHERE id = $2`, take, s.id)
		if err != nil {
			return err
		}
		remaining -= take
	}

	return tx.Commit()
}
