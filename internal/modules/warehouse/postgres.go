package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL warehouse repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateWarehouse(ctx context.Context, w *Warehouse) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO warehouses (id, name, code, address, is_active)
		VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.Name, w.Code, w.Address, w.IsActive)
	return err
}

func (r *postgresRepo) GetWarehouseByID(ctx context.Context, id string) (*Warehouse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("warehouse", id)
	}
	w := &Warehouse{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, code, address, is_active, created_at, updated_at
		FROM warehouses WHERE id = $1`, uid).
		Scan(&w.ID, &w.Name, &w.Code, &w.Address, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("warehouse", id)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *postgresRepo) ListWarehouses(ctx context.Context, activeOnly bool) ([]*Warehouse, error) {
	query := `SELECT id, name, code, address, is_active, created_at, updated_at FROM warehouses`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var warehouses []*Warehouse
	for rows.Next() {
		w := &Warehouse{}
		if err := rows.Scan(&w.ID, &w.Name, &w.Code, &w.Address, &w.IsActive,
			&w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *postgresRepo) SetWarehouseActive(ctx context.Context, id string, active bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("warehouse", id)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE warehouses SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("warehouse", id)
	}
	return nil
}

func (r *postgresRepo) CreateZone(ctx context.Context, z *Zone) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO zones (id, warehouse_id, name, code) VALUES ($1, $2, $3, $4)`,
		z.ID, z.WarehouseID, z.Name, z.Code)
	return err
}

func (r *postgresRepo) ListZones(ctx context.Context, warehouseID string) ([]*Zone, error) {
	uid, err := uuid.Parse(warehouseID)
	if err != nil {
		return nil, apperr.NotFound("warehouse", warehouseID)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, warehouse_id, name, code, created_at
		FROM zones WHERE warehouse_id = $1 ORDER BY code ASC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var zones []*Zone
	for rows.Next() {
		z := &Zone{}
		if err := rows.Scan(&z.ID, &z.WarehouseID, &z.Name, &z.Code, &z.CreatedAt); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (r *postgresRepo) CreateAisle(ctx context.Context, a *Aisle) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO aisles (id, zone_id, name, code) VALUES ($1, $2, $3, $4)`,
		a.ID, a.ZoneID, a.Name, a.Code)
	return err
}

func (r *postgresRepo) CreateShelf(ctx context.Context, s *Shelf) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shelves (id, aisle_id, name, code) VALUES ($1, $2, $3, $4)`,
		s.ID, s.AisleID, s.Name, s.Code)
	return err
}

func (r *postgresRepo) ResolveShelfZone(ctx context.Context, shelfID string) (uuid.UUID, uuid.UUID, error) {
	sid, err := uuid.Parse(shelfID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.NotFound("shelf", shelfID)
	}
	var zoneID, warehouseID uuid.UUID
	err = r.db.QueryRowContext(ctx, `
		SELECT z.id, z.warehouse_id
		FROM shelves s
		JOIN aisles a ON a.id = s.aisle_id
		JOIN zones z ON z.id = a.zone_id
		WHERE s.id = $1`, sid).Scan(&zoneID, &warehouseID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, uuid.Nil, apperr.NotFound("shelf", shelfID)
	}
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return zoneID, warehouseID, nil
}

// CreateBin writes the bin and its membership-index row in one transaction
// so the index can never drift from the hierarchy.
func (r *postgresRepo) CreateBin(ctx context.Context, b *Bin, warehouseID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bins (id, shelf_id, name, code) VALUES ($1, $2, $3, $4)`,
		b.ID, b.ShelfID, b.Name, b.Code)
	if err != nil {
		return fmt.Errorf("insert bin: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO zone_bins (bin_id, zone_id, warehouse_id) VALUES ($1, $2, $3)`,
		b.ID, b.ZoneID, warehouseID)
	if err != nil {
		return fmt.Errorf("insert zone_bins: %w", err)
	}
	return tx.Commit()
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
