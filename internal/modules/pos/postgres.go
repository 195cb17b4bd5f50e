package pos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL sale repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateSale(ctx context.Context, s *Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales
		  (id, reference_number, warehouse_id, cashier_id, customer_id,
		   subtotal, discount, tax, total, payment_method, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		s.ID, s.ReferenceNumber, s.WarehouseID, s.CashierID, s.CustomerID,
		s.Subtotal, s.Discount, s.Tax, s.Total, s.PaymentMethod, s.Status, s.Notes)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, item := range s.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, s.ID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert sale_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("sale", id)
	}
	s := &Sale{}
	var cashierID, customerID sql.NullString
	err = r.db.QueryRowContext(ctx, `
		SELECT id, reference_number, warehouse_id, cashier_id, customer_id,
		       subtotal, discount, tax, total, payment_method, status, notes, created_at, updated_at
		FROM sales WHERE id = $1`, uid).
		Scan(&s.ID, &s.ReferenceNumber, &s.WarehouseID, &cashierID, &customerID,
			&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.PaymentMethod, &s.Status,
			&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("sale", id)
	}
	if err != nil {
		return nil, err
	}
	if cashierID.Valid {
		cid, _ := uuid.Parse(cashierID.String)
		s.CashierID = &cid
	}
	if customerID.Valid {
		cid, _ := uuid.Parse(customerID.String)
		s.CustomerID = &cid
	}
	s.Items, err = r.listItems(ctx, s.ID)
	return s, err
}

func (r *postgresRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*Sale, error) {
	wid, err := uuid.Parse(warehouseID)
	if err != nil {
		return nil, apperr.NotFound("warehouse", warehouseID)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reference_number, warehouse_id, cashier_id, customer_id,
		       subtotal, discount, tax, total, payment_method, status, notes, created_at, updated_at
		FROM sales WHERE warehouse_id = $1 ORDER BY created_at DESC`, wid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sales []*Sale
	for rows.Next() {
		s := &Sale{}
		var cashierID, customerID sql.NullString
		if err := rows.Scan(&s.ID, &s.ReferenceNumber, &s.WarehouseID, &cashierID, &customerID,
			&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.PaymentMethod, &s.Status,
			&s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if cashierID.Valid {
			cid, _ := uuid.Parse(cashierID.String)
			s.CashierID = &cid
		}
		if customerID.Valid {
			cid, _ := uuid.Parse(customerID.String)
			s.CustomerID = &cid
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status SaleStatus) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("sale", id)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE sales SET status = $1, updated_at = NOW() WHERE id = $2`, status, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("sale", id)
	}
	return nil
}

func (r *postgresRepo) GetProductPrice(ctx context.Context, productID string) (float64, bool, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return 0, false, apperr.NotFound("product", productID)
	}
	var price float64
	var active bool
	err = r.db.QueryRowContext(ctx,
		`SELECT retail_price, is_active FROM products WHERE id = $1`, pid).Scan(&price, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, apperr.NotFound("product", productID)
	}
	return price, active, err
}

func (r *postgresRepo) listItems(ctx context.Context, saleID uuid.UUID) ([]*SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, line_total, created_at
		FROM sale_items WHERE sale_id = $1 ORDER BY created_at ASC`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SaleItem
	for rows.Next() {
		item := &SaleItem{}
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
