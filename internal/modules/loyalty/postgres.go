package loyalty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL loyalty repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateCustomer(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, email, phone, first_name, last_name, points, lifetime_points, tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Email, c.Phone, c.FirstName, c.LastName, c.Points, c.LifetimePoints, c.Tier)
	return err
}

func (r *postgresRepo) GetCustomerByID(ctx context.Context, id string) (*Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("customer", id)
	}
	c := &Customer{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, email, phone, first_name, last_name, points, lifetime_points, tier, created_at, updated_at
		FROM customers WHERE id = $1`, uid).
		Scan(&c.ID, &c.Email, &c.Phone, &c.FirstName, &c.LastName,
			&c.Points, &c.LifetimePoints, &c.Tier, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("customer", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListCustomers(ctx context.Context, search string) ([]*Customer, error) {
	query := `
		SELECT id, email, phone, first_name, last_name, points, lifetime_points, tier, created_at, updated_at
		FROM customers`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE email ILIKE $1 OR phone ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []*Customer
	for rows.Next() {
		c := &Customer{}
		if err := rows.Scan(&c.ID, &c.Email, &c.Phone, &c.FirstName, &c.LastName,
			&c.Points, &c.LifetimePoints, &c.Tier, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// RecordTransaction locks the customer row, applies the points delta, and
// inserts the transaction in one transaction.
func (r *postgresRepo) RecordTransaction(ctx context.Context, t *Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var points, lifetime int
	err = tx.QueryRowContext(ctx,
		`SELECT points, lifetime_points FROM customers WHERE id = $1 FOR UPDATE`, t.CustomerID).
		Scan(&points, &lifetime)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("customer", t.CustomerID.String())
	}
	if err != nil {
		return err
	}

	delta := t.Points
	if t.Type == TypeRedeem {
		delta = -t.Points
	}
	newPoints := points + delta
	if newPoints < 0 {
		return apperr.InvalidState("redemption of %d points exceeds balance of %d", t.Points, points)
	}
	newLifetime := lifetime
	if delta > 0 {
		newLifetime += delta
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE customers SET points = $1, lifetime_points = $2, tier = $3, updated_at = NOW()
		WHERE id = $4`,
		newPoints, newLifetime, TierFor(newLifetime), t.CustomerID)
	if err != nil {
		return fmt.Errorf("update customer points: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loyalty_transactions (id, customer_id, sale_id, type, points, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.CustomerID, t.SaleID, t.Type, t.Points, t.Notes)
	if err != nil {
		return fmt.Errorf("insert loyalty_transaction: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepo) ListTransactions(ctx context.Context, customerID string) ([]*Transaction, error) {
	uid, err := uuid.Parse(customerID)
	if err != nil {
		return nil, apperr.NotFound("customer", customerID)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, sale_id, type, points, notes, created_at
		FROM loyalty_transactions WHERE customer_id = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transactions []*Transaction
	for rows.Next() {
		t := &Transaction{}
		var saleID sql.NullString
		if err := rows.Scan(&t.ID, &t.CustomerID, &saleID, &t.Type, &t.Points, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		if saleID.Valid {
			sid, _ := uuid.Parse(saleID.String)
			t.SaleID = &sid
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
