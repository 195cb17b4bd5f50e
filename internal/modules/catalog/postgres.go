package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	return err
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, sku, description, category_id, cost_price, retail_price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.SKU, p.Description, p.CategoryID, p.CostPrice, p.RetailPrice, p.IsActive)
	return err
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("product", id)
	}
	p, err := r.scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id, name, sku, description, category_id, cost_price, retail_price, is_active, created_at, updated_at
		FROM products WHERE id = $1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product", id)
	}
	return p, err
}

func (r *postgresRepo) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	p, err := r.scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id, name, sku, description, category_id, cost_price, retail_price, is_active, created_at, updated_at
		FROM products WHERE sku = $1`, sku))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product", sku)
	}
	return p, err
}

func (r *postgresRepo) ListProducts(ctx context.Context, search string) ([]*Product, error) {
	query := `
		SELECT id, name, sku, description, category_id, cost_price, retail_price, is_active, created_at, updated_at
		FROM products`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE $1 OR sku ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p := &Product{}
		var categoryID sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &categoryID,
			&p.CostPrice, &p.RetailPrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if categoryID.Valid {
			cid, _ := uuid.Parse(categoryID.String)
			p.CategoryID = &cid
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) scanProduct(row *sql.Row) (*Product, error) {
	p := &Product{}
	var categoryID sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &categoryID,
		&p.CostPrice, &p.RetailPrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		cid, _ := uuid.Parse(categoryID.String)
		p.CategoryID = &cid
	}
	return p, nil
}
