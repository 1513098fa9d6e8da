package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gomarket/internal/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ Products = (*ProductRepository)(nil)

const (
	insertProductSQL = `
		INSERT INTO products (owner_id, name, price_cents, description, image_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectProductSQL = `
		SELECT id, owner_id, name, price_cents, description, image_ref, created_at, updated_at
		FROM products WHERE id = ?
	`
	updateProductSQL = `
		UPDATE products SET name = ?, price_cents = ?, description = ?, image_ref = ?, updated_at = ?
		WHERE id = ?
	`
	deleteProductSQL = `DELETE FROM products WHERE id = ?`

	selectAllProductsSQL = `
		SELECT id, owner_id, name, price_cents, description, image_ref, created_at, updated_at
		FROM products ORDER BY id ASC
	`
	selectProductsByOwnerSQL = `
		SELECT id, owner_id, name, price_cents, description, image_ref, created_at, updated_at
		FROM products WHERE owner_id = ? ORDER BY id ASC
	`
)

// Create inserts a new product row and returns its ID.
// Zero timestamps are filled with the current UTC time.
func (r *ProductRepository) Create(ctx context.Context, p models.Product) (int64, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	res, err := r.db.ExecContext(ctx, insertProductSQL,
		p.OwnerID, p.Name, p.PriceCents, p.Description, p.ImageRef,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert product %q: %w", p.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for product %q: %w", p.Name, err)
	}
	return id, nil
}

// ByID fetches a product. Returns (nil, nil) if not found.
func (r *ProductRepository) ByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx, selectProductSQL, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.PriceCents, &p.Description, &p.ImageRef,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select product %d: %w", id, err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// Update overwrites the mutable fields of an existing row.
func (r *ProductRepository) Update(ctx context.Context, p models.Product) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, updateProductSQL,
		p.Name, p.PriceCents, p.Description, p.ImageRef, p.UpdatedAt.UTC(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the row.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// All returns every product in insertion order.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, selectAllProductsSQL)
}

// ByOwner returns the given user's products in insertion order.
func (r *ProductRepository) ByOwner(ctx context.Context, ownerID int64) ([]models.Product, error) {
	return r.list(ctx, selectProductsByOwnerSQL, ownerID)
}

func (r *ProductRepository) list(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]models.Product, 0, 16)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.PriceCents, &p.Description, &p.ImageRef,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
