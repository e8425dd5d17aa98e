package products

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendora/vendora/internal/rbac"
	"github.com/vendora/vendora/internal/shared"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
	Ownership(ctx context.Context, id string) (*rbac.Ownership, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const productColumns = `id, vendor_id, name, description, price_cents, is_published, created_at, updated_at`

// Create inserts a new product.
func (r *PGRepository) Create(ctx context.Context, product *Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, vendor_id, name, description, price_cents, is_published, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		product.ID, product.VendorID, product.Name, product.Description,
		product.PriceCents, product.IsPublished, product.CreatedAt, product.UpdatedAt)
	return err
}

// GetByID fetches a product.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// Update persists mutable product fields.
func (r *PGRepository) Update(ctx context.Context, product *Product) error {
	product.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, description = $3, price_cents = $4, is_published = $5, updated_at = $6
		 WHERE id = $1`,
		product.ID, product.Name, product.Description, product.PriceCents,
		product.IsPublished, product.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a product.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ownership loads just the owner fields for the ownership guard. Absent
// products return ErrNotFound.
func (r *PGRepository) Ownership(ctx context.Context, id string) (*rbac.Ownership, error) {
	var vendorID string
	err := r.pool.QueryRow(ctx, `SELECT vendor_id FROM products WHERE id = $1`, id).Scan(&vendorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rbac.Ownership{VendorID: vendorID}, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.VendorID, &p.Name, &p.Description,
		&p.PriceCents, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ Repository = (*PGRepository)(nil)
