package vendors

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendora/vendora/internal/shared"
)

// Repository defines persistence operations for vendor profiles.
type Repository interface {
	Create(ctx context.Context, vendor *Vendor) error
	GetByID(ctx context.Context, id string) (*Vendor, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Vendor, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const vendorColumns = `id, user_id, business_name, email, phone_number, address, city, state, status, created_at, updated_at`

// Create inserts a new vendor profile.
func (r *PGRepository) Create(ctx context.Context, vendor *Vendor) error {
	now := time.Now().UTC()
	vendor.CreatedAt = now
	vendor.UpdatedAt = now
	_, err := r.pool.Exec(ctx,
		`INSERT INTO vendors (id, user_id, business_name, email, phone_number, address, city, state, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		vendor.ID, vendor.UserID, vendor.BusinessName, vendor.Email, vendor.PhoneNumber,
		vendor.Address, vendor.City, vendor.State, string(vendor.Status), vendor.CreatedAt, vendor.UpdatedAt)
	return err
}

// GetByID fetches a vendor profile.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*Vendor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
	return scanVendor(row)
}

// UpdateStatus transitions a vendor to the given status and returns the
// updated record.
func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Vendor, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE vendors SET status = $2, updated_at = $3 WHERE id = $1 RETURNING `+vendorColumns,
		id, string(status), time.Now().UTC())
	return scanVendor(row)
}

func scanVendor(row pgx.Row) (*Vendor, error) {
	var (
		v      Vendor
		status string
	)
	err := row.Scan(&v.ID, &v.UserID, &v.BusinessName, &v.Email, &v.PhoneNumber,
		&v.Address, &v.City, &v.State, &status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	v.Status = Status(status)
	return &v, nil
}

var _ Repository = (*PGRepository)(nil)
