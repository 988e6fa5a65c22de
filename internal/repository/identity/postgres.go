package identity

import (
	"context"
	"errors"

	"menumate/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) CustomerByToken(ctx context.Context, token string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx, `
SELECT c.id::text, c.name, c.phone
FROM tokens t
JOIN customers c ON c.id = t.customer_id
WHERE t.token = $1 AND t.expires_at > now()
`, token).Scan(&c.ID, &c.Name, &c.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) VendorByToken(ctx context.Context, token string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.pool.QueryRow(ctx, `
SELECT v.id::text, v.name, v.role
FROM tokens t
JOIN vendors v ON v.id = t.vendor_id
WHERE t.token = $1 AND t.expires_at > now()
`, token).Scan(&v.ID, &v.Name, &v.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
