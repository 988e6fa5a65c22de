package shop

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

func (r *postgresRepo) GetShop(ctx context.Context, id string) (*domain.Shop, error) {
	var s domain.Shop
	err := r.pool.QueryRow(ctx, `
SELECT id::text, name, address, owner_id::text, food_court_id::text, is_active, created_at
FROM shops
WHERE id = $1
`, id).Scan(&s.ID, &s.Name, &s.Address, &s.OwnerID, &s.FoodCourtID, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) ListByFoodCourt(ctx context.Context, foodCourtID string) ([]domain.Shop, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, name, address, owner_id::text, food_court_id::text, is_active, created_at
FROM shops
WHERE food_court_id = $1 AND is_active
ORDER BY name
`, foodCourtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		var s domain.Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.OwnerID, &s.FoodCourtID, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

func (r *postgresRepo) GetFoodCourt(ctx context.Context, id string) (*domain.FoodCourt, error) {
	var fc domain.FoodCourt
	err := r.pool.QueryRow(ctx, `
SELECT id::text, name, is_active, created_at
FROM food_courts
WHERE id = $1
`, id).Scan(&fc.ID, &fc.Name, &fc.IsActive, &fc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &fc, nil
}
