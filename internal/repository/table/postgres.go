package table

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

const columns = `id::text, shop_id::text, table_number, qr_identifier, is_active`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Table, error) {
	return r.fetch(ctx, `SELECT `+columns+` FROM tables WHERE id = $1`, id)
}

func (r *postgresRepo) GetByQRIdentifier(ctx context.Context, qr string) (*domain.Table, error) {
	return r.fetch(ctx, `SELECT `+columns+` FROM tables WHERE qr_identifier = $1`, qr)
}

func (r *postgresRepo) fetch(ctx context.Context, q string, args ...any) (*domain.Table, error) {
	var t domain.Table
	err := r.pool.QueryRow(ctx, q, args...).Scan(&t.ID, &t.ShopID, &t.Number, &t.QRIdentifier, &t.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
