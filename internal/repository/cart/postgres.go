package cart

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

const cartColumns = `id::text, customer_id::text, shop_id::text, food_court_id::text, created_at, updated_at`

func (r *postgresRepo) GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	return fetchCart(ctx, r.pool, customerID)
}

func (r *postgresRepo) SaveLine(ctx context.Context, in SaveLineInput) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `
INSERT INTO carts (customer_id, shop_id, food_court_id)
VALUES ($1, $2, $3)
ON CONFLICT (customer_id)
DO UPDATE SET shop_id = EXCLUDED.shop_id, food_court_id = EXCLUDED.food_court_id, updated_at = now()
RETURNING id::text
`, in.CustomerID, in.ShopID, in.FoodCourtID).Scan(&cartID)
	if err != nil {
		return nil, err
	}

	if in.ResetLines {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
			return nil, err
		}
	}

	// One line per menu item: re-adding replaces quantity and selection.
	var lineID string
	err = tx.QueryRow(ctx, `
SELECT id::text FROM cart_lines WHERE cart_id = $1 AND menu_item_id = $2
`, cartID, in.Line.MenuItemID).Scan(&lineID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, unit_price_cents = $2, variant = $3, addons = $4, name = $5, shop_id = $6
WHERE id = $7
`, in.Line.Quantity, in.Line.UnitPriceCents, in.Line.Variant, addOnsOrEmpty(in.Line.AddOns), in.Line.Name, in.Line.ShopID, lineID); err != nil {
			return nil, err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, menu_item_id, shop_id, name, quantity, unit_price_cents, variant, addons)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, cartID, in.Line.MenuItemID, in.Line.ShopID, in.Line.Name, in.Line.Quantity, in.Line.UnitPriceCents, in.Line.Variant, addOnsOrEmpty(in.Line.AddOns)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fetchCart(ctx, r.pool, in.CustomerID)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, customerID, menuItemID string) (*domain.Cart, error) {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE menu_item_id = $1
  AND cart_id = (SELECT id FROM carts WHERE customer_id = $2)
`, menuItemID, customerID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return fetchCart(ctx, r.pool, customerID)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchCart(ctx context.Context, q querier, customerID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := q.QueryRow(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE customer_id = $1
`, customerID).Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.ShopID,
		&cart.FoodCourtID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := q.Query(ctx, `
SELECT id::text, cart_id::text, menu_item_id::text, shop_id::text, name, quantity, unit_price_cents, variant, addons, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.MenuItemID,
			&line.ShopID,
			&line.Name,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.Variant,
			&line.AddOns,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func addOnsOrEmpty(addOns []domain.ChosenAddOn) []domain.ChosenAddOn {
	if addOns == nil {
		return []domain.ChosenAddOn{}
	}
	return addOns
}
