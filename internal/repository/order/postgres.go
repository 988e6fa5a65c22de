package order

import (
	"context"
	"errors"

	"menumate/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const uniqueViolation = "23505"

func (r *postgresRepo) CreatePlacement(ctx context.Context, p *Placement) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if p.Parent != nil {
		err := tx.QueryRow(ctx, `
INSERT INTO parent_orders (short_order_id, customer_id, food_court_id, table_id, total_cents, payment_method, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text, created_at
`, p.Parent.ShortID, p.Parent.CustomerID, p.Parent.FoodCourtID, p.Parent.TableID,
			p.Parent.TotalCents, p.Parent.PaymentMethod, p.Parent.PaymentStatus,
		).Scan(&p.Parent.ID, &p.Parent.CreatedAt)
		if err != nil {
			return mapUnique(err)
		}
	}

	for _, o := range p.Orders {
		if p.Parent != nil {
			o.ParentOrderID = &p.Parent.ID
		}
		err := tx.QueryRow(ctx, `
INSERT INTO orders (short_order_id, parent_order_id, customer_id, shop_id, table_id, subtotal_cents, total_cents, order_status, payment_method, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text, created_at
`, o.ShortID, o.ParentOrderID, o.CustomerID, o.ShopID, o.TableID,
			o.SubtotalCents, o.TotalCents, o.Status, o.PaymentMethod, o.PaymentStatus,
		).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			return mapUnique(err)
		}

		for i := range o.Lines {
			line := &o.Lines[i]
			line.OrderID = o.ID
			err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, menu_item_id, name, unit_price_cents, quantity, variant, addons, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text
`, o.ID, line.MenuItemID, line.Name, line.UnitPriceCents, line.Quantity, line.Variant, addOnsOrEmpty(line.AddOns), i,
			).Scan(&line.ID)
			if err != nil {
				return err
			}
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, p.CartID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if p.Parent != nil {
		for _, o := range p.Orders {
			p.Parent.SubOrders = append(p.Parent.SubOrders, *o)
		}
	}
	return nil
}

const orderColumns = `
id::text, short_order_id, parent_order_id::text, customer_id::text, shop_id::text, table_id::text,
subtotal_cents, total_cents, order_status, payment_method, payment_status, completed_at, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := r.fetchOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) GetParentByID(ctx context.Context, id string) (*domain.ParentOrder, error) {
	var parent domain.ParentOrder
	err := r.pool.QueryRow(ctx, `
SELECT id::text, short_order_id, customer_id::text, food_court_id::text, table_id::text, total_cents, payment_method, payment_status, created_at
FROM parent_orders
WHERE id = $1
`, id).Scan(
		&parent.ID,
		&parent.ShortID,
		&parent.CustomerID,
		&parent.FoodCourtID,
		&parent.TableID,
		&parent.TotalCents,
		&parent.PaymentMethod,
		&parent.PaymentStatus,
		&parent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	children, err := r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE parent_order_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, err
	}
	parent.SubOrders = children
	return &parent, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *postgresRepo) ListByShop(ctx context.Context, shopID string, status *domain.OrderStatus) ([]domain.Order, error) {
	if status != nil {
		return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE shop_id = $1 AND order_status = $2 ORDER BY created_at DESC`, shopID, *status)
	}
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE shop_id = $1 ORDER BY created_at DESC`, shopID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	o, err := r.fetchOrder(ctx, `
UPDATE orders
SET order_status = $1,
    completed_at = CASE WHEN $1 = 'Completed' THEN now() ELSE completed_at END
WHERE id = $2
RETURNING `+orderColumns, status, orderID)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *postgresRepo) CountParentOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM parent_orders`).Scan(&n)
	return n, err
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, args ...any) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&o.ID,
		&o.ShortID,
		&o.ParentOrderID,
		&o.CustomerID,
		&o.ShopID,
		&o.TableID,
		&o.SubtotalCents,
		&o.TotalCents,
		&o.Status,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.CompletedAt,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) listOrders(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.ShortID,
			&o.ParentOrderID,
			&o.CustomerID,
			&o.ShopID,
			&o.TableID,
			&o.SubtotalCents,
			&o.TotalCents,
			&o.Status,
			&o.PaymentMethod,
			&o.PaymentStatus,
			&o.CompletedAt,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Order, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.attachLines(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) attachLines(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, menu_item_id::text, name, unit_price_cents, quantity, variant, addons
FROM order_lines
WHERE order_id = ANY($1)
ORDER BY sort_order ASC
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.MenuItemID,
			&line.Name,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.Variant,
			&line.AddOns,
		); err != nil {
			return err
		}
		if o, ok := byID[line.OrderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	return rows.Err()
}

func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrAlreadyExists
	}
	return err
}

func addOnsOrEmpty(addOns []domain.ChosenAddOn) []domain.ChosenAddOn {
	if addOns == nil {
		return []domain.ChosenAddOn{}
	}
	return addOns
}
