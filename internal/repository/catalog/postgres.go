package catalog

import (
	"context"

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

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []string) (map[string]domain.MenuItem, error) {
	if len(ids) == 0 {
		return map[string]domain.MenuItem{}, nil
	}

	const q = `
SELECT id::text, shop_id::text, category_id::text, name, description, price_cents, is_available, sort_order, created_at
FROM menu_items
WHERE id = ANY($1) AND NOT is_archived
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	items, found, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return items, nil
	}
	if err := r.attachVariants(ctx, items, found); err != nil {
		return nil, err
	}
	if err := r.attachAddOnGroups(ctx, items, found); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) ListAvailableByShop(ctx context.Context, shopID string) ([]domain.MenuItem, error) {
	const q = `
SELECT id::text, shop_id::text, category_id::text, name, description, price_cents, is_available, sort_order, created_at
FROM menu_items
WHERE shop_id = $1 AND is_available AND NOT is_archived
ORDER BY sort_order, name
`
	rows, err := r.pool.Query(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	items, ids, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err := r.attachVariants(ctx, items, ids); err != nil {
			return nil, err
		}
		if err := r.attachAddOnGroups(ctx, items, ids); err != nil {
			return nil, err
		}
	}

	out := make([]domain.MenuItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return out, nil
}

func (r *postgresRepo) ListCategories(ctx context.Context, shopID string) ([]domain.Category, error) {
	const q = `
SELECT id::text, shop_id::text, name, sort_order, is_active
FROM categories
WHERE shop_id = $1 AND is_active
ORDER BY sort_order, name
`
	rows, err := r.pool.Query(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.ShopID, &c.Name, &c.SortOrder, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanItems(rows pgx.Rows) (map[string]domain.MenuItem, []string, error) {
	defer rows.Close()
	items := make(map[string]domain.MenuItem)
	var ids []string
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID,
			&item.ShopID,
			&item.CategoryID,
			&item.Name,
			&item.Description,
			&item.PriceCents,
			&item.IsAvailable,
			&item.SortOrder,
			&item.CreatedAt,
		); err != nil {
			return nil, nil, err
		}
		items[item.ID] = item
		ids = append(ids, item.ID)
	}
	return items, ids, rows.Err()
}

func (r *postgresRepo) attachVariants(ctx context.Context, items map[string]domain.MenuItem, ids []string) error {
	const q = `
SELECT id::text, menu_item_id::text, name, price_cents, is_available
FROM menu_item_variants
WHERE menu_item_id = ANY($1)
ORDER BY sort_order, name
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Variant
		var itemID string
		if err := rows.Scan(&v.ID, &itemID, &v.Name, &v.PriceCents, &v.IsAvailable); err != nil {
			return err
		}
		item := items[itemID]
		item.Variants = append(item.Variants, v)
		items[itemID] = item
	}
	return rows.Err()
}

func (r *postgresRepo) attachAddOnGroups(ctx context.Context, items map[string]domain.MenuItem, ids []string) error {
	const q = `
SELECT g.id::text, g.menu_item_id::text, g.name, g.selection_mode, a.id::text, a.name, a.price_cents
FROM addon_groups g
JOIN addons a ON a.group_id = g.id
WHERE g.menu_item_id = ANY($1)
ORDER BY g.sort_order, g.name, a.name
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	// groups arrive sorted, so consecutive rows with the same group id fold
	// into one AddOnGroup.
	groupIdx := make(map[string]int)
	for rows.Next() {
		var (
			groupID, itemID, groupName, mode string
			addOn                            domain.AddOn
		)
		if err := rows.Scan(&groupID, &itemID, &groupName, &mode, &addOn.ID, &addOn.Name, &addOn.PriceCents); err != nil {
			return err
		}
		item := items[itemID]
		idx, ok := groupIdx[groupID]
		if !ok {
			item.AddOnGroups = append(item.AddOnGroups, domain.AddOnGroup{
				ID:     groupID,
				ItemID: itemID,
				Name:   groupName,
				Mode:   domain.SelectionMode(mode),
			})
			idx = len(item.AddOnGroups) - 1
			groupIdx[groupID] = idx
		}
		item.AddOnGroups[idx].AddOns = append(item.AddOnGroups[idx].AddOns, addOn)
		items[itemID] = item
	}
	return rows.Err()
}
