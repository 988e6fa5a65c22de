// Package seed loads a small demo dataset for manual testing: one food
// court with two shops, one standalone shop, tables with QR identifiers,
// menus exercising base prices, variants and add-ons, plus long-lived demo
// tokens for one customer and the vendors.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Fixed ids make Apply idempotent via ON CONFLICT (id).
const (
	foodCourtID = "11111111-1111-1111-1111-111111111111"

	vendorWokID   = "22222222-2222-2222-2222-222222220001"
	vendorPizzaID = "22222222-2222-2222-2222-222222220002"
	vendorCafeID  = "22222222-2222-2222-2222-222222220003"

	shopWokID   = "33333333-3333-3333-3333-333333330001"
	shopPizzaID = "33333333-3333-3333-3333-333333330002"
	shopCafeID  = "33333333-3333-3333-3333-333333330003"

	tableCourtID = "44444444-4444-4444-4444-444444440001"
	tableCafeID  = "44444444-4444-4444-4444-444444440002"

	customerID = "55555555-5555-5555-5555-555555550001"
)

type categorySeed struct {
	ID     string
	ShopID string
	Name   string
	Sort   int
}

type variantSeed struct {
	ID         string
	Name       string
	PriceCents int64
}

type addOnSeed struct {
	ID         string
	Name       string
	PriceCents int64
}

type itemSeed struct {
	ID          string
	ShopID      string
	CategoryID  string
	Name        string
	Description string
	PriceCents  *int64
	Variants    []variantSeed
	AddOnGroup  string
	GroupID     string
	AddOns      []addOnSeed
}

func cents(v int64) *int64 { return &v }

// Apply inserts the demo dataset. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureFoodCourt(ctx, pool, foodCourtID, "Central Food Hall"); err != nil {
		return fmt.Errorf("ensure food court: %w", err)
	}

	vendors := map[string]string{
		vendorWokID:   "Wok Star Kitchen",
		vendorPizzaID: "Slice of Napoli",
		vendorCafeID:  "Corner Cafe",
	}
	for id, name := range vendors {
		if err := ensureVendor(ctx, pool, id, name); err != nil {
			return fmt.Errorf("ensure vendor %s: %w", name, err)
		}
	}

	if err := ensureShop(ctx, pool, shopWokID, "Wok Star", vendorWokID, foodCourtID); err != nil {
		return err
	}
	if err := ensureShop(ctx, pool, shopPizzaID, "Slice of Napoli", vendorPizzaID, foodCourtID); err != nil {
		return err
	}
	if err := ensureShop(ctx, pool, shopCafeID, "Corner Cafe", vendorCafeID, ""); err != nil {
		return err
	}

	if err := ensureTable(ctx, pool, tableCourtID, shopWokID, "T1", "fc-central-t1"); err != nil {
		return err
	}
	if err := ensureTable(ctx, pool, tableCafeID, shopCafeID, "1", "cafe-corner-t1"); err != nil {
		return err
	}

	categories := []categorySeed{
		{"66666666-6666-6666-6666-666666660001", shopWokID, "Noodles", 1},
		{"66666666-6666-6666-6666-666666660002", shopPizzaID, "Pizza", 1},
		{"66666666-6666-6666-6666-666666660003", shopCafeID, "Drinks", 1},
		{"66666666-6666-6666-6666-666666660004", shopCafeID, "Bakery", 2},
	}
	for _, c := range categories {
		if err := ensureCategory(ctx, pool, c); err != nil {
			return fmt.Errorf("ensure category %s: %w", c.Name, err)
		}
	}

	items := []itemSeed{
		{
			ID:         "77777777-7777-7777-7777-777777770001",
			ShopID:     shopWokID,
			CategoryID: categories[0].ID,
			Name:       "Pad Thai",
			PriceCents: cents(1250),
			AddOnGroup: "Extras",
			GroupID:    "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaa0001",
			AddOns: []addOnSeed{
				{"88888888-8888-8888-8888-888888880001", "Extra Shrimp", 300},
				{"88888888-8888-8888-8888-888888880002", "Crushed Peanuts", 50},
			},
		},
		{
			ID:         "77777777-7777-7777-7777-777777770002",
			ShopID:     shopPizzaID,
			CategoryID: categories[1].ID,
			Name:       "Margherita",
			Variants: []variantSeed{
				{"99999999-9999-9999-9999-999999990001", "Small", 900},
				{"99999999-9999-9999-9999-999999990002", "Large", 1400},
			},
		},
		{
			ID:         "77777777-7777-7777-7777-777777770003",
			ShopID:     shopCafeID,
			CategoryID: categories[2].ID,
			Name:       "Flat White",
			Variants: []variantSeed{
				{"99999999-9999-9999-9999-999999990003", "Regular", 400},
				{"99999999-9999-9999-9999-999999990004", "Large", 480},
			},
			AddOnGroup: "Milk",
			GroupID:    "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaa0002",
			AddOns: []addOnSeed{
				{"88888888-8888-8888-8888-888888880003", "Oat Milk", 60},
			},
		},
		{
			ID:          "77777777-7777-7777-7777-777777770004",
			ShopID:      shopCafeID,
			CategoryID:  categories[3].ID,
			Name:        "Croissant",
			Description: "Baked every morning",
			PriceCents:  cents(350),
		},
	}
	for _, item := range items {
		if err := ensureItem(ctx, pool, item); err != nil {
			return fmt.Errorf("ensure item %s: %w", item.Name, err)
		}
	}

	if err := ensureCustomer(ctx, pool, customerID, "Demo Customer", "+10000000001"); err != nil {
		return err
	}

	tokens := []struct {
		token      string
		customerID string
		vendorID   string
	}{
		{"demo-customer-token", customerID, ""},
		{"demo-wok-token", "", vendorWokID},
		{"demo-pizza-token", "", vendorPizzaID},
		{"demo-cafe-token", "", vendorCafeID},
	}
	for _, t := range tokens {
		if err := ensureToken(ctx, pool, t.token, t.customerID, t.vendorID); err != nil {
			return fmt.Errorf("ensure token %s: %w", t.token, err)
		}
	}

	return nil
}

func ensureFoodCourt(ctx context.Context, pool *pgxpool.Pool, id, name string) error {
	_, err := pool.Exec(ctx, `
INSERT INTO food_courts (id, name)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
`, id, name)
	return err
}

func ensureVendor(ctx context.Context, pool *pgxpool.Pool, id, name string) error {
	_, err := pool.Exec(ctx, `
INSERT INTO vendors (id, name)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
`, id, name)
	return err
}

func ensureShop(ctx context.Context, pool *pgxpool.Pool, id, name, ownerID, foodCourtID string) error {
	var court any
	if foodCourtID != "" {
		court = foodCourtID
	}
	_, err := pool.Exec(ctx, `
INSERT INTO shops (id, name, owner_id, food_court_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, owner_id = EXCLUDED.owner_id, food_court_id = EXCLUDED.food_court_id
`, id, name, ownerID, court)
	return err
}

func ensureTable(ctx context.Context, pool *pgxpool.Pool, id, shopID, number, qr string) error {
	_, err := pool.Exec(ctx, `
INSERT INTO tables (id, shop_id, table_number, qr_identifier)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET shop_id = EXCLUDED.shop_id, table_number = EXCLUDED.table_number, qr_identifier = EXCLUDED.qr_identifier
`, id, shopID, number, qr)
	return err
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) error {
	_, err := pool.Exec(ctx, `
INSERT INTO categories (id, shop_id, name, sort_order)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order
`, c.ID, c.ShopID, c.Name, c.Sort)
	return err
}

func ensureItem(ctx context.Context, pool *pgxpool.Pool, item itemSeed) error {
	_, err := pool.Exec(ctx, `
INSERT INTO menu_items (id, shop_id, category_id, name, description, price_cents)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents
`, item.ID, item.ShopID, item.CategoryID, item.Name, item.Description, item.PriceCents)
	if err != nil {
		return err
	}

	for i, v := range item.Variants {
		_, err = pool.Exec(ctx, `
INSERT INTO menu_item_variants (id, menu_item_id, name, price_cents, sort_order)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price_cents = EXCLUDED.price_cents
`, v.ID, item.ID, v.Name, v.PriceCents, i)
		if err != nil {
			return err
		}
	}

	if item.AddOnGroup == "" {
		return nil
	}

	_, err = pool.Exec(ctx, `
INSERT INTO addon_groups (id, menu_item_id, name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
`, item.GroupID, item.ID, item.AddOnGroup)
	if err != nil {
		return err
	}

	for _, a := range item.AddOns {
		_, err = pool.Exec(ctx, `
INSERT INTO addons (id, group_id, name, price_cents)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price_cents = EXCLUDED.price_cents
`, a.ID, item.GroupID, a.Name, a.PriceCents)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureCustomer(ctx context.Context, pool *pgxpool.Pool, id, name, phone string) error {
	_, err := pool.Exec(ctx, `
INSERT INTO customers (id, name, phone)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone
`, id, name, phone)
	return err
}

func ensureToken(ctx context.Context, pool *pgxpool.Pool, token, customerID, vendorID string) error {
	var cust, vend any
	if customerID != "" {
		cust = customerID
	}
	if vendorID != "" {
		vend = vendorID
	}
	_, err := pool.Exec(ctx, `
INSERT INTO tokens (token, customer_id, vendor_id, expires_at)
VALUES ($1, $2, $3, now() + interval '1 year')
ON CONFLICT (token) DO UPDATE SET expires_at = now() + interval '1 year'
`, token, cust, vend)
	return err
}
