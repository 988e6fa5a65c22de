package order

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"menumate/internal/domain"
	"menumate/internal/migrate"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(ctx, `
TRUNCATE order_lines, orders, parent_orders, cart_lines, carts, addons, addon_groups,
         menu_item_variants, menu_items, categories, tables, shops, tokens, customers, vendors, food_courts
CASCADE`)
	if err != nil {
		t.Fatalf("reset tables: %v", err)
	}
}

type fixtureIDs struct {
	customerID  string
	shopID      string
	otherShopID string
	foodCourtID string
	tableID     string
	cartID      string
}

func insertFixture(ctx context.Context, t *testing.T, pool *pgxpool.Pool) fixtureIDs {
	t.Helper()
	var ids fixtureIDs
	mustScan := func(q string, dest *string, args ...any) {
		t.Helper()
		if err := pool.QueryRow(ctx, q, args...).Scan(dest); err != nil {
			t.Fatalf("fixture insert: %v", err)
		}
	}

	mustScan(`INSERT INTO food_courts (name) VALUES ('Court') RETURNING id::text`, &ids.foodCourtID)

	var vendorID string
	mustScan(`INSERT INTO vendors (name) VALUES ('Vendor') RETURNING id::text`, &vendorID)
	mustScan(`INSERT INTO shops (name, owner_id, food_court_id) VALUES ('Wok', $1, $2) RETURNING id::text`, &ids.shopID, vendorID, ids.foodCourtID)
	mustScan(`INSERT INTO shops (name, owner_id, food_court_id) VALUES ('Napoli', $1, $2) RETURNING id::text`, &ids.otherShopID, vendorID, ids.foodCourtID)
	mustScan(`INSERT INTO tables (shop_id, table_number, qr_identifier) VALUES ($1, 'T1', gen_random_uuid()::text) RETURNING id::text`, &ids.tableID, ids.shopID)
	mustScan(`INSERT INTO customers (name, phone) VALUES ('Cust', gen_random_uuid()::text) RETURNING id::text`, &ids.customerID)
	mustScan(`INSERT INTO carts (customer_id, food_court_id) VALUES ($1, $2) RETURNING id::text`, &ids.cartID, ids.customerID, ids.foodCourtID)

	return ids
}

func TestCreatePlacement_FoodCourt(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	ids := insertFixture(ctx, t, pool)

	repo := NewPostgres(pool)
	placement := &Placement{
		Parent: &domain.ParentOrder{
			ShortID:       "FC-1-0001",
			CustomerID:    ids.customerID,
			FoodCourtID:   ids.foodCourtID,
			TableID:       ids.tableID,
			TotalCents:    2200,
			PaymentMethod: domain.PaymentCOD,
			PaymentStatus: domain.PaymentPending,
		},
		Orders: []*domain.Order{
			{
				ShortID: "MM-1-0001", CustomerID: ids.customerID, ShopID: ids.shopID, TableID: ids.tableID,
				SubtotalCents: 1000, TotalCents: 1000, Status: domain.StatusPending,
				PaymentMethod: domain.PaymentCOD, PaymentStatus: domain.PaymentPending,
				Lines: []domain.OrderLine{
					{MenuItemID: ids.cartID, Name: "Noodles", UnitPriceCents: 1000, Quantity: 1},
				},
			},
			{
				ShortID: "MM-2-0001", CustomerID: ids.customerID, ShopID: ids.otherShopID, TableID: ids.tableID,
				SubtotalCents: 1200, TotalCents: 1200, Status: domain.StatusPending,
				PaymentMethod: domain.PaymentCOD, PaymentStatus: domain.PaymentPending,
				Lines: []domain.OrderLine{
					{
						MenuItemID: ids.cartID, Name: "Pizza", UnitPriceCents: 1200, Quantity: 1,
						Variant: &domain.ChosenVariant{ID: "lg", Name: "Large", PriceCents: 1200},
					},
				},
			},
		},
		CartID: ids.cartID,
	}

	if err := repo.CreatePlacement(ctx, placement); err != nil {
		t.Fatalf("CreatePlacement: %v", err)
	}
	if placement.Parent.ID == "" {
		t.Fatalf("parent id not filled in")
	}

	fetched, err := repo.GetParentByID(ctx, placement.Parent.ID)
	if err != nil {
		t.Fatalf("GetParentByID: %v", err)
	}
	if len(fetched.SubOrders) != 2 {
		t.Fatalf("sub orders = %d, want 2", len(fetched.SubOrders))
	}
	for _, sub := range fetched.SubOrders {
		if sub.ParentOrderID == nil || *sub.ParentOrderID != placement.Parent.ID {
			t.Fatalf("sub order missing parent reference: %+v", sub)
		}
	}

	// The consumed cart must be gone.
	var cartCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM carts WHERE id = $1`, ids.cartID).Scan(&cartCount); err != nil {
		t.Fatalf("count carts: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("cart survived placement")
	}

	// A variant snapshot round-trips through jsonb.
	byShop := map[string]domain.Order{}
	for _, sub := range fetched.SubOrders {
		byShop[sub.ShopID] = sub
	}
	pizza := byShop[ids.otherShopID]
	if len(pizza.Lines) != 1 || pizza.Lines[0].Variant == nil || pizza.Lines[0].Variant.Name != "Large" {
		t.Fatalf("variant snapshot lost: %+v", pizza.Lines)
	}
}

func TestCreatePlacement_ShortIDConflict(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	ids := insertFixture(ctx, t, pool)

	repo := NewPostgres(pool)
	build := func() *Placement {
		return &Placement{
			Orders: []*domain.Order{{
				ShortID: "MM-9-0009", CustomerID: ids.customerID, ShopID: ids.shopID, TableID: ids.tableID,
				SubtotalCents: 500, TotalCents: 500, Status: domain.StatusPending,
				PaymentMethod: domain.PaymentCOD, PaymentStatus: domain.PaymentPending,
			}},
			CartID: ids.cartID,
		}
	}

	if err := repo.CreatePlacement(ctx, build()); err != nil {
		t.Fatalf("first placement: %v", err)
	}
	err := repo.CreatePlacement(ctx, build())
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists on duplicate short id, got %v", err)
	}
}

func TestUpdateStatus_StampsCompletedAt(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	ids := insertFixture(ctx, t, pool)

	repo := NewPostgres(pool)
	placement := &Placement{
		Orders: []*domain.Order{{
			ShortID: "MM-5-0005", CustomerID: ids.customerID, ShopID: ids.shopID, TableID: ids.tableID,
			SubtotalCents: 700, TotalCents: 700, Status: domain.StatusPending,
			PaymentMethod: domain.PaymentOnline, PaymentStatus: domain.PaymentPending,
		}},
		CartID: ids.cartID,
	}
	if err := repo.CreatePlacement(ctx, placement); err != nil {
		t.Fatalf("CreatePlacement: %v", err)
	}
	orderID := placement.Orders[0].ID

	updated, err := repo.UpdateStatus(ctx, orderID, domain.StatusAccepted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.StatusAccepted || updated.CompletedAt != nil {
		t.Fatalf("unexpected order %+v", updated)
	}

	updated, err = repo.UpdateStatus(ctx, orderID, domain.StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus completed: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatalf("completed_at not stamped")
	}
}
