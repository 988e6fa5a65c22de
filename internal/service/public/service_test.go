package public

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"menumate/internal/domain"
)

type stubCatalog struct {
	itemsByShop      map[string][]domain.MenuItem
	categoriesByShop map[string][]domain.Category
}

func (s *stubCatalog) ListAvailableByShop(_ context.Context, shopID string) ([]domain.MenuItem, error) {
	return s.itemsByShop[shopID], nil
}

func (s *stubCatalog) ListCategories(_ context.Context, shopID string) ([]domain.Category, error) {
	return s.categoriesByShop[shopID], nil
}

type stubShops struct {
	shops  map[string]*domain.Shop
	courts map[string]*domain.FoodCourt
}

func (s *stubShops) GetShop(_ context.Context, id string) (*domain.Shop, error) {
	shop, ok := s.shops[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return shop, nil
}

func (s *stubShops) GetFoodCourt(_ context.Context, id string) (*domain.FoodCourt, error) {
	fc, ok := s.courts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return fc, nil
}

func (s *stubShops) ListByFoodCourt(_ context.Context, courtID string) ([]domain.Shop, error) {
	var out []domain.Shop
	for _, shop := range s.shops {
		if shop.FoodCourtID != nil && *shop.FoodCourtID == courtID && shop.IsActive {
			out = append(out, *shop)
		}
	}
	return out, nil
}

type stubTables struct {
	tables map[string]*domain.Table
}

func (s *stubTables) GetByID(_ context.Context, id string) (*domain.Table, error) {
	return s.byKey(id)
}

func (s *stubTables) GetByQRIdentifier(_ context.Context, qr string) (*domain.Table, error) {
	return s.byKey(qr)
}

func (s *stubTables) byKey(key string) (*domain.Table, error) {
	t, ok := s.tables[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func cents(v int64) *int64 { return &v }

func standaloneFixture() *Service {
	catalog := &stubCatalog{
		itemsByShop: map[string][]domain.MenuItem{
			"cafe": {
				{ID: "croissant", ShopID: "cafe", CategoryID: "bakery", Name: "Croissant", PriceCents: cents(350), IsAvailable: true},
				{ID: "espresso", ShopID: "cafe", CategoryID: "drinks", Name: "Espresso", PriceCents: cents(250), IsAvailable: true},
			},
		},
		categoriesByShop: map[string][]domain.Category{
			"cafe": {
				{ID: "drinks", ShopID: "cafe", Name: "Drinks", SortOrder: 1},
				{ID: "bakery", ShopID: "cafe", Name: "Bakery", SortOrder: 2},
				{ID: "empty", ShopID: "cafe", Name: "Seasonal", SortOrder: 3},
			},
		},
	}
	shops := &stubShops{
		shops: map[string]*domain.Shop{
			"cafe": {ID: "cafe", Name: "Corner Cafe", OwnerID: "vendor-cafe", IsActive: true},
		},
	}
	tables := &stubTables{tables: map[string]*domain.Table{
		"cafe-t1": {ID: "t1", ShopID: "cafe", Number: "1", QRIdentifier: "cafe-t1", IsActive: true},
		"t1":      {ID: "t1", ShopID: "cafe", Number: "1", QRIdentifier: "cafe-t1", IsActive: true},
	}}
	return New(catalog, shops, tables, "https://menu.example.com")
}

func TestMenuByQR_Standalone(t *testing.T) {
	svc := standaloneFixture()

	menu, err := svc.MenuByQR(context.Background(), "cafe-t1")
	if err != nil {
		t.Fatalf("MenuByQR: %v", err)
	}
	if menu.FoodCourt != nil {
		t.Fatalf("standalone shop must not report a food court")
	}
	if len(menu.Shops) != 1 {
		t.Fatalf("shops = %d, want 1", len(menu.Shops))
	}
	sections := menu.Shops[0].Sections
	// Empty categories are dropped; the rest keep catalog order.
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if sections[0].Category.ID != "drinks" || sections[1].Category.ID != "bakery" {
		t.Fatalf("section order %s, %s", sections[0].Category.ID, sections[1].Category.ID)
	}
}

func TestMenuByQR_UnknownQR(t *testing.T) {
	svc := standaloneFixture()

	_, err := svc.MenuByQR(context.Background(), "no-such-table")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMenuByQR_FoodCourtListsShops(t *testing.T) {
	courtID := "central"
	catalog := &stubCatalog{
		itemsByShop: map[string][]domain.MenuItem{
			"wok":    {{ID: "noodles", ShopID: "wok", CategoryID: "mains", PriceCents: cents(1000), IsAvailable: true}},
			"napoli": {{ID: "pizza", ShopID: "napoli", CategoryID: "pies", PriceCents: cents(1200), IsAvailable: true}},
		},
		categoriesByShop: map[string][]domain.Category{
			"wok":    {{ID: "mains", ShopID: "wok", Name: "Mains"}},
			"napoli": {{ID: "pies", ShopID: "napoli", Name: "Pizza"}},
		},
	}
	shops := &stubShops{
		shops: map[string]*domain.Shop{
			"wok":    {ID: "wok", Name: "Wok Star", OwnerID: "v1", FoodCourtID: &courtID, IsActive: true},
			"napoli": {ID: "napoli", Name: "Napoli", OwnerID: "v2", FoodCourtID: &courtID, IsActive: true},
		},
		courts: map[string]*domain.FoodCourt{
			"central": {ID: "central", Name: "Central Food Hall", IsActive: true},
		},
	}
	tables := &stubTables{tables: map[string]*domain.Table{
		"fc-t1": {ID: "t1", ShopID: "wok", Number: "T1", QRIdentifier: "fc-t1", IsActive: true},
	}}
	svc := New(catalog, shops, tables, "https://menu.example.com")

	menu, err := svc.MenuByQR(context.Background(), "fc-t1")
	if err != nil {
		t.Fatalf("MenuByQR: %v", err)
	}
	if menu.FoodCourt == nil || menu.FoodCourt.ID != "central" {
		t.Fatalf("food court %+v", menu.FoodCourt)
	}
	if len(menu.Shops) != 2 {
		t.Fatalf("shops = %d, want every active shop in the court", len(menu.Shops))
	}
}

func TestMenuByQR_InactiveTable(t *testing.T) {
	svc := standaloneFixture()
	tables := svc.tables.(*stubTables)
	tables.tables["cafe-t1"].IsActive = false

	_, err := svc.MenuByQR(context.Background(), "cafe-t1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for inactive table, got %v", err)
	}
}

func TestTableQRPNG_OwnerOnly(t *testing.T) {
	svc := standaloneFixture()

	png, err := svc.TableQRPNG(context.Background(), domain.Vendor{ID: "vendor-cafe", Role: "vendor"}, "t1")
	if err != nil {
		t.Fatalf("TableQRPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("expected PNG magic, got %x", png[:4])
	}

	_, err = svc.TableQRPNG(context.Background(), domain.Vendor{ID: "someone-else", Role: "vendor"}, "t1")
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
}

func TestMenuURL(t *testing.T) {
	svc := standaloneFixture()
	if got := svc.MenuURL("cafe t1"); got != "https://menu.example.com/menu/cafe%20t1" {
		t.Fatalf("MenuURL = %q", got)
	}
}
