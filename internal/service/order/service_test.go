package order

import (
	"context"
	"errors"
	"testing"

	"menumate/internal/bus"
	"menumate/internal/domain"
	"menumate/internal/logger"
	orderrepo "menumate/internal/repository/order"
)

type stubOrderRepo struct {
	placements    []*orderrepo.Placement
	failPlacement int
	orders        map[string]*domain.Order
	updated       *domain.Order
	orderCount    int64
	parentCount   int64
}

func (s *stubOrderRepo) CreatePlacement(_ context.Context, p *orderrepo.Placement) error {
	if s.failPlacement > 0 {
		s.failPlacement--
		return domain.ErrAlreadyExists
	}
	s.placements = append(s.placements, p)
	if p.Parent != nil {
		p.Parent.ID = "parent-1"
		for _, o := range p.Orders {
			parentID := p.Parent.ID
			o.ParentOrderID = &parentID
			p.Parent.SubOrders = append(p.Parent.SubOrders, *o)
		}
	}
	return nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *stubOrderRepo) GetParentByID(_ context.Context, _ string) (*domain.ParentOrder, error) {
	return nil, domain.ErrNotFound
}

func (s *stubOrderRepo) ListByCustomer(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) ListByShop(_ context.Context, _ string, _ *domain.OrderStatus) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *o
	copied.Status = status
	s.updated = &copied
	return &copied, nil
}

func (s *stubOrderRepo) CountOrders(_ context.Context) (int64, error)       { return s.orderCount, nil }
func (s *stubOrderRepo) CountParentOrders(_ context.Context) (int64, error) { return s.parentCount, nil }

type stubCartRepo struct {
	cart *domain.Cart
}

func (s *stubCartRepo) GetByCustomer(_ context.Context, _ string) (*domain.Cart, error) {
	if s.cart == nil {
		return nil, domain.ErrNotFound
	}
	return s.cart, nil
}

type stubCatalog struct {
	items map[string]domain.MenuItem
}

func (s *stubCatalog) GetByIDs(_ context.Context, _ []string) (map[string]domain.MenuItem, error) {
	return s.items, nil
}

type stubShopRepo struct {
	shops  map[string]*domain.Shop
	courts map[string]*domain.FoodCourt
}

func (s *stubShopRepo) GetShop(_ context.Context, id string) (*domain.Shop, error) {
	shop, ok := s.shops[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return shop, nil
}

func (s *stubShopRepo) GetFoodCourt(_ context.Context, id string) (*domain.FoodCourt, error) {
	fc, ok := s.courts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return fc, nil
}

type stubTableRepo struct {
	tables map[string]*domain.Table
}

func (s *stubTableRepo) GetByID(_ context.Context, id string) (*domain.Table, error) {
	t, ok := s.tables[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

type fakePublisher struct {
	events []bus.Event
}

func (f *fakePublisher) Publish(_ context.Context, ev bus.Event) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) byType(t domain.EventType) []bus.Event {
	var out []bus.Event
	for _, ev := range f.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	svc    *Service
	orders *stubOrderRepo
	carts  *stubCartRepo
	pub    *fakePublisher
}

func newFixture(strict bool) *fixture {
	shopID := "wok"
	orders := &stubOrderRepo{orders: map[string]*domain.Order{}}
	carts := &stubCartRepo{}
	catalog := &stubCatalog{items: map[string]domain.MenuItem{
		"noodles": {ID: "noodles", ShopID: "wok", Name: "Noodles", PriceCents: cents(1000), IsAvailable: true},
		"pizza":   {ID: "pizza", ShopID: "napoli", Name: "Pizza", PriceCents: cents(1200), IsAvailable: true},
	}}
	shops := &stubShopRepo{
		shops: map[string]*domain.Shop{
			"wok":    {ID: "wok", Name: "Wok Star", OwnerID: "vendor-wok", IsActive: true},
			"napoli": {ID: "napoli", Name: "Napoli", OwnerID: "vendor-napoli", IsActive: true},
		},
		courts: map[string]*domain.FoodCourt{
			"court": {ID: "court", Name: "Central", IsActive: true},
		},
	}
	tables := &stubTableRepo{tables: map[string]*domain.Table{
		"t1": {ID: "t1", ShopID: shopID, Number: "T1", IsActive: true},
	}}
	pub := &fakePublisher{}

	svc := New(orders, carts, catalog, shops, tables, pub, nil, logger.New("test"), strict)
	return &fixture{svc: svc, orders: orders, carts: carts, pub: pub}
}

func shopCart(shopID string, lines ...domain.CartLine) *domain.Cart {
	return &domain.Cart{ID: "cart-1", CustomerID: "cust-1", ShopID: &shopID, Lines: lines}
}

func courtCart(courtID string, lines ...domain.CartLine) *domain.Cart {
	return &domain.Cart{ID: "cart-1", CustomerID: "cust-1", FoodCourtID: &courtID, Lines: lines}
}

var testCustomer = domain.Customer{ID: "cust-1", Name: "Demo"}

func TestPlace_SingleShop(t *testing.T) {
	f := newFixture(false)
	f.carts.cart = shopCart("wok", domain.CartLine{MenuItemID: "noodles", ShopID: "wok", Quantity: 2})

	result, err := f.svc.Place(context.Background(), testCustomer, PlaceInput{PaymentMethod: "COD", TableID: "t1"})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if result.Parent != nil || result.Order == nil {
		t.Fatalf("expected a plain order result, got %+v", result)
	}
	if result.Order.SubtotalCents != 2000 || result.Order.TotalCents != 2000 {
		t.Fatalf("order totals %d/%d, want 2000/2000", result.Order.SubtotalCents, result.Order.TotalCents)
	}
	if result.Order.Status != domain.StatusPending {
		t.Fatalf("status %s, want Pending", result.Order.Status)
	}
	if len(f.orders.placements) != 1 {
		t.Fatalf("placements = %d, want 1", len(f.orders.placements))
	}
	if f.orders.placements[0].CartID != "cart-1" {
		t.Fatalf("placement cart id %q", f.orders.placements[0].CartID)
	}

	newOrders := f.pub.byType(domain.EventNewOrder)
	if len(newOrders) != 1 || newOrders[0].Room != domain.ShopRoom("wok") {
		t.Fatalf("new_order events %+v", newOrders)
	}
	confirmed := f.pub.byType(domain.EventOrderConfirmed)
	if len(confirmed) != 1 || confirmed[0].Room != domain.CustomerRoom("cust-1") {
		t.Fatalf("order_confirmed events %+v", confirmed)
	}
}

func TestPlace_FoodCourtSplits(t *testing.T) {
	f := newFixture(false)
	f.carts.cart = courtCart("court",
		domain.CartLine{MenuItemID: "noodles", ShopID: "wok", Quantity: 1},
		domain.CartLine{MenuItemID: "pizza", ShopID: "napoli", Quantity: 1},
		domain.CartLine{MenuItemID: "noodles", ShopID: "wok", Quantity: 1},
	)

	result, err := f.svc.Place(context.Background(), testCustomer, PlaceInput{PaymentMethod: "Online", TableID: "t1"})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if result.Parent == nil {
		t.Fatalf("expected a parent order result")
	}
	if len(result.Parent.SubOrders) != 2 {
		t.Fatalf("sub orders = %d, want 2", len(result.Parent.SubOrders))
	}
	if result.Parent.TotalCents != 3200 {
		t.Fatalf("parent total %d, want 3200", result.Parent.TotalCents)
	}
	var subSum int64
	for _, sub := range result.Parent.SubOrders {
		subSum += sub.SubtotalCents
	}
	if subSum != result.Parent.TotalCents {
		t.Fatalf("children sum %d != parent total %d", subSum, result.Parent.TotalCents)
	}

	if got := len(f.pub.byType(domain.EventNewOrder)); got != 2 {
		t.Fatalf("new_order events = %d, want one per shop", got)
	}
}

func TestPlace_EmptyCart(t *testing.T) {
	f := newFixture(false)

	_, err := f.svc.Place(context.Background(), testCustomer, PlaceInput{PaymentMethod: "COD", TableID: "t1"})
	assertPlacementCode(t, err, domain.PlacementEmptyCart)
}

func TestPlace_ShopClosed(t *testing.T) {
	f := newFixture(false)
	f.carts.cart = shopCart("wok", domain.CartLine{MenuItemID: "noodles", ShopID: "wok", Quantity: 1})
	closedFixtureShop(f)

	_, err := f.svc.Place(context.Background(), testCustomer, PlaceInput{PaymentMethod: "COD", TableID: "t1"})
	assertPlacementCode(t, err, domain.PlacementShopClosed)
	if len(f.orders.placements) != 0 {
		t.Fatalf("nothing should be persisted for a closed shop")
	}
}

func closedFixtureShop(f *fixture) {
	shops := f.svc.shops.(*stubShopRepo)
	shops.shops["wok"].IsActive = false
}

func TestPlace_ArchivedItemKeepsCart(t *testing.T) {
	f := newFixture(false)
	f.carts.cart = shopCart("wok",
		domain.CartLine{MenuItemID: "noodles", ShopID: "wok", Quantity: 1},
		domain.CartLine{MenuItemID: "withdrawn", ShopID: "wok", Quantity: 1},
	)

	_, err := f.svc.Place(context.Background(), testCustomer, PlaceInput{PaymentMethod: "COD", TableID: "t1"})
	assertPlacementCode(t, err, domain.PlacementItemUnavailable)
	if len(f.orders.placements) != 0 {
		t.Fatalf("placement must not be written when a line fails")
	}
	if len(f.pub.events) != 0 {
		t.Fatalf("no events expected on failed placement")
	}
}

func TestPlace_RetriesOnIDCollision(t *testing.T) {
	f := newFixture(false)
	f.carts.cart = shopCart("wok", domain.CartLine{MenuItemID: "noodles", ShopID: "wok", Quantity: 1})
	f.orders.failPlacement = 2

	result, err := f.svc.Place(context.Background(), testCustomer, PlaceInput{PaymentMethod: "COD", TableID: "t1"})
	if err != nil {
		t.Fatalf("Place after retries: %v", err)
	}
	if result.Order == nil {
		t.Fatalf("expected an order after retries")
	}
}

func TestPlace_GivesUpAfterMaxRetries(t *testing.T) {
	f := newFixture(false)
	f.carts.cart = shopCart("wok", domain.CartLine{MenuItemID: "noodles", ShopID: "wok", Quantity: 1})
	f.orders.failPlacement = placementRetries

	_, err := f.svc.Place(context.Background(), testCustomer, PlaceInput{PaymentMethod: "COD", TableID: "t1"})
	if err == nil {
		t.Fatalf("expected failure after exhausting retries")
	}
}

func TestPlace_InvalidPaymentMethod(t *testing.T) {
	f := newFixture(false)

	_, err := f.svc.Place(context.Background(), testCustomer, PlaceInput{PaymentMethod: "Barter", TableID: "t1"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	f := newFixture(false)
	f.orders.orders["order-1"] = &domain.Order{
		ID: "order-1", ShortID: "MM-1-0001", CustomerID: "cust-1", ShopID: "wok",
		Status: domain.StatusPending,
	}
	vendor := domain.Vendor{ID: "vendor-wok", Role: "vendor"}

	updated, err := f.svc.UpdateStatus(context.Background(), vendor, "order-1", "Accepted")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.StatusAccepted {
		t.Fatalf("status %s, want Accepted", updated.Status)
	}

	events := f.pub.byType(domain.EventOrderStatusUpdate)
	if len(events) != 1 || events[0].Room != domain.CustomerRoom("cust-1") {
		t.Fatalf("status events %+v", events)
	}
}

func TestUpdateStatus_WrongVendor(t *testing.T) {
	f := newFixture(false)
	f.orders.orders["order-1"] = &domain.Order{
		ID: "order-1", CustomerID: "cust-1", ShopID: "wok", Status: domain.StatusPending,
	}
	vendor := domain.Vendor{ID: "vendor-napoli", Role: "vendor"}

	_, err := f.svc.UpdateStatus(context.Background(), vendor, "order-1", "Accepted")
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
	if f.orders.updated != nil {
		t.Fatalf("status must not change on denied update")
	}
}

func TestUpdateStatus_AdminBypassesOwnership(t *testing.T) {
	f := newFixture(false)
	f.orders.orders["order-1"] = &domain.Order{
		ID: "order-1", CustomerID: "cust-1", ShopID: "wok", Status: domain.StatusPending,
	}
	admin := domain.Vendor{ID: "somebody-else", Role: "admin"}

	if _, err := f.svc.UpdateStatus(context.Background(), admin, "order-1", "Accepted"); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestUpdateStatus_TerminalRejected(t *testing.T) {
	f := newFixture(false)
	f.orders.orders["order-1"] = &domain.Order{
		ID: "order-1", CustomerID: "cust-1", ShopID: "wok", Status: domain.StatusCompleted,
	}
	vendor := domain.Vendor{ID: "vendor-wok", Role: "vendor"}

	_, err := f.svc.UpdateStatus(context.Background(), vendor, "order-1", "Preparing")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for terminal order, got %v", err)
	}
}

func TestUpdateStatus_StrictSkipRejected(t *testing.T) {
	f := newFixture(true)
	f.orders.orders["order-1"] = &domain.Order{
		ID: "order-1", CustomerID: "cust-1", ShopID: "wok", Status: domain.StatusPending,
	}
	vendor := domain.Vendor{ID: "vendor-wok", Role: "vendor"}

	if _, err := f.svc.UpdateStatus(context.Background(), vendor, "order-1", "Ready"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("strict mode must reject skipping, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), vendor, "order-1", "Accepted"); err != nil {
		t.Fatalf("strict single step: %v", err)
	}
}

func TestGetOrder_OwnershipEnforced(t *testing.T) {
	f := newFixture(false)
	f.orders.orders["order-1"] = &domain.Order{ID: "order-1", CustomerID: "cust-1"}

	if _, err := f.svc.GetOrder(context.Background(), "cust-1", "order-1"); err != nil {
		t.Fatalf("own order: %v", err)
	}
	if _, err := f.svc.GetOrder(context.Background(), "cust-2", "order-1"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected access denied for foreign order, got %v", err)
	}
}

func TestCallWaiter_FallsBackToTableShop(t *testing.T) {
	f := newFixture(false)

	err := f.svc.CallWaiter(context.Background(), testCustomer, WaiterCallInput{TableID: "t1"})
	if err != nil {
		t.Fatalf("CallWaiter: %v", err)
	}

	alerts := f.pub.byType(domain.EventWaiterCall)
	if len(alerts) != 1 || alerts[0].Room != domain.ShopRoom("wok") {
		t.Fatalf("waiter alerts %+v", alerts)
	}
}

func TestCallWaiter_ExplicitTargetWins(t *testing.T) {
	f := newFixture(false)

	err := f.svc.CallWaiter(context.Background(), testCustomer, WaiterCallInput{TableID: "t1", TargetShopID: "napoli"})
	if err != nil {
		t.Fatalf("CallWaiter: %v", err)
	}

	alerts := f.pub.byType(domain.EventWaiterCall)
	if len(alerts) != 1 || alerts[0].Room != domain.ShopRoom("napoli") {
		t.Fatalf("waiter alerts %+v", alerts)
	}
}
