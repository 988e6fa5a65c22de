package order

import (
	"context"
	"errors"
	"time"

	"menumate/internal/bus"
	"menumate/internal/domain"
	"menumate/internal/logger"
	orderrepo "menumate/internal/repository/order"
	"menumate/internal/stream"
)

const placementRetries = 5

type orderRepo interface {
	CreatePlacement(ctx context.Context, p *orderrepo.Placement) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetParentByID(ctx context.Context, id string) (*domain.ParentOrder, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListByShop(ctx context.Context, shopID string, status *domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	CountParentOrders(ctx context.Context) (int64, error)
}

type cartRepo interface {
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
}

type catalogRepo interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.MenuItem, error)
}

type shopRepo interface {
	GetShop(ctx context.Context, id string) (*domain.Shop, error)
	GetFoodCourt(ctx context.Context, id string) (*domain.FoodCourt, error)
}

type tableRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Table, error)
}

// Service is the order placement and fan-out engine. The notification
// publisher and analytics feed are injected; publishing is best-effort and
// never fails a placement that has already committed.
type Service struct {
	orders     orderRepo
	carts      cartRepo
	catalog    catalogRepo
	shops      shopRepo
	tables     tableRepo
	publisher  bus.Publisher
	feed       *stream.Producer
	log        *logger.Logger
	strictFlow bool
}

func New(
	orders orderRepo,
	carts cartRepo,
	catalog catalogRepo,
	shops shopRepo,
	tables tableRepo,
	publisher bus.Publisher,
	feed *stream.Producer,
	log *logger.Logger,
	strictFlow bool,
) *Service {
	return &Service{
		orders:     orders,
		carts:      carts,
		catalog:    catalog,
		shops:      shops,
		tables:     tables,
		publisher:  publisher,
		feed:       feed,
		log:        log,
		strictFlow: strictFlow,
	}
}

type PlaceInput struct {
	PaymentMethod string `json:"paymentMethod"`
	TableID       string `json:"tableId"`
}

// PlacementResult is the created order, or the parent order with children
// for a food-court checkout. Exactly one field is set.
type PlacementResult struct {
	Order  *domain.Order       `json:"order,omitempty"`
	Parent *domain.ParentOrder `json:"parentOrder,omitempty"`
}

// Place turns the customer's cart into persisted orders. Every line is
// re-priced against the catalog; a multi-shop food-court cart becomes one
// parent order with a child order per shop. Persistence is a single
// transaction including cart deletion, so a failed placement leaves the
// cart intact for resubmission.
func (s *Service) Place(ctx context.Context, customer domain.Customer, in PlaceInput) (*PlacementResult, error) {
	method, ok := domain.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return nil, domain.Validationf("payment method must be COD or Online")
	}
	if in.TableID == "" {
		return nil, domain.Validationf("tableId required")
	}
	tbl, err := s.tables.GetByID(ctx, in.TableID)
	if err != nil {
		return nil, err
	}
	if !tbl.IsActive {
		return nil, domain.Validationf("table is not active")
	}

	cart, err := s.carts.GetByCustomer(ctx, customer.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewPlacementError(domain.PlacementEmptyCart, "cart is empty")
		}
		return nil, err
	}

	if err := s.checkScopeOpen(ctx, cart); err != nil {
		return nil, err
	}

	ids := distinctMenuItemIDs(cart)
	entries, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	priced, err := priceCart(cart, entries)
	if err != nil {
		return nil, err
	}

	if err := s.checkPartitionShopsOpen(ctx, cart, priced); err != nil {
		return nil, err
	}

	placement, err := s.persistWithRetry(ctx, customer, cart, priced, method, tbl.ID)
	if err != nil {
		return nil, err
	}

	s.announcePlacement(ctx, placement)

	if placement.Parent != nil {
		return &PlacementResult{Parent: placement.Parent}, nil
	}
	return &PlacementResult{Order: placement.Orders[0]}, nil
}

// checkScopeOpen rejects placement when the cart's shop or food court has
// stopped accepting orders.
func (s *Service) checkScopeOpen(ctx context.Context, cart *domain.Cart) error {
	switch {
	case cart.ShopID != nil:
		shop, err := s.shops.GetShop(ctx, *cart.ShopID)
		if err != nil {
			return err
		}
		if !shop.IsActive {
			return domain.NewPlacementError(domain.PlacementShopClosed, "shop %q is not accepting orders", shop.Name)
		}
	case cart.FoodCourtID != nil:
		fc, err := s.shops.GetFoodCourt(ctx, *cart.FoodCourtID)
		if err != nil {
			return err
		}
		if !fc.IsActive {
			return domain.NewPlacementError(domain.PlacementShopClosed, "food court %q is not accepting orders", fc.Name)
		}
	default:
		return domain.NewPlacementError(domain.PlacementEmptyCart, "cart has no shop context")
	}
	return nil
}

// checkPartitionShopsOpen verifies each shop in a food-court cart is still
// active before any sub-order is written.
func (s *Service) checkPartitionShopsOpen(ctx context.Context, cart *domain.Cart, priced *PricedCart) error {
	if cart.FoodCourtID == nil {
		return nil
	}
	for _, part := range priced.Partitions {
		shop, err := s.shops.GetShop(ctx, part.ShopID)
		if err != nil {
			return err
		}
		if !shop.IsActive {
			return domain.NewPlacementError(domain.PlacementShopClosed, "shop %q is not accepting orders", shop.Name)
		}
	}
	return nil
}

// persistWithRetry builds and writes the placement, regenerating short ids
// on a uniqueness conflict (same retry shape as token issuing elsewhere in
// the stack: bounded attempts, fresh candidate each round).
func (s *Service) persistWithRetry(
	ctx context.Context,
	customer domain.Customer,
	cart *domain.Cart,
	priced *PricedCart,
	method domain.PaymentMethod,
	tableID string,
) (*orderrepo.Placement, error) {
	for attempt := 0; attempt < placementRetries; attempt++ {
		placement, err := s.buildPlacement(ctx, customer, cart, priced, method, tableID, attempt)
		if err != nil {
			return nil, err
		}
		err = s.orders.CreatePlacement(ctx, placement)
		if err == nil {
			return placement, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			s.log.Warn("short order id collision, retrying", "attempt", attempt+1)
			continue
		}
		return nil, err
	}
	return nil, errors.New("order id collision persisted across retries")
}

func (s *Service) buildPlacement(
	ctx context.Context,
	customer domain.Customer,
	cart *domain.Cart,
	priced *PricedCart,
	method domain.PaymentMethod,
	tableID string,
	attempt int,
) (*orderrepo.Placement, error) {
	orderCount, err := s.orders.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	// Bumping the sequence by the attempt number guarantees fresh ids even
	// when the count and millisecond suffix have not moved.
	orderCount += int64(attempt)
	now := time.Now().UTC()

	placement := &orderrepo.Placement{CartID: cart.ID}

	if cart.FoodCourtID != nil {
		parentCount, err := s.orders.CountParentOrders(ctx)
		if err != nil {
			return nil, err
		}
		placement.Parent = &domain.ParentOrder{
			ShortID:       shortOrderID(parentPrefix, parentCount+int64(attempt)+1, now),
			CustomerID:    customer.ID,
			FoodCourtID:   *cart.FoodCourtID,
			TableID:       tableID,
			TotalCents:    priced.TotalCents,
			PaymentMethod: method,
			PaymentStatus: domain.PaymentPending,
		}
	}

	for i, part := range priced.Partitions {
		placement.Orders = append(placement.Orders, &domain.Order{
			ShortID:       shortOrderID(orderPrefix, orderCount+int64(i)+1, now),
			CustomerID:    customer.ID,
			ShopID:        part.ShopID,
			TableID:       tableID,
			Lines:         part.Lines,
			SubtotalCents: part.SubtotalCents,
			TotalCents:    part.SubtotalCents,
			Status:        domain.StatusPending,
			PaymentMethod: method,
			PaymentStatus: domain.PaymentPending,
		})
	}
	return placement, nil
}

// announcePlacement fans the persisted placement out: new_order to each
// shop room, then order_confirmed to the customer room. Failures are
// logged and dropped; state is already durable and readable.
func (s *Service) announcePlacement(ctx context.Context, placement *orderrepo.Placement) {
	now := time.Now().UTC()
	for _, o := range placement.Orders {
		ev := bus.Event{Type: domain.EventNewOrder, Room: domain.ShopRoom(o.ShopID), Payload: o, At: now}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.log.Err("publish new_order", err, "order", o.ShortID)
		}
		s.emitFeed(ctx, "order_placed", o)
	}

	confirmed := struct {
		Message string           `json:"message"`
		Result  *PlacementResult `json:"data"`
	}{Message: "Order placed successfully!"}
	var customerID string
	if placement.Parent != nil {
		confirmed.Result = &PlacementResult{Parent: placement.Parent}
		customerID = placement.Parent.CustomerID
	} else {
		confirmed.Result = &PlacementResult{Order: placement.Orders[0]}
		customerID = placement.Orders[0].CustomerID
	}
	ev := bus.Event{Type: domain.EventOrderConfirmed, Room: domain.CustomerRoom(customerID), Payload: confirmed, At: now}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Err("publish order_confirmed", err)
	}
}

func (s *Service) emitFeed(ctx context.Context, kind string, o *domain.Order) {
	err := s.feed.Emit(ctx, stream.OrderEvent{
		Kind:       kind,
		OrderID:    o.ID,
		ShortID:    o.ShortID,
		ShopID:     o.ShopID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		At:         time.Now().UTC(),
	})
	if err != nil {
		s.log.Err("emit order event", err, "order", o.ShortID)
	}
}

// UpdateStatus applies a vendor-driven transition. The ownership check runs
// before any write; success notifies the customer's room.
func (s *Service) UpdateStatus(ctx context.Context, vendor domain.Vendor, orderID, status string) (*domain.Order, error) {
	next, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, domain.Validationf("invalid order status %q", status)
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkShopOwnership(ctx, vendor, o.ShopID); err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next, s.strictFlow) {
		return nil, domain.Validationf("order cannot move from %s to %s", o.Status, next)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}

	ev := bus.Event{
		Type:    domain.EventOrderStatusUpdate,
		Room:    domain.CustomerRoom(updated.CustomerID),
		Payload: updated,
		At:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Err("publish order_status_update", err, "order", updated.ShortID)
	}
	s.emitFeed(ctx, "order_status_changed", updated)

	return updated, nil
}

// ListShopOrders returns a shop's orders for its owner, optionally filtered
// by status.
func (s *Service) ListShopOrders(ctx context.Context, vendor domain.Vendor, shopID, status string) ([]domain.Order, error) {
	if err := s.checkShopOwnership(ctx, vendor, shopID); err != nil {
		return nil, err
	}
	var filter *domain.OrderStatus
	if status != "" {
		parsed, ok := domain.ParseOrderStatus(status)
		if !ok {
			return nil, domain.Validationf("invalid order status %q", status)
		}
		filter = &parsed
	}
	return s.orders.ListByShop(ctx, shopID, filter)
}

// MyOrders returns the customer's orders, newest first.
func (s *Service) MyOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// GetOrder returns one order, customers may only read their own.
func (s *Service) GetOrder(ctx context.Context, customerID, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, domain.ErrAccessDenied
	}
	return o, nil
}

type WaiterCallInput struct {
	TableID      string `json:"tableId"`
	TargetShopID string `json:"targetShopId,omitempty"`
	ShopID       string `json:"shopId,omitempty"`
}

// CallWaiter alerts the shop room that a table wants service. The target
// shop comes from the explicit field, falling back to the legacy shop
// field, then to the table's own shop.
func (s *Service) CallWaiter(ctx context.Context, customer domain.Customer, in WaiterCallInput) error {
	if in.TableID == "" {
		return domain.Validationf("tableId required")
	}
	tbl, err := s.tables.GetByID(ctx, in.TableID)
	if err != nil {
		return err
	}

	target := in.TargetShopID
	if target == "" {
		target = in.ShopID
	}
	if target == "" {
		target = tbl.ShopID
	}

	ev := bus.Event{
		Type: domain.EventWaiterCall,
		Room: domain.ShopRoom(target),
		Payload: struct {
			TableID      string    `json:"tableId"`
			TableNumber  string    `json:"tableNumber"`
			CustomerName string    `json:"customerName"`
			At           time.Time `json:"at"`
		}{tbl.ID, tbl.Number, customer.Name, time.Now().UTC()},
		At: time.Now().UTC(),
	}
	return s.publisher.Publish(ctx, ev)
}

func (s *Service) checkShopOwnership(ctx context.Context, vendor domain.Vendor, shopID string) error {
	shop, err := s.shops.GetShop(ctx, shopID)
	if err != nil {
		return err
	}
	if vendor.Role == "admin" {
		return nil
	}
	if shop.OwnerID != vendor.ID {
		return domain.ErrAccessDenied
	}
	return nil
}

func distinctMenuItemIDs(cart *domain.Cart) []string {
	seen := make(map[string]struct{}, len(cart.Lines))
	var ids []string
	for _, l := range cart.Lines {
		if _, ok := seen[l.MenuItemID]; ok {
			continue
		}
		seen[l.MenuItemID] = struct{}{}
		ids = append(ids, l.MenuItemID)
	}
	return ids
}
