package order

import (
	"context"

	"menumate/internal/domain"
)

// Placement is everything one checkout writes: the optional parent order,
// one order per shop, and the consumed cart. CreatePlacement persists it
// all in a single transaction so a mid-sequence failure leaves nothing
// behind.
type Placement struct {
	Parent *domain.ParentOrder
	Orders []*domain.Order
	CartID string
}

type Repository interface {
	// CreatePlacement persists the whole placement atomically, filling in
	// generated ids and timestamps on the passed structs. A short order id
	// conflict surfaces as domain.ErrAlreadyExists so the caller can retry
	// with fresh ids.
	CreatePlacement(ctx context.Context, p *Placement) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetParentByID(ctx context.Context, id string) (*domain.ParentOrder, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListByShop(ctx context.Context, shopID string, status *domain.OrderStatus) ([]domain.Order, error)
	// UpdateStatus writes the new status (and completion timestamp when
	// terminal) and returns the updated order.
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	// Counts feed the human-readable short id sequence numbers.
	CountOrders(ctx context.Context) (int64, error)
	CountParentOrders(ctx context.Context) (int64, error)
}
