package domain

import "time"

// OrderStatus is the vendor-driven lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusAccepted  OrderStatus = "Accepted"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus validates a vendor-supplied status string.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// strictNext is the monotonic progression table used in strict mode.
var strictNext = map[OrderStatus]OrderStatus{
	StatusPending:   StatusAccepted,
	StatusAccepted:  StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusCompleted,
}

// CanTransitionTo reports whether a vendor may move an order from s to next.
// Lenient mode accepts any known status from a non-terminal state; strict
// mode enforces single-step progression, with Cancelled reachable from any
// non-terminal state in both modes.
func (s OrderStatus) CanTransitionTo(next OrderStatus, strict bool) bool {
	if s.Terminal() || next == s || next == StatusPending {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	if !strict {
		return true
	}
	return strictNext[s] == next
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "Online"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentCOD, PaymentOnline:
		return PaymentMethod(s), true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// OrderLine is a frozen copy of a priced cart line. Immutable after
// creation; never recomputed from the catalog.
type OrderLine struct {
	ID             string         `json:"id"`
	OrderID        string         `json:"orderId"`
	MenuItemID     string         `json:"menuItemId"`
	Name           string         `json:"name"`
	UnitPriceCents int64          `json:"unitPriceCents"`
	Quantity       int            `json:"quantity"`
	Variant        *ChosenVariant `json:"variant,omitempty"`
	AddOns         []ChosenAddOn  `json:"addOns,omitempty"`
}

// TotalCents is the line's contribution to the order subtotal.
func (l OrderLine) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Order is one shop's slice of a checkout. For a food-court checkout it
// references the ParentOrder that groups its siblings.
type Order struct {
	ID            string        `json:"id"`
	ShortID       string        `json:"shortOrderId"`
	ParentOrderID *string       `json:"parentOrderId,omitempty"`
	CustomerID    string        `json:"customerId"`
	ShopID        string        `json:"shopId"`
	TableID       string        `json:"tableId"`
	Lines         []OrderLine   `json:"items"`
	SubtotalCents int64         `json:"subtotalCents"`
	TotalCents    int64         `json:"totalCents"`
	Status        OrderStatus   `json:"orderStatus"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// ParentOrder aggregates the per-shop sub-orders of a food-court checkout.
// Its total equals the sum of its children's subtotals.
type ParentOrder struct {
	ID            string        `json:"id"`
	ShortID       string        `json:"shortOrderId"`
	CustomerID    string        `json:"customerId"`
	FoodCourtID   string        `json:"foodCourtId"`
	TableID       string        `json:"tableId"`
	TotalCents    int64         `json:"totalCents"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	SubOrders     []Order       `json:"subOrders"`
	CreatedAt     time.Time     `json:"createdAt"`
}
