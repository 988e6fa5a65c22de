package domain

import "time"

// Cart holds a customer's in-progress selections. One cart per customer.
// Exactly one of ShopID/FoodCourtID is set once the cart is non-empty: a
// plain cart is scoped to a single shop, a food-court cart may span every
// shop in that court.
type Cart struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customerId"`
	ShopID      *string    `json:"shopId,omitempty"`
	FoodCourtID *string    `json:"foodCourtId,omitempty"`
	Lines       []CartLine `json:"items"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CartLine is one selection. UnitPriceCents is a snapshot taken when the
// line was added; it is advisory only and re-derived from the catalog at
// placement time.
type CartLine struct {
	ID             string         `json:"id"`
	CartID         string         `json:"cartId"`
	MenuItemID     string         `json:"menuItemId"`
	ShopID         string         `json:"shopId"`
	Name           string         `json:"name"`
	Quantity       int            `json:"quantity"`
	UnitPriceCents int64          `json:"unitPriceCents"`
	Variant        *ChosenVariant `json:"variant,omitempty"`
	AddOns         []ChosenAddOn  `json:"addOns,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// ChosenVariant is the customer's variant pick with its price snapshot.
type ChosenVariant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

type ChosenAddOn struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// SubtotalCents sums the advisory line totals. Display only; the pricing
// engine recomputes the authoritative total from the catalog.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.UnitPriceCents * int64(l.Quantity)
	}
	return total
}
