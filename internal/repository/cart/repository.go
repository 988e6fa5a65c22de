package cart

import (
	"context"

	"menumate/internal/domain"
)

// SaveLineInput writes one priced line into the customer's cart, creating
// the cart when absent. ShopID/FoodCourtID is the cart scope after the save;
// ResetLines clears existing lines first (scope conflict rule).
type SaveLineInput struct {
	CustomerID  string
	ShopID      *string
	FoodCourtID *string
	ResetLines  bool
	Line        domain.CartLine
}

type Repository interface {
	// GetByCustomer returns the customer's cart or domain.ErrNotFound.
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	// SaveLine upserts the cart and merges the line (matched by menu item id)
	// in one transaction, returning the updated cart.
	SaveLine(ctx context.Context, in SaveLineInput) (*domain.Cart, error)
	// RemoveLine deletes every line for the menu item and returns the updated
	// cart; domain.ErrNotFound when the cart or line is absent.
	RemoveLine(ctx context.Context, customerID, menuItemID string) (*domain.Cart, error)
}
