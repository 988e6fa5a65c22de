package cart

import (
	"context"
	"errors"

	"menumate/internal/domain"
	cartrepo "menumate/internal/repository/cart"
)

type cartRepo interface {
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	SaveLine(ctx context.Context, in cartrepo.SaveLineInput) (*domain.Cart, error)
	RemoveLine(ctx context.Context, customerID, menuItemID string) (*domain.Cart, error)
}

type catalogRepo interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.MenuItem, error)
}

type shopRepo interface {
	GetShop(ctx context.Context, id string) (*domain.Shop, error)
}

// Service owns cart mutations. Prices on cart lines are resolved here from
// the catalog, never taken from the client; they remain advisory snapshots
// that placement re-derives.
type Service struct {
	repo    cartRepo
	catalog catalogRepo
	shops   shopRepo
}

func New(repo cartrepo.Repository, catalog catalogRepo, shops shopRepo) *Service {
	return &Service{repo: repo, catalog: catalog, shops: shops}
}

// Get returns the customer's cart, or nil (empty sentinel) when none exists.
func (s *Service) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByCustomer(ctx, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return cart, err
}

type AddLineInput struct {
	MenuItemID string   `json:"menuItemId"`
	Quantity   int      `json:"quantity"`
	VariantID  *string  `json:"variantId,omitempty"`
	AddOnIDs   []string `json:"addOnIds,omitempty"`
}

// AddLine validates the selection against current catalog truth, prices it
// server-side, resolves the cart scope, and persists the merged cart.
// Adding a line whose shop context conflicts with the current scope resets
// the cart to the new context.
func (s *Service) AddLine(ctx context.Context, customerID string, in AddLineInput) (*domain.Cart, error) {
	if in.MenuItemID == "" {
		return nil, domain.Validationf("menuItemId required")
	}
	if in.Quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}

	entries, err := s.catalog.GetByIDs(ctx, []string{in.MenuItemID})
	if err != nil {
		return nil, err
	}
	item, ok := entries[in.MenuItemID]
	if !ok || !item.IsAvailable {
		return nil, domain.ErrNotFound
	}

	line, err := buildLine(item, in)
	if err != nil {
		return nil, err
	}

	shop, err := s.shops.GetShop(ctx, item.ShopID)
	if err != nil {
		return nil, err
	}

	save := cartrepo.SaveLineInput{CustomerID: customerID, Line: line}
	if shop.FoodCourtID != nil {
		save.FoodCourtID = shop.FoodCourtID
	} else {
		shopID := shop.ID
		save.ShopID = &shopID
	}

	current, err := s.repo.GetByCustomer(ctx, customerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if current != nil && !current.IsEmpty() && scopeConflicts(current, save) {
		save.ResetLines = true
	}

	return s.repo.SaveLine(ctx, save)
}

// RemoveLine drops every line for the menu item from the customer's cart.
func (s *Service) RemoveLine(ctx context.Context, customerID, menuItemID string) (*domain.Cart, error) {
	return s.repo.RemoveLine(ctx, customerID, menuItemID)
}

// buildLine resolves the customer's selection against the entry's current
// definition and snapshots the resulting prices.
func buildLine(item domain.MenuItem, in AddLineInput) (domain.CartLine, error) {
	line := domain.CartLine{
		MenuItemID: item.ID,
		ShopID:     item.ShopID,
		Name:       item.Name,
		Quantity:   in.Quantity,
	}

	var unit int64
	switch {
	case item.HasVariants():
		if in.VariantID == nil {
			return line, domain.Validationf("item %q requires a variant selection", item.Name)
		}
		variant, ok := item.FindVariant(*in.VariantID)
		if !ok || !variant.IsAvailable {
			return line, domain.Validationf("variant does not exist for item %q", item.Name)
		}
		line.Variant = &domain.ChosenVariant{ID: variant.ID, Name: variant.Name, PriceCents: variant.PriceCents}
		unit = variant.PriceCents
	case item.PriceCents != nil:
		if in.VariantID != nil {
			return line, domain.Validationf("item %q has no variants", item.Name)
		}
		unit = *item.PriceCents
	default:
		return line, domain.Validationf("item %q has no price", item.Name)
	}

	for _, id := range in.AddOnIDs {
		addOn, ok := item.FindAddOn(id)
		if !ok {
			return line, domain.Validationf("add-on does not exist for item %q", item.Name)
		}
		line.AddOns = append(line.AddOns, domain.ChosenAddOn{ID: addOn.ID, Name: addOn.Name, PriceCents: addOn.PriceCents})
		unit += addOn.PriceCents
	}

	line.UnitPriceCents = unit
	return line, nil
}

func scopeConflicts(current *domain.Cart, next cartrepo.SaveLineInput) bool {
	switch {
	case current.FoodCourtID != nil:
		return next.FoodCourtID == nil || *next.FoodCourtID != *current.FoodCourtID
	case current.ShopID != nil:
		return next.ShopID == nil || *next.ShopID != *current.ShopID
	}
	return false
}
