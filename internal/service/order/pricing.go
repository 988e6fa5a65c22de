package order

import (
	"menumate/internal/domain"
)

// ShopPartition is one shop's share of a priced cart.
type ShopPartition struct {
	ShopID        string
	Lines         []domain.OrderLine
	SubtotalCents int64
}

// PricedCart is the output of re-validating and re-pricing a cart against
// catalog truth: shop-partitioned order lines plus the grand total.
// Partitions keep the order shops first appear in the cart.
type PricedCart struct {
	Partitions []ShopPartition
	TotalCents int64
}

// priceCart re-derives every line's price from the current catalog entries.
// Cached cart prices are discarded here; this is the defense against stale
// pricing and tampered clients. Any single invalid line fails the whole
// cart - no partial output.
func priceCart(cart *domain.Cart, entries map[string]domain.MenuItem) (*PricedCart, error) {
	if cart.IsEmpty() {
		return nil, domain.NewPlacementError(domain.PlacementEmptyCart, "cart is empty")
	}

	priced := &PricedCart{}
	partIdx := make(map[string]int)

	for _, cl := range cart.Lines {
		entry, ok := entries[cl.MenuItemID]
		if !ok || !entry.IsAvailable {
			return nil, domain.NewPlacementError(domain.PlacementItemUnavailable, "item %q is no longer available", cl.Name)
		}

		line := domain.OrderLine{
			MenuItemID: entry.ID,
			Name:       entry.Name,
			Quantity:   cl.Quantity,
		}

		var unit int64
		switch {
		case entry.HasVariants():
			if cl.Variant == nil {
				return nil, domain.NewPlacementError(domain.PlacementInvalidVariant, "item %q requires a variant", entry.Name)
			}
			// Re-resolve by id against the current definition; the cached
			// variant price is ignored.
			variant, ok := entry.FindVariant(cl.Variant.ID)
			if !ok || !variant.IsAvailable {
				return nil, domain.NewPlacementError(domain.PlacementInvalidVariant, "variant %q no longer offered for item %q", cl.Variant.Name, entry.Name)
			}
			line.Variant = &domain.ChosenVariant{ID: variant.ID, Name: variant.Name, PriceCents: variant.PriceCents}
			unit = variant.PriceCents
		case entry.PriceCents != nil:
			if cl.Variant != nil {
				return nil, domain.NewPlacementError(domain.PlacementInvalidVariant, "item %q has no variants", entry.Name)
			}
			unit = *entry.PriceCents
		default:
			return nil, domain.NewPlacementError(domain.PlacementPriceMissing, "item %q has neither base price nor variants", entry.Name)
		}

		for _, chosen := range cl.AddOns {
			addOn, ok := entry.FindAddOn(chosen.ID)
			if !ok {
				return nil, domain.NewPlacementError(domain.PlacementInvalidAddOn, "add-on %q no longer offered for item %q", chosen.Name, entry.Name)
			}
			line.AddOns = append(line.AddOns, domain.ChosenAddOn{ID: addOn.ID, Name: addOn.Name, PriceCents: addOn.PriceCents})
			unit += addOn.PriceCents
		}

		line.UnitPriceCents = unit

		idx, ok := partIdx[entry.ShopID]
		if !ok {
			priced.Partitions = append(priced.Partitions, ShopPartition{ShopID: entry.ShopID})
			idx = len(priced.Partitions) - 1
			partIdx[entry.ShopID] = idx
		}
		priced.Partitions[idx].Lines = append(priced.Partitions[idx].Lines, line)
		priced.Partitions[idx].SubtotalCents += line.TotalCents()
		priced.TotalCents += line.TotalCents()
	}

	return priced, nil
}
