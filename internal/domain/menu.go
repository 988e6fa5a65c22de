package domain

import "time"

// SelectionMode controls how many add-ons a customer may pick from a group.
type SelectionMode string

const (
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
)

// MenuItem is a catalog entry. It carries either a base price, or at least
// one variant, never neither. The order engine treats it as read-only truth:
// cart price snapshots are advisory and re-derived from here at placement.
type MenuItem struct {
	ID          string       `json:"id"`
	ShopID      string       `json:"shopId"`
	CategoryID  string       `json:"categoryId"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	PriceCents  *int64       `json:"priceCents,omitempty"`
	IsAvailable bool         `json:"isAvailable"`
	SortOrder   int          `json:"sortOrder"`
	Variants    []Variant    `json:"variants,omitempty"`
	AddOnGroups []AddOnGroup `json:"addOnGroups,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Variant is a mandatory choice (e.g. size). When an item defines variants
// the customer must pick exactly one.
type Variant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	IsAvailable bool   `json:"isAvailable"`
}

// AddOnGroup is a named set of optional extras.
type AddOnGroup struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Mode    SelectionMode `json:"mode"`
	AddOns  []AddOn       `json:"addOns"`
	ItemID  string        `json:"-"`
	SortIdx int           `json:"-"`
}

type AddOn struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// HasVariants reports whether the item requires a variant selection.
func (m *MenuItem) HasVariants() bool {
	return len(m.Variants) > 0
}

// FindVariant resolves a variant by id against the current definition.
func (m *MenuItem) FindVariant(id string) (Variant, bool) {
	for _, v := range m.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// FindAddOn resolves an add-on id against all of the item's groups.
func (m *MenuItem) FindAddOn(id string) (AddOn, bool) {
	for _, g := range m.AddOnGroups {
		for _, a := range g.AddOns {
			if a.ID == id {
				return a, true
			}
		}
	}
	return AddOn{}, false
}

// Category groups menu items for display.
type Category struct {
	ID        string `json:"id"`
	ShopID    string `json:"shopId"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
	IsActive  bool   `json:"isActive"`
}
