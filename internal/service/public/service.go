// Package public serves the unauthenticated QR-scan surface: resolving a
// table's QR identifier into a browsable menu, and rendering printable QR
// codes for vendors.
package public

import (
	"context"
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"menumate/internal/domain"
)

type catalogRepo interface {
	ListAvailableByShop(ctx context.Context, shopID string) ([]domain.MenuItem, error)
	ListCategories(ctx context.Context, shopID string) ([]domain.Category, error)
}

type shopRepo interface {
	GetShop(ctx context.Context, id string) (*domain.Shop, error)
	GetFoodCourt(ctx context.Context, id string) (*domain.FoodCourt, error)
	ListByFoodCourt(ctx context.Context, foodCourtID string) ([]domain.Shop, error)
}

type tableRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Table, error)
	GetByQRIdentifier(ctx context.Context, qr string) (*domain.Table, error)
}

type Service struct {
	catalog catalogRepo
	shops   shopRepo
	tables  tableRepo
	baseURL string
}

func New(catalog catalogRepo, shops shopRepo, tables tableRepo, baseURL string) *Service {
	return &Service{catalog: catalog, shops: shops, tables: tables, baseURL: baseURL}
}

// CategorySection is one category with its items, in display order.
type CategorySection struct {
	Category domain.Category   `json:"category"`
	Items    []domain.MenuItem `json:"items"`
}

// ShopMenu is one shop's full browsable menu.
type ShopMenu struct {
	Shop     domain.Shop       `json:"shop"`
	Sections []CategorySection `json:"sections"`
}

// Menu is what a scanned QR code resolves to. For a standalone shop there
// is exactly one shop menu; a food-court table exposes every active shop
// in the court.
type Menu struct {
	Table     domain.Table      `json:"table"`
	FoodCourt *domain.FoodCourt `json:"foodCourt,omitempty"`
	Shops     []ShopMenu        `json:"shops"`
}

// MenuByQR resolves a table QR identifier to the menu a customer should
// see. Inactive tables and closed shops resolve to not found rather than
// an empty menu.
func (s *Service) MenuByQR(ctx context.Context, qrIdentifier string) (*Menu, error) {
	if qrIdentifier == "" {
		return nil, domain.Validationf("qr identifier required")
	}
	tbl, err := s.tables.GetByQRIdentifier(ctx, qrIdentifier)
	if err != nil {
		return nil, err
	}
	if !tbl.IsActive {
		return nil, domain.ErrNotFound
	}

	shop, err := s.shops.GetShop(ctx, tbl.ShopID)
	if err != nil {
		return nil, err
	}

	menu := &Menu{Table: *tbl}

	if shop.FoodCourtID != nil {
		fc, err := s.shops.GetFoodCourt(ctx, *shop.FoodCourtID)
		if err != nil {
			return nil, err
		}
		if !fc.IsActive {
			return nil, domain.ErrNotFound
		}
		menu.FoodCourt = fc

		siblings, err := s.shops.ListByFoodCourt(ctx, fc.ID)
		if err != nil {
			return nil, err
		}
		for _, sib := range siblings {
			shopMenu, err := s.buildShopMenu(ctx, sib)
			if err != nil {
				return nil, err
			}
			menu.Shops = append(menu.Shops, shopMenu)
		}
		return menu, nil
	}

	if !shop.IsActive {
		return nil, domain.ErrNotFound
	}
	shopMenu, err := s.buildShopMenu(ctx, *shop)
	if err != nil {
		return nil, err
	}
	menu.Shops = []ShopMenu{shopMenu}
	return menu, nil
}

func (s *Service) buildShopMenu(ctx context.Context, shop domain.Shop) (ShopMenu, error) {
	categories, err := s.catalog.ListCategories(ctx, shop.ID)
	if err != nil {
		return ShopMenu{}, err
	}
	items, err := s.catalog.ListAvailableByShop(ctx, shop.ID)
	if err != nil {
		return ShopMenu{}, err
	}

	byCategory := make(map[string][]domain.MenuItem)
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}

	menu := ShopMenu{Shop: shop}
	for _, cat := range categories {
		catItems := byCategory[cat.ID]
		if len(catItems) == 0 {
			continue
		}
		menu.Sections = append(menu.Sections, CategorySection{Category: cat, Items: catItems})
	}
	return menu, nil
}

// MenuURL is the link a table's QR code encodes.
func (s *Service) MenuURL(qrIdentifier string) string {
	return fmt.Sprintf("%s/menu/%s", s.baseURL, url.PathEscape(qrIdentifier))
}

// TableQRPNG renders the table's menu link as a PNG. Only the owning
// vendor (or an admin) may render a shop's table codes.
func (s *Service) TableQRPNG(ctx context.Context, vendor domain.Vendor, tableID string) ([]byte, error) {
	tbl, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if err := s.CheckShopOwnership(ctx, vendor, tbl.ShopID); err != nil {
		return nil, err
	}
	return qrcode.Encode(s.MenuURL(tbl.QRIdentifier), qrcode.Medium, 512)
}

// CheckShopOwnership reports whether the vendor may act for the shop.
func (s *Service) CheckShopOwnership(ctx context.Context, vendor domain.Vendor, shopID string) error {
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
