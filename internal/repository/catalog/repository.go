package catalog

import (
	"context"

	"menumate/internal/domain"
)

// Repository reads menu catalog truth. The order engine only ever consumes
// it through GetByIDs, one batch per placement.
type Repository interface {
	// GetByIDs returns the live (non-archived) entries for the given ids,
	// keyed by id. Ids that no longer resolve are simply absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.MenuItem, error)
	ListAvailableByShop(ctx context.Context, shopID string) ([]domain.MenuItem, error)
	ListCategories(ctx context.Context, shopID string) ([]domain.Category, error)
}
