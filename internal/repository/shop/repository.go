package shop

import (
	"context"

	"menumate/internal/domain"
)

type Repository interface {
	GetShop(ctx context.Context, id string) (*domain.Shop, error)
	GetFoodCourt(ctx context.Context, id string) (*domain.FoodCourt, error)
	// ListByFoodCourt returns the court's active shops, name order.
	ListByFoodCourt(ctx context.Context, foodCourtID string) ([]domain.Shop, error)
}
