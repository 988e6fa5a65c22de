package table

import (
	"context"

	"menumate/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Table, error)
	GetByQRIdentifier(ctx context.Context, qr string) (*domain.Table, error)
}
