package identity

import (
	"context"

	"menumate/internal/domain"
)

// Repository resolves opaque bearer tokens into typed principals. Issuing
// tokens (login/registration) is handled outside this service.
type Repository interface {
	CustomerByToken(ctx context.Context, token string) (*domain.Customer, error)
	VendorByToken(ctx context.Context, token string) (*domain.Vendor, error)
}
