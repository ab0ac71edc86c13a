package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no product matches the identifier.
var ErrNotFound = errors.New("product not found")

// Repository persists products.
type Repository interface {
	Create(ctx context.Context, p Product) error
	FindByID(ctx context.Context, id string) (Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
	List(ctx context.Context) ([]Product, error)
	ListFeatured(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Sample(ctx context.Context, n int) ([]Product, error)
	SetFeatured(ctx context.Context, id string, featured bool) (Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
