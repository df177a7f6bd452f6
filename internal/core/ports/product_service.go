package ports

import (
	"context"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// ProductService defines use-case operations for the catalog. The user id is
// always the one resolved by the auth delegation middleware.
type ProductService interface {
	List(ctx context.Context, userID int64) ([]*domain.Product, error)
	Create(ctx context.Context, userID int64, name string) (*domain.Product, error)
	Get(ctx context.Context, userID, productID int64) (*domain.Product, error)
}
