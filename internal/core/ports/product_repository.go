package ports

import (
	"context"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// Every read is scoped by the owning user id.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Product, error)
	// FindByID returns domain.ErrProductNotFound when the product does not
	// exist or belongs to another user.
	FindByID(ctx context.Context, userID, productID int64) (*domain.Product, error)
	Ping(ctx context.Context) error
}
