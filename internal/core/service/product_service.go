package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-system/internal/core/domain"
	"github.com/99minutos/auth-system/internal/core/ports"
)

// maxProductNameLen counts characters, not bytes.
const maxProductNameLen = 200

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// List returns the caller's products only.
func (s *ProductService) List(ctx context.Context, userID int64) ([]*domain.Product, error) {
	products, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list products of user %d: %v", domain.ErrStoreUnavailable, userID, err)
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}

// Create stores a product owned by userID.
func (s *ProductService) Create(ctx context.Context, userID int64, name string) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxProductNameLen {
		return nil, domain.ErrInvalidRequest
	}

	created, err := s.repo.Create(ctx, &domain.Product{
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create product for user %d: %v", domain.ErrStoreUnavailable, userID, err)
	}

	s.logger.Info().Int64("product_id", created.ID).Int64("user_id", userID).Msg("product created")
	return created, nil
}

// Get returns one of the caller's products. Products owned by someone else
// are reported as not found.
func (s *ProductService) Get(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	if productID <= 0 {
		return nil, domain.ErrProductNotFound
	}

	p, err := s.repo.FindByID(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: fetch product %d: %v", domain.ErrStoreUnavailable, productID, err)
	}
	return p, nil
}
