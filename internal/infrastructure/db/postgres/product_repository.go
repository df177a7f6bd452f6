package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// ProductRepository implements ports.ProductRepository on the products table.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `INSERT INTO products (name, user_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	created := *p
	if err := r.db.QueryRowContext(ctx, query, p.Name, p.UserID, p.CreatedAt).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &created, nil
}

func (r *ProductRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Product, error) {
	query := `SELECT id, name, user_id, created_at FROM products
		WHERE user_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.UserID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	query := `SELECT id, name, user_id, created_at FROM products
		WHERE id = $1 AND user_id = $2`

	p := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, productID, userID).Scan(&p.ID, &p.Name, &p.UserID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
