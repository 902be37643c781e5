package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	FindProductByID(ctx context.Context, id string) (*domain.Product, error)
	// ListAvailableByCategory returns products that are neither booked nor sold.
	ListAvailableByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	ListBySeller(ctx context.Context, email string) ([]domain.Product, error)
	ListReported(ctx context.Context) ([]domain.Product, error)
	ListAdvertised(ctx context.Context) ([]domain.Product, error)
	// UpdateProduct applies patch to an existing product, ErrNotFound otherwise.
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) error
	// MarkVerifiedBySeller sets isVerified on every product of the seller and
	// returns how many matched. Zero is not an error.
	MarkVerifiedBySeller(ctx context.Context, email string) (int64, error)
	DeleteProduct(ctx context.Context, id string) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *productRepository) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) ListAvailableByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return r.list(ctx, "category_id = ? AND is_booked = ? AND sold = ?", categoryID, false, false)
}

func (r *productRepository) ListBySeller(ctx context.Context, email string) ([]domain.Product, error) {
	return r.list(ctx, "seller_email = ?", email)
}

func (r *productRepository) ListReported(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "reported = ?", true)
}

func (r *productRepository) ListAdvertised(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "advertise = ? AND sold = ?", true, false)
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		_, err := r.FindProductByID(ctx, id)
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) MarkVerifiedBySeller(ctx context.Context, email string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("seller_email = ?", email).
		Update("is_verified", true)
	if res.Error != nil {
		return 0, fmt.Errorf("verify seller products: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
