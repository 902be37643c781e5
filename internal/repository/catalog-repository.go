package repository

import (
	"context"
	"fmt"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListBlogs(ctx context.Context) ([]domain.Blog, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *catalogRepository) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	var blogs []domain.Blog
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return blogs, nil
}
