package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// UpsertOrderByProduct writes the order for order.ProductID, replacing the
	// payload of any existing order for that product.
	UpsertOrderByProduct(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// MarkOrderPaid upserts the product's order with paid and transactionId.
	// email is only used when no order exists yet.
	MarkOrderPaid(ctx context.Context, productID, email, transactionID string) error
	FindOrderByProduct(ctx context.Context, productID string) (*domain.Order, error)
	FindOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

var orderPayloadColumns = []string{
	"product_name", "email", "buyer_name", "phone", "location", "price",
	"paid", "transaction_id", "updated_at",
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) UpsertOrderByProduct(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil || order.ProductID == "" {
		return nil, errors.New("order without product id")
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns(orderPayloadColumns),
	}).Create(order).Error
	if err != nil {
		return nil, fmt.Errorf("upsert order: %w", err)
	}
	return r.FindOrderByProduct(ctx, order.ProductID)
}

func (r *orderRepository) MarkOrderPaid(ctx context.Context, productID, email, transactionID string) error {
	order := &domain.Order{
		ID:            uuid.NewString(),
		ProductID:     productID,
		Email:         email,
		Paid:          true,
		TransactionID: &transactionID,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"paid", "transaction_id", "updated_at"}),
	}).Create(order).Error
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	return nil
}

func (r *orderRepository) FindOrderByProduct(ctx context.Context, productID string) (*domain.Order, error) {
	return r.first(ctx, "product_id = ?", productID)
}

func (r *orderRepository) FindOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *orderRepository) first(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.WithContext(ctx).Where(query, args...).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
