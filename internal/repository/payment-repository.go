package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	// CreatePayment returns domain.ErrDuplicate when the transaction id exists.
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	FindPaymentByTransaction(ctx context.Context, transactionID string) (*domain.Payment, error)
	MarkSettled(ctx context.Context, transactionID string) error
	ListPayments(ctx context.Context) ([]domain.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	if payment == nil {
		return errors.New("nil payment")
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) FindPaymentByTransaction(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "transaction_id = ?", transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) MarkSettled(ctx context.Context, transactionID string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("transaction_id = ?", transactionID).
		Update("settled", true)
	if res.Error != nil {
		return fmt.Errorf("settle payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
