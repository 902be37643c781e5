package repository

import (
	"context"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}
