package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store bundles the record sets over one shared storage handle. It is opened
// once at startup, injected into the services, and closed on shutdown.
type Store struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
	Payments PaymentRepository
	Catalog  CatalogRepository
	Audit    AuditRepository

	closer func(ctx context.Context) error
}

func NewStore(
	users UserRepository,
	products ProductRepository,
	orders OrderRepository,
	payments PaymentRepository,
	catalog CatalogRepository,
	audit AuditRepository,
	closer func(ctx context.Context) error,
) *Store {
	return &Store{
		Users:    users,
		Products: products,
		Orders:   orders,
		Payments: payments,
		Catalog:  catalog,
		Audit:    audit,
		closer:   closer,
	}
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}

const migrateLockID int64 = 20221118

// OpenPostgres connects through gorm, pings, and migrates the tables the
// store needs under an advisory lock so concurrent replicas do not race.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	slog.Info("database connected", "driver", "postgres")

	if err := migrate(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return NewGormStore(db, func(context.Context) error { return sqlDB.Close() }), nil
}

// NewGormStore builds every repository over one gorm handle.
func NewGormStore(db *gorm.DB, closer func(ctx context.Context) error) *Store {
	return NewStore(
		NewUserRepository(db),
		NewProductRepository(db),
		NewOrderRepository(db),
		NewPaymentRepository(db),
		NewCatalogRepository(db),
		NewAuditRepository(db),
		closer,
	)
}

var models = []any{
	&domain.User{},
	&domain.Product{},
	&domain.Order{},
	&domain.Payment{},
	&domain.Category{},
	&domain.Blog{},
	&domain.AuditLog{},
}

func migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", migrateLockID).Error; err != nil {
			return fmt.Errorf("migration lock: %w", err)
		}
		return tx.AutoMigrate(models...)
	})
	if err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	slog.Info("migration successful")
	return nil
}
