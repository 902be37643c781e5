package repository

import (
	"context"
	"testing"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a private in-memory SQLite database. One connection
// keeps every query on the same database.
func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models...))
	return NewGormStore(db, nil), db
}

func TestUpsertUserKeepsRoleAndVerified(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Users.UpsertUser(ctx, &domain.User{Name: "Sam", Email: "sam@example.com", Role: domain.RoleSeller})
	require.NoError(t, err)
	require.NoError(t, store.Users.SetVerified(ctx, "sam@example.com"))

	again, err := store.Users.UpsertUser(ctx, &domain.User{Name: "Samuel", Email: "sam@example.com", Role: domain.RoleBuyer})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Samuel", again.Name)
	assert.Equal(t, domain.RoleSeller, again.Role)
	assert.True(t, again.Verified)

	users, err := store.Users.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUpsertUserDefaultsToBuyer(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user, err := store.Users.UpsertUser(ctx, &domain.User{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBuyer, user.Role)

	buyers, err := store.Users.ListUsers(ctx, domain.RoleBuyer)
	require.NoError(t, err)
	assert.Len(t, buyers, 1)
	sellers, err := store.Users.ListUsers(ctx, domain.RoleSeller)
	require.NoError(t, err)
	assert.Empty(t, sellers)
}

func TestMissingUserIsNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Users.FindUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Users.SetVerified(ctx, "ghost@example.com"), domain.ErrNotFound)
	assert.ErrorIs(t, store.Users.DeleteUserByID(ctx, "missing"), domain.ErrNotFound)
}

func TestOrderUpsertKeepsOneOrderPerProduct(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	first, err := store.Orders.UpsertOrderByProduct(ctx, &domain.Order{ProductID: "p-1", Email: "a@example.com", Price: 100})
	require.NoError(t, err)
	second, err := store.Orders.UpsertOrderByProduct(ctx, &domain.Order{ProductID: "p-1", Email: "b@example.com", Price: 90})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "b@example.com", second.Email)
	assert.Equal(t, 90.0, second.Price)

	var count int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	byA, err := store.Orders.ListOrdersByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, byA)
}

func TestMarkOrderPaid(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Orders.MarkOrderPaid(ctx, "p-new", "buyer@example.com", "pi_1"))
	created, err := store.Orders.FindOrderByProduct(ctx, "p-new")
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", created.Email)
	assert.True(t, created.Paid)
	require.NotNil(t, created.TransactionID)
	assert.Equal(t, "pi_1", *created.TransactionID)

	booked, err := store.Orders.UpsertOrderByProduct(ctx, &domain.Order{ProductID: "p-booked", Email: "owner@example.com"})
	require.NoError(t, err)
	require.NoError(t, store.Orders.MarkOrderPaid(ctx, "p-booked", "someone@example.com", "pi_2"))

	paid, err := store.Orders.FindOrderByID(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", paid.Email)
	assert.True(t, paid.Paid)
	require.NotNil(t, paid.TransactionID)
	assert.Equal(t, "pi_2", *paid.TransactionID)
}

func TestDeleteOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	order, err := store.Orders.UpsertOrderByProduct(ctx, &domain.Order{ProductID: "p-1", Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, store.Orders.DeleteOrder(ctx, order.ID))
	assert.ErrorIs(t, store.Orders.DeleteOrder(ctx, order.ID), domain.ErrNotFound)
	_, err = store.Orders.FindOrderByProduct(ctx, "p-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePaymentDuplicateTransaction(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Payments.CreatePayment(ctx, &domain.Payment{
		ProductID: "p-1", Email: "a@example.com", TransactionID: "pi_1", Amount: 10,
	}))
	err := store.Payments.CreatePayment(ctx, &domain.Payment{
		ProductID: "p-2", Email: "b@example.com", TransactionID: "pi_1", Amount: 20,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	payments, err := store.Payments.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "p-1", payments[0].ProductID)
}

func TestMarkSettled(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Payments.MarkSettled(ctx, "pi_missing"), domain.ErrNotFound)

	require.NoError(t, store.Payments.CreatePayment(ctx, &domain.Payment{
		ProductID: "p-1", Email: "a@example.com", TransactionID: "pi_1",
	}))
	require.NoError(t, store.Payments.MarkSettled(ctx, "pi_1"))

	payment, err := store.Payments.FindPaymentByTransaction(ctx, "pi_1")
	require.NoError(t, err)
	assert.True(t, payment.Settled)
}

func TestProductListings(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	create := func(name string) *domain.Product {
		p := &domain.Product{SellerEmail: "seller@example.com", CategoryID: "cat-1", Name: name, ResalePrice: 100}
		require.NoError(t, store.Products.CreateProduct(ctx, p))
		return p
	}
	open := create("open")
	booked := create("booked")
	sold := create("sold")

	require.NoError(t, store.Products.UpdateProduct(ctx, booked.ID, domain.ProductPatch{IsBooked: domain.Bool(true)}))
	require.NoError(t, store.Products.UpdateProduct(ctx, sold.ID, domain.ProductPatch{
		Sold:          domain.Bool(true),
		Advertise:     domain.Bool(true),
		TransactionID: domain.String("pi_1"),
	}))
	require.NoError(t, store.Products.UpdateProduct(ctx, open.ID, domain.ProductPatch{
		Advertise: domain.Bool(true),
		Reported:  domain.Bool(true),
	}))

	available, err := store.Products.ListAvailableByCategory(ctx, "cat-1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, open.ID, available[0].ID)

	advertised, err := store.Products.ListAdvertised(ctx)
	require.NoError(t, err)
	require.Len(t, advertised, 1)
	assert.Equal(t, open.ID, advertised[0].ID)

	reported, err := store.Products.ListReported(ctx)
	require.NoError(t, err)
	require.Len(t, reported, 1)

	mine, err := store.Products.ListBySeller(ctx, "seller@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	got, err := store.Products.FindProductByID(ctx, sold.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TransactionID)
	assert.Equal(t, "pi_1", *got.TransactionID)
}

func TestMarkVerifiedBySeller(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, seller := range []string{"a@example.com", "a@example.com", "b@example.com"} {
		require.NoError(t, store.Products.CreateProduct(ctx, &domain.Product{SellerEmail: seller, CategoryID: "cat-1", Name: "x"}))
	}

	n, err := store.Products.MarkVerifiedBySeller(ctx, "a@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = store.Products.MarkVerifiedBySeller(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Zero(t, n)

	others, err := store.Products.ListBySeller(ctx, "b@example.com")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].IsVerified)
}

func TestMissingProductIsNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Products.FindProductByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Products.UpdateProduct(ctx, "missing", domain.ProductPatch{Sold: domain.Bool(true)}), domain.ErrNotFound)
	assert.ErrorIs(t, store.Products.UpdateProduct(ctx, "missing", domain.ProductPatch{}), domain.ErrNotFound)
	assert.ErrorIs(t, store.Products.DeleteProduct(ctx, "missing"), domain.ErrNotFound)
}

func TestCatalogAndAudit(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&[]domain.Category{{ID: "c-2", Name: "Lenovo"}, {ID: "c-1", Name: "Dell"}}).Error)
	require.NoError(t, db.Create(&domain.Blog{ID: "b-1", Title: "Buying used"}).Error)

	categories, err := store.Catalog.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Dell", categories[0].Name)

	blogs, err := store.Catalog.ListBlogs(ctx)
	require.NoError(t, err)
	assert.Len(t, blogs, 1)

	entry := &domain.AuditLog{
		ActorEmail: "admin@example.com",
		Action:     domain.AuditDeleteUser,
		Entity:     "user",
		EntityID:   "u-1",
	}
	require.NoError(t, store.Audit.CreateAuditLog(ctx, entry))
	assert.NotEmpty(t, entry.ID)

	var stored domain.AuditLog
	require.NoError(t, db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, "u-1", stored.EntityID)
}
