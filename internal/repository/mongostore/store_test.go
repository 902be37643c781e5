package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// openTestStore needs MONGO_TEST_URI; each test gets its own database,
// dropped on cleanup.
func openTestStore(t *testing.T) *repository.Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	database := "laptopzone_test_" + uuid.NewString()[:8]
	store, err := Open(ctx, uri, database)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri)); err == nil {
			_ = client.Database(database).Drop(ctx)
			_ = client.Disconnect(ctx)
		}
		_ = store.Close(ctx)
	})
	return store
}

func TestMongoUpsertUserKeepsRoleAndVerified(t *testing.T) {
	store := openTestStore(t)
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

	assert.ErrorIs(t, store.Users.SetVerified(ctx, "ghost@example.com"), domain.ErrNotFound)
}

func TestMongoOrdersAndPayments(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Orders.UpsertOrderByProduct(ctx, &domain.Order{ProductID: "p-1", Email: "a@example.com"})
	require.NoError(t, err)
	second, err := store.Orders.UpsertOrderByProduct(ctx, &domain.Order{ProductID: "p-1", Email: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "b@example.com", second.Email)

	require.NoError(t, store.Orders.MarkOrderPaid(ctx, "p-2", "c@example.com", "pi_2"))
	paid, err := store.Orders.FindOrderByProduct(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", paid.Email)
	assert.True(t, paid.Paid)

	require.NoError(t, store.Payments.CreatePayment(ctx, &domain.Payment{ProductID: "p-1", Email: "b@example.com", TransactionID: "pi_1"}))
	err = store.Payments.CreatePayment(ctx, &domain.Payment{ProductID: "p-3", Email: "d@example.com", TransactionID: "pi_1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.ErrorIs(t, store.Payments.MarkSettled(ctx, "pi_missing"), domain.ErrNotFound)
	assert.ErrorIs(t, store.Orders.DeleteOrder(ctx, "missing"), domain.ErrNotFound)
}

func TestMongoProductFanOut(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, seller := range []string{"a@example.com", "a@example.com", "b@example.com"} {
		require.NoError(t, store.Products.CreateProduct(ctx, &domain.Product{SellerEmail: seller, CategoryID: "cat-1", Name: "x"}))
	}
	n, err := store.Products.MarkVerifiedBySeller(ctx, "a@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	assert.ErrorIs(t, store.Products.UpdateProduct(ctx, "missing", domain.ProductPatch{Sold: domain.Bool(true)}), domain.ErrNotFound)
}
