package services

import (
	"context"
	"testing"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductCopiesSellerState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.VerifySeller(ctx, adminEmail, sellerEmail)
	require.NoError(t, err)

	p, err := f.market.CreateProduct(ctx, sellerEmail, dto.CreateProductRequest{
		CategoryID:  "cat-1",
		Name:        "ThinkPad T480",
		ResalePrice: 320,
		YearsOfUse:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, sellerEmail, p.SellerEmail)
	assert.True(t, p.IsVerified)
	assert.False(t, p.IsBooked)

	_, err = f.market.CreateProduct(ctx, sellerEmail, dto.CreateProductRequest{CategoryID: "cat-1", Name: "bad", ResalePrice: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBookTwiceKeepsLatestPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.listProduct(t, "ThinkPad", "cat-1", 300)

	_, err := f.market.Book(ctx, buyerEmail, p.ID, dto.BookOrderRequest{BuyerName: "First", Phone: "111", Location: "Dhaka"})
	require.NoError(t, err)
	second, err := f.market.Book(ctx, otherBuyer, p.ID, dto.BookOrderRequest{BuyerName: "Second", Phone: "222", Location: "Khulna"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.mem.OrderCount())
	order, err := f.store.Orders.FindOrderByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, order.ID)
	assert.Equal(t, otherBuyer, order.Email)
	assert.Equal(t, "Second", order.BuyerName)
	assert.Equal(t, "Khulna", order.Location)
	assert.Equal(t, 300.0, order.Price, "price defaults to the resale price")
	assert.True(t, f.product(t, p.ID).IsBooked)
	assert.Len(t, f.producer.byEvent(dto.EventProductBooked), 2)
}

func TestBookMissingOrSoldProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.market.Book(ctx, buyerEmail, "missing", dto.BookOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p := f.listProduct(t, "ThinkPad", "cat-1", 300)
	require.NoError(t, f.store.Products.UpdateProduct(ctx, p.ID, domain.ProductPatch{Sold: domain.Bool(true)}))
	_, err = f.market.Book(ctx, buyerEmail, p.ID, dto.BookOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadySold)
}

func TestRevokeBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.listProduct(t, "ThinkPad", "cat-1", 300)

	_, err := f.market.Book(ctx, buyerEmail, p.ID, dto.BookOrderRequest{})
	require.NoError(t, err)

	assert.ErrorIs(t, f.market.RevokeBooking(ctx, otherBuyer, p.ID), domain.ErrForbidden)

	require.NoError(t, f.market.RevokeBooking(ctx, buyerEmail, p.ID))
	assert.False(t, f.product(t, p.ID).IsBooked)
	assert.Equal(t, 1, f.mem.OrderCount(), "the order is kept")

	booked, err := f.market.CheckBooking(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, booked)
}

func TestRevokeAfterPaymentConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.listProduct(t, "ThinkPad", "cat-1", 300)

	_, err := f.market.Book(ctx, buyerEmail, p.ID, dto.BookOrderRequest{})
	require.NoError(t, err)
	_, err = f.payments.Pay(ctx, buyerEmail, dto.PaymentRequest{ProductID: p.ID, TransactionID: "pi_1"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.market.RevokeBooking(ctx, buyerEmail, p.ID), domain.ErrConflict)
	assert.ErrorIs(t, f.market.RevokeBooking(ctx, adminEmail, p.ID), domain.ErrConflict)
}

func TestCategoryListingExcludesBookedAndSold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	available := f.listProduct(t, "Available", "cat-1", 100)
	booked := f.listProduct(t, "Booked", "cat-1", 100)
	sold := f.listProduct(t, "Sold", "cat-1", 100)
	f.listProduct(t, "Elsewhere", "cat-2", 100)

	_, err := f.market.Book(ctx, buyerEmail, booked.ID, dto.BookOrderRequest{})
	require.NoError(t, err)
	require.NoError(t, f.store.Products.UpdateProduct(ctx, sold.ID, domain.ProductPatch{Sold: domain.Bool(true)}))

	products, err := f.market.ListByCategory(ctx, "cat-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, available.ID, products[0].ID)
}

func TestBuyerOrdersForAnotherEmailAreForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.listProduct(t, "ThinkPad", "cat-1", 300)
	_, err := f.market.Book(ctx, buyerEmail, p.ID, dto.BookOrderRequest{})
	require.NoError(t, err)

	_, err = f.market.ListBuyerOrders(ctx, otherBuyer, buyerEmail)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	orders, err := f.market.ListBuyerOrders(ctx, buyerEmail, buyerEmail)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestSellerProductsRequireOwnEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.listProduct(t, "ThinkPad", "cat-1", 300)

	_, err := f.market.ListSellerProducts(ctx, sellerEmail, "someone@example.com")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	products, err := f.market.ListSellerProducts(ctx, sellerEmail, sellerEmail)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestAdvertiseAndReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.listProduct(t, "ThinkPad", "cat-1", 300)

	assert.ErrorIs(t, f.market.SetAdvertise(ctx, "intruder@example.com", p.ID, true), domain.ErrForbidden)
	require.NoError(t, f.market.SetAdvertise(ctx, sellerEmail, p.ID, true))

	ads, err := f.market.ListAdvertised(ctx)
	require.NoError(t, err)
	assert.Len(t, ads, 1)

	require.NoError(t, f.market.Report(ctx, buyerEmail, p.ID))
	reported, err := f.market.ListReported(ctx)
	require.NoError(t, err)
	assert.Len(t, reported, 1)

	require.NoError(t, f.market.Unreport(ctx, adminEmail, p.ID))
	reported, err = f.market.ListReported(ctx)
	require.NoError(t, err)
	assert.Empty(t, reported)

	require.NoError(t, f.store.Products.UpdateProduct(ctx, p.ID, domain.ProductPatch{Sold: domain.Bool(true)}))
	assert.ErrorIs(t, f.market.SetAdvertise(ctx, sellerEmail, p.ID, true), domain.ErrConflict)

	assert.ErrorIs(t, f.market.Report(ctx, buyerEmail, "missing"), domain.ErrNotFound)
}

func TestDeleteReported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.listProduct(t, "ThinkPad", "cat-1", 300)

	assert.ErrorIs(t, f.market.DeleteReported(ctx, adminEmail, p.ID), domain.ErrConflict)

	require.NoError(t, f.market.Report(ctx, buyerEmail, p.ID))
	require.NoError(t, f.market.DeleteReported(ctx, adminEmail, p.ID))
	assert.ErrorIs(t, f.market.DeleteReported(ctx, adminEmail, p.ID), domain.ErrNotFound)
}

func TestDeleteOrderReleasesProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.listProduct(t, "ThinkPad", "cat-1", 300)
	order, err := f.market.Book(ctx, buyerEmail, p.ID, dto.BookOrderRequest{})
	require.NoError(t, err)

	assert.ErrorIs(t, f.market.DeleteOrder(ctx, otherBuyer, order.ID), domain.ErrForbidden)
	require.NoError(t, f.market.DeleteOrder(ctx, buyerEmail, order.ID))

	assert.False(t, f.product(t, p.ID).IsBooked)
	assert.Zero(t, f.mem.OrderCount())
}

func TestUploadWithoutStorageIsUnavailable(t *testing.T) {
	f := newFixture(t)
	p := f.listProduct(t, "ThinkPad", "cat-1", 300)

	_, err := f.market.UploadProductImage(context.Background(), sellerEmail, p.ID, []byte("x"))
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
