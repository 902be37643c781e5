package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/interfaces"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository"
	"github.com/TajwarSaiyeed/laptop-zone-server/pkg/utils"
)

const productImageFolder = "laptop-zone/products"

type MarketplaceService interface {
	// Catalog
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListBlogs(ctx context.Context) ([]domain.Blog, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	ListAdvertised(ctx context.Context) ([]domain.Product, error)

	// Seller
	CreateProduct(ctx context.Context, seller string, input dto.CreateProductRequest) (*domain.Product, error)
	ListSellerProducts(ctx context.Context, caller, email string) ([]domain.Product, error)
	SetAdvertise(ctx context.Context, seller, productID string, advertise bool) error
	UploadProductImage(ctx context.Context, seller, productID string, image []byte) (string, error)

	// Moderation
	Report(ctx context.Context, caller, productID string) error
	Unreport(ctx context.Context, admin, productID string) error
	ListReported(ctx context.Context) ([]domain.Product, error)
	DeleteReported(ctx context.Context, admin, productID string) error

	// Orders
	Book(ctx context.Context, buyer, productID string, input dto.BookOrderRequest) (*domain.Order, error)
	RevokeBooking(ctx context.Context, caller, productID string) error
	CheckBooking(ctx context.Context, productID string) (bool, error)
	ListBuyerOrders(ctx context.Context, caller, email string) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, caller, orderID string) error
}

type marketplaceService struct {
	store    *repository.Store
	uploader interfaces.Uploader

	events publisher
	log    *slog.Logger
}

func NewMarketplaceService(
	store *repository.Store,
	uploader interfaces.Uploader,
	producer interfaces.ProducerHandler,
	logger *slog.Logger,
) MarketplaceService {
	log := resolveLogger(logger).With("service", "marketplace")
	return &marketplaceService{
		store:    store,
		uploader: uploader,
		events:   publisher{producer: producer, log: log},
		log:      log,
	}
}

func (s *marketplaceService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.Catalog.ListCategories(ctx)
}

func (s *marketplaceService) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	return s.store.Catalog.ListBlogs(ctx)
}

func (s *marketplaceService) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", domain.ErrInvalidInput)
	}
	return s.store.Products.ListAvailableByCategory(ctx, categoryID)
}

func (s *marketplaceService) ListAdvertised(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products.ListAdvertised(ctx)
}

func (s *marketplaceService) CreateProduct(ctx context.Context, seller string, input dto.CreateProductRequest) (*domain.Product, error) {
	user, err := s.store.Users.FindUserByEmail(ctx, seller)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	categoryID := strings.TrimSpace(input.CategoryID)
	if name == "" || categoryID == "" {
		return nil, fmt.Errorf("%w: name and categoryId are required", domain.ErrInvalidInput)
	}
	if input.ResalePrice <= 0 || input.OriginalPrice < 0 || input.YearsOfUse < 0 {
		return nil, fmt.Errorf("%w: prices and years of use must not be negative", domain.ErrInvalidInput)
	}

	product := &domain.Product{
		SellerEmail:   user.Email,
		SellerName:    user.Name,
		CategoryID:    categoryID,
		Name:          name,
		ImageURL:      strings.TrimSpace(input.Image),
		Location:      strings.TrimSpace(input.Location),
		Condition:     strings.TrimSpace(input.Condition),
		OriginalPrice: input.OriginalPrice,
		ResalePrice:   input.ResalePrice,
		YearsOfUse:    input.YearsOfUse,
		Phone:         strings.TrimSpace(input.Phone),
		Description:   strings.TrimSpace(input.Description),
		IsVerified:    user.Verified,
	}
	if err := s.store.Products.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *marketplaceService) ListSellerProducts(ctx context.Context, caller, email string) ([]domain.Product, error) {
	if !strings.EqualFold(strings.TrimSpace(email), caller) {
		return nil, domain.ErrForbidden
	}
	return s.store.Products.ListBySeller(ctx, caller)
}

// ownedProduct loads a product and checks the caller listed it.
func (s *marketplaceService) ownedProduct(ctx context.Context, seller, productID string) (*domain.Product, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(product.SellerEmail, seller) {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func (s *marketplaceService) findProduct(ctx context.Context, productID string) (*domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	return s.store.Products.FindProductByID(ctx, productID)
}

func (s *marketplaceService) SetAdvertise(ctx context.Context, seller, productID string, advertise bool) error {
	product, err := s.ownedProduct(ctx, seller, productID)
	if err != nil {
		return err
	}
	if advertise && product.Sold {
		return fmt.Errorf("%w: a sold product cannot be advertised", domain.ErrConflict)
	}
	return s.store.Products.UpdateProduct(ctx, product.ID, domain.ProductPatch{Advertise: domain.Bool(advertise)})
}

func (s *marketplaceService) UploadProductImage(ctx context.Context, seller, productID string, image []byte) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("%w: image storage not configured", domain.ErrUnavailable)
	}
	product, err := s.ownedProduct(ctx, seller, productID)
	if err != nil {
		return "", err
	}

	jpg, format, err := utils.NormalizeToJPG(image, utils.ProductPhotoWidth, 85)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	url, err := s.uploader.UploadBytes(ctx, productImageFolder, product.ID, jpg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if err := s.store.Products.UpdateProduct(ctx, product.ID, domain.ProductPatch{ImageURL: domain.String(url)}); err != nil {
		return "", err
	}
	s.log.Info("product image uploaded", "product_id", product.ID, "source_format", format, "bytes", len(jpg))
	return url, nil
}

func (s *marketplaceService) Report(ctx context.Context, caller, productID string) error {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.store.Products.UpdateProduct(ctx, product.ID, domain.ProductPatch{Reported: domain.Bool(true)}); err != nil {
		return err
	}
	s.log.Info("product reported", "product_id", product.ID, "by", caller)
	return nil
}

func (s *marketplaceService) Unreport(ctx context.Context, admin, productID string) error {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.store.Products.UpdateProduct(ctx, product.ID, domain.ProductPatch{Reported: domain.Bool(false)}); err != nil {
		return err
	}
	audit(ctx, s.store, s.log, admin, domain.AuditUnreport, "product", product.ID, "")
	return nil
}

func (s *marketplaceService) ListReported(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products.ListReported(ctx)
}

func (s *marketplaceService) DeleteReported(ctx context.Context, admin, productID string) error {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.Reported {
		return fmt.Errorf("%w: product is not reported", domain.ErrConflict)
	}
	if err := s.store.Products.DeleteProduct(ctx, product.ID); err != nil {
		return err
	}
	audit(ctx, s.store, s.log, admin, domain.AuditDeleteProduct, "product", product.ID, product.Name)
	return nil
}

// Book reserves a product for the caller. The order is keyed by product, so
// the last booking of an unsold product wins.
func (s *marketplaceService) Book(ctx context.Context, buyer, productID string, input dto.BookOrderRequest) (*domain.Order, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Sold {
		return nil, domain.ErrAlreadySold
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}

	productName := strings.TrimSpace(input.ProductName)
	if productName == "" {
		productName = product.Name
	}
	price := input.Price
	if price == 0 {
		price = product.ResalePrice
	}

	order, err := s.store.Orders.UpsertOrderByProduct(ctx, &domain.Order{
		ProductID:   product.ID,
		ProductName: productName,
		Email:       buyer,
		BuyerName:   strings.TrimSpace(input.BuyerName),
		Phone:       strings.TrimSpace(input.Phone),
		Location:    strings.TrimSpace(input.Location),
		Price:       price,
	})
	if err != nil {
		return nil, fmt.Errorf("book product: %w", err)
	}
	if err := s.store.Products.UpdateProduct(ctx, product.ID, domain.ProductPatch{IsBooked: domain.Bool(true)}); err != nil {
		return nil, fmt.Errorf("mark product booked: %w", err)
	}

	s.events.publish(ctx, product.ID, dto.BookingEvent{
		Event:     dto.EventProductBooked,
		ProductID: product.ID,
		OrderID:   order.ID,
		Email:     buyer,
	})
	return order, nil
}

// RevokeBooking releases the reservation on an unpaid product. The order
// record is kept.
func (s *marketplaceService) RevokeBooking(ctx context.Context, caller, productID string) error {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return err
	}

	order, err := s.store.Orders.FindOrderByProduct(ctx, product.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	isAdmin, err := s.isAdmin(ctx, caller)
	if err != nil {
		return err
	}
	owner := order != nil && strings.EqualFold(order.Email, caller)
	if !owner && !isAdmin {
		return domain.ErrForbidden
	}
	if product.Paid || product.Sold || (order != nil && order.Paid) {
		return fmt.Errorf("%w: a paid booking cannot be revoked", domain.ErrConflict)
	}

	if err := s.store.Products.UpdateProduct(ctx, product.ID, domain.ProductPatch{IsBooked: domain.Bool(false)}); err != nil {
		return err
	}
	if isAdmin && !owner {
		audit(ctx, s.store, s.log, caller, domain.AuditRevokeBooking, "product", product.ID, "")
	}
	s.events.publish(ctx, product.ID, dto.BookingEvent{
		Event:     dto.EventBookingRevoked,
		ProductID: product.ID,
		Email:     caller,
	})
	return nil
}

func (s *marketplaceService) CheckBooking(ctx context.Context, productID string) (bool, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	return product.IsBooked, nil
}

func (s *marketplaceService) ListBuyerOrders(ctx context.Context, caller, email string) ([]domain.Order, error) {
	if !strings.EqualFold(strings.TrimSpace(email), caller) {
		return nil, domain.ErrForbidden
	}
	return s.store.Orders.ListOrdersByEmail(ctx, caller)
}

// DeleteOrder removes an order for its owner or an admin. Deleting an unpaid
// order also releases the product.
func (s *marketplaceService) DeleteOrder(ctx context.Context, caller, orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return fmt.Errorf("%w: order id is required", domain.ErrInvalidInput)
	}
	order, err := s.store.Orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	isAdmin, err := s.isAdmin(ctx, caller)
	if err != nil {
		return err
	}
	owner := strings.EqualFold(order.Email, caller)
	if !owner && !isAdmin {
		return domain.ErrForbidden
	}
	if order.Paid && !isAdmin {
		return fmt.Errorf("%w: a paid order cannot be deleted", domain.ErrConflict)
	}

	if err := s.store.Orders.DeleteOrder(ctx, order.ID); err != nil {
		return err
	}
	if !order.Paid {
		err := s.store.Products.UpdateProduct(ctx, order.ProductID, domain.ProductPatch{IsBooked: domain.Bool(false)})
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("release product: %w", err)
		}
	}
	if isAdmin {
		audit(ctx, s.store, s.log, caller, domain.AuditDeleteOrder, "order", order.ID, "")
	}
	return nil
}

func (s *marketplaceService) isAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.store.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Role == domain.RoleAdmin, nil
}
