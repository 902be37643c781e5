package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	newestFirst = bson.D{{Key: "created_at", Value: -1}}
	oldestFirst = bson.D{{Key: "created_at", Value: 1}}
)

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) UpsertUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}
	role := user.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	id := user.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":       user.Name,
			"photo_url":  user.PhotoURL,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        id,
			"role":       role,
			"verified":   false,
			"created_at": now,
		},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"email": user.Email}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return r.FindUserByEmail(ctx, user.Email)
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.coll, bson.M{"email": email})
}

func (r *userRepository) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	return findMany[domain.User](ctx, r.coll, filter, oldestFirst)
}

func (r *userRepository) SetVerified(ctx context.Context, email string) error {
	return updateExisting(ctx, r.coll, bson.M{"email": email}, bson.M{"verified": true})
}

func (r *userRepository) DeleteUserByID(ctx context.Context, id string) error {
	return deleteExisting(ctx, r.coll, bson.M{"_id": id})
}

type productRepository struct {
	coll *mongo.Collection
}

func (r *productRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *productRepository) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return findOne[domain.Product](ctx, r.coll, bson.M{"_id": id})
}

func (r *productRepository) ListAvailableByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return findMany[domain.Product](ctx, r.coll, bson.M{
		"category_id": categoryID,
		"is_booked":   false,
		"sold":        false,
	}, newestFirst)
}

func (r *productRepository) ListBySeller(ctx context.Context, email string) ([]domain.Product, error) {
	return findMany[domain.Product](ctx, r.coll, bson.M{"seller_email": email}, newestFirst)
}

func (r *productRepository) ListReported(ctx context.Context) ([]domain.Product, error) {
	return findMany[domain.Product](ctx, r.coll, bson.M{"reported": true}, newestFirst)
}

func (r *productRepository) ListAdvertised(ctx context.Context) ([]domain.Product, error) {
	return findMany[domain.Product](ctx, r.coll, bson.M{"advertise": true, "sold": false}, newestFirst)
}

func (r *productRepository) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) error {
	return updateExisting(ctx, r.coll, bson.M{"_id": id}, bson.M(patch.Fields()))
}

func (r *productRepository) MarkVerifiedBySeller(ctx context.Context, email string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"seller_email": email},
		bson.M{"$set": bson.M{"is_verified": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("verify seller products: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	return deleteExisting(ctx, r.coll, bson.M{"_id": id})
}

type orderRepository struct {
	coll *mongo.Collection
}

func (r *orderRepository) UpsertOrderByProduct(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil || order.ProductID == "" {
		return nil, errors.New("order without product id")
	}
	id := order.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"product_name":   order.ProductName,
			"email":          order.Email,
			"buyer_name":     order.BuyerName,
			"phone":          order.Phone,
			"location":       order.Location,
			"price":          order.Price,
			"paid":           order.Paid,
			"transaction_id": order.TransactionID,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{"_id": id, "created_at": now},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"product_id": order.ProductID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("upsert order: %w", err)
	}
	return r.FindOrderByProduct(ctx, order.ProductID)
}

func (r *orderRepository) MarkOrderPaid(ctx context.Context, productID, email, transactionID string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"paid":           true,
			"transaction_id": transactionID,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{"_id": uuid.NewString(), "email": email, "created_at": now},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"product_id": productID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	return nil
}

func (r *orderRepository) FindOrderByProduct(ctx context.Context, productID string) (*domain.Order, error) {
	return findOne[domain.Order](ctx, r.coll, bson.M{"product_id": productID})
}

func (r *orderRepository) FindOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	return findOne[domain.Order](ctx, r.coll, bson.M{"_id": id})
}

func (r *orderRepository) ListOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	return findMany[domain.Order](ctx, r.coll, bson.M{"email": email}, newestFirst)
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id string) error {
	return deleteExisting(ctx, r.coll, bson.M{"_id": id})
}

type paymentRepository struct {
	coll *mongo.Collection
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) FindPaymentByTransaction(ctx context.Context, transactionID string) (*domain.Payment, error) {
	return findOne[domain.Payment](ctx, r.coll, bson.M{"transaction_id": transactionID})
}

func (r *paymentRepository) MarkSettled(ctx context.Context, transactionID string) error {
	return updateExisting(ctx, r.coll, bson.M{"transaction_id": transactionID}, bson.M{"settled": true})
}

func (r *paymentRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return findMany[domain.Payment](ctx, r.coll, bson.M{}, oldestFirst)
}

type catalogRepository struct {
	categories *mongo.Collection
	blogs      *mongo.Collection
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return findMany[domain.Category](ctx, r.categories, bson.M{}, bson.D{{Key: "name", Value: 1}})
}

func (r *catalogRepository) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	return findMany[domain.Blog](ctx, r.blogs, bson.M{}, newestFirst)
}

type auditRepository struct {
	coll *mongo.Collection
}

func (r *auditRepository) CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
