// Package mongostore implements the repositories on MongoDB, the document
// store the marketplace was first deployed on.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	ordersCollection   = "orders"
	paymentsCollection = "payments"
	categoryCollection = "category"
	blogsCollection    = "blogs"
	auditCollection    = "audit_logs"
)

// Open connects, pings, and ensures the unique indexes the repositories rely
// on for upsert-by-key semantics.
func Open(ctx context.Context, uri, database string) (*repository.Store, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	slog.Info("database connected", "driver", "mongo", "database", database)

	db := client.Database(database)
	if err := ensureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return repository.NewStore(
		&userRepository{coll: db.Collection(usersCollection)},
		&productRepository{coll: db.Collection(productsCollection)},
		&orderRepository{coll: db.Collection(ordersCollection)},
		&paymentRepository{coll: db.Collection(paymentsCollection)},
		&catalogRepository{
			categories: db.Collection(categoryCollection),
			blogs:      db.Collection(blogsCollection),
		},
		&auditRepository{coll: db.Collection(auditCollection)},
		client.Disconnect,
	), nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := map[string]string{
		usersCollection:    "email",
		ordersCollection:   "product_id",
		paymentsCollection: "transaction_id",
	}
	for coll, key := range unique {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create %s.%s index: %w", coll, key, err)
		}
	}

	_, err := db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_email", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "is_booked", Value: 1}, {Key: "sold", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create products indexes: %w", err)
	}
	return nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

// updateExisting applies set to the single document matching filter and
// reports ErrNotFound instead of creating one.
func updateExisting(ctx context.Context, coll *mongo.Collection, filter bson.M, set bson.M) error {
	set["updated_at"] = time.Now()
	res, err := coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deleteExisting(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
