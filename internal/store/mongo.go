package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	productsCollection   = "products"
	ordersCollection     = "orders"
)

var (
	newestFirst  = bson.D{{Key: "createdAt", Value: -1}}
	withoutPhoto = bson.M{"photo": 0}
)

// NewMongo returns a Store backed by the given database.
func NewMongo(db *mongo.Database) *Store {
	return &Store{
		Users:      &mongoUsers{coll: db.Collection(usersCollection)},
		Categories: &mongoCategories{coll: db.Collection(categoriesCollection)},
		Products:   &mongoProducts{coll: db.Collection(productsCollection)},
		Orders:     &mongoOrders{coll: db.Collection(ordersCollection)},
	}
}

// EnsureIndexes creates the unique indexes the models rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	indexes := map[string][]mongo.IndexModel{
		usersCollection:      {unique("email")},
		categoriesCollection: {unique("name"), unique("slug")},
		productsCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
		},
		ordersCollection: {{Keys: bson.D{{Key: "buyer", Value: 1}}}},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// mapErr translates driver errors into the package sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
