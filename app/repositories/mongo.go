package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
)

// Collection names.
const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
	CartsCollection      = "carts"
	OrdersCollection     = "orders"
)

// NewMongo builds a Store backed by db.
func NewMongo(db *mongo.Database) *Store {
	return &Store{
		Users:      &mongoUsers{c: newCollection[models.User](db, UsersCollection)},
		Categories: &mongoCategories{c: newCollection[models.Category](db, CategoriesCollection)},
		Products:   &mongoProducts{c: newCollection[models.Product](db, ProductsCollection)},
		Carts:      &mongoCarts{c: newCollection[models.Cart](db, CartsCollection)},
		Orders:     &mongoOrders{c: newCollection[models.Order](db, OrdersCollection)},
	}
}

// collection wraps a typed mongo collection with error mapping and timing.
type collection[T any] struct {
	col  *mongo.Collection
	name string
}

func newCollection[T any](db *mongo.Database, name string) collection[T] {
	return collection[T]{col: db.Collection(name), name: name}
}

func (c collection[T]) insert(ctx context.Context, doc *T) error {
	defer metrics.ObserveStoreOp(c.name, "insert", time.Now())
	if _, err := c.col.InsertOne(ctx, doc); err != nil {
		return c.mapErr("insert", err)
	}
	return nil
}

func (c collection[T]) findOne(ctx context.Context, filter bson.M) (T, error) {
	defer metrics.ObserveStoreOp(c.name, "find_one", time.Now())
	var out T
	if err := c.col.FindOne(ctx, filter).Decode(&out); err != nil {
		return out, c.mapErr("find_one", err)
	}
	return out, nil
}

func (c collection[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	defer metrics.ObserveStoreOp(c.name, "find", time.Now())
	cur, err := c.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, c.mapErr("find", err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, c.mapErr("find", err)
	}
	return out, nil
}

// replace swaps the document matching filter; ErrNotFound when nothing matched.
func (c collection[T]) replace(ctx context.Context, filter bson.M, doc *T) error {
	defer metrics.ObserveStoreOp(c.name, "replace", time.Now())
	res, err := c.col.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return c.mapErr("replace", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c collection[T]) delete(ctx context.Context, filter bson.M) error {
	defer metrics.ObserveStoreOp(c.name, "delete", time.Now())
	res, err := c.col.DeleteOne(ctx, filter)
	if err != nil {
		return c.mapErr("delete", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c collection[T]) mapErr(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s %s: %w", c.name, op, ErrDuplicateKey)
	default:
		return fmt.Errorf("repositories: %s %s: %w", c.name, op, err)
	}
}
