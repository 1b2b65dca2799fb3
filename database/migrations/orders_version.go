package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/migration"
)

func init() {
	migration.Register("20260301000000_orders_version_backfill", &OrdersVersion{})
}

// OrdersVersion gives orders written before versioning a starting version,
// so status updates can compare-and-swap on it.
type OrdersVersion struct{}

func (OrdersVersion) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repositories.OrdersCollection).UpdateMany(ctx,
		bson.M{"version": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"version": 1}})
	return err
}

func (OrdersVersion) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repositories.OrdersCollection).UpdateMany(ctx,
		bson.M{},
		bson.M{"$unset": bson.M{"version": ""}})
	return err
}
