package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/migration"
)

func init() {
	migration.Register("20260101000000_users_email_unique",
		migration.UniqueIndex{Collection: repositories.UsersCollection, Field: "email"})
	migration.Register("20260101000001_categories_name_unique",
		migration.UniqueIndex{Collection: repositories.CategoriesCollection, Field: "name"})
	migration.Register("20260101000002_categories_slug_unique",
		migration.UniqueIndex{Collection: repositories.CategoriesCollection, Field: "slug"})
	migration.Register("20260101000003_products_slug_unique",
		migration.UniqueIndex{Collection: repositories.ProductsCollection, Field: "slug"})
	migration.Register("20260101000004_carts_user_unique",
		migration.UniqueIndex{Collection: repositories.CartsCollection, Field: "userId"})
	migration.Register("20260101000005_orders_user_index", &OrdersByUser{})
}

// OrdersByUser indexes orders for the "my orders" listing.
type OrdersByUser struct{}

const ordersByUserIndex = "userId_createdAt"

func (OrdersByUser) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repositories.OrdersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName(ordersByUserIndex),
	})
	return err
}

func (OrdersByUser) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repositories.OrdersCollection).Indexes().DropOne(ctx, ordersByUserIndex)
	return err
}
