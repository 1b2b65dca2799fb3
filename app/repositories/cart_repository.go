package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
)

type mongoCarts struct {
	c collection[models.Cart]
}

func (r *mongoCarts) FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return r.c.findOne(ctx, bson.M{"userId": userID})
}

func (r *mongoCarts) All(ctx context.Context) ([]models.Cart, error) {
	return r.c.find(ctx, bson.M{})
}

// Insert creates the cart at version 1. A second cart for the same user hits
// the unique userId index and yields ErrDuplicateKey.
func (r *mongoCarts) Insert(ctx context.Context, c *models.Cart) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Version = 1
	return r.c.insert(ctx, c)
}

func (r *mongoCarts) Replace(ctx context.Context, c *models.Cart) error {
	expected := c.Version
	c.Version = expected + 1
	err := r.c.replace(ctx, bson.M{"_id": c.ID, "version": expected}, c)
	if err != nil {
		c.Version = expected
		if errors.Is(err, ErrNotFound) {
			return ErrVersionConflict
		}
		return err
	}
	return nil
}
