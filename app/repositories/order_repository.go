package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
)

type mongoOrders struct {
	c collection[models.Order]
}

func (r *mongoOrders) Create(ctx context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	o.Version = 1
	return r.c.insert(ctx, o)
}

func (r *mongoOrders) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoOrders) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.c.find(ctx, bson.M{"userId": userID})
}

func (r *mongoOrders) All(ctx context.Context) ([]models.Order, error) {
	return r.c.find(ctx, bson.M{})
}

func (r *mongoOrders) Update(ctx context.Context, o *models.Order) error {
	expected := o.Version
	o.Version = expected + 1
	err := r.c.replace(ctx, bson.M{"_id": o.ID, "version": expected}, o)
	if err == nil {
		return nil
	}
	o.Version = expected
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	// A zero match is either a missing order or a stale version.
	if _, ferr := r.c.findOne(ctx, bson.M{"_id": o.ID}); ferr != nil {
		return ferr
	}
	return ErrVersionConflict
}

func (r *mongoOrders) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.c.delete(ctx, bson.M{"_id": id})
}
