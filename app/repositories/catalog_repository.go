package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
)

type mongoCategories struct {
	c collection[models.Category]
}

func (r *mongoCategories) Create(ctx context.Context, c *models.Category) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	return r.c.insert(ctx, c)
}

func (r *mongoCategories) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoCategories) All(ctx context.Context) ([]models.Category, error) {
	return r.c.find(ctx, bson.M{})
}

func (r *mongoCategories) Update(ctx context.Context, c *models.Category) error {
	return r.c.replace(ctx, bson.M{"_id": c.ID}, c)
}

func (r *mongoCategories) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.c.delete(ctx, bson.M{"_id": id})
}

type mongoProducts struct {
	c collection[models.Product]
}

func (r *mongoProducts) Create(ctx context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	return r.c.insert(ctx, p)
}

func (r *mongoProducts) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoProducts) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	return r.c.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoProducts) All(ctx context.Context) ([]models.Product, error) {
	return r.c.find(ctx, bson.M{})
}

func (r *mongoProducts) Update(ctx context.Context, p *models.Product) error {
	return r.c.replace(ctx, bson.M{"_id": p.ID}, p)
}

func (r *mongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.c.delete(ctx, bson.M{"_id": id})
}
