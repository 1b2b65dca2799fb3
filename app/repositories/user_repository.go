package repositories

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
)

type mongoUsers struct {
	c collection[models.User]
}

// Create assigns an id when missing and persists u.
func (r *mongoUsers) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.c.insert(ctx, u)
}

// FindByID looks up a user by primary key.
func (r *mongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail looks up a user by their email address.
func (r *mongoUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.c.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *mongoUsers) All(ctx context.Context) ([]models.User, error) {
	return r.c.find(ctx, bson.M{})
}

// Update persists changes to an existing user.
func (r *mongoUsers) Update(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.c.replace(ctx, bson.M{"_id": u.ID}, u)
}

func (r *mongoUsers) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.c.delete(ctx, bson.M{"_id": id})
}
