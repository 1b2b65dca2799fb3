package memory

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
)

type Users struct{ t *table[models.User] }

func (r *Users) Create(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.t.insert(ctx, u)
}

func (r *Users) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return r.t.get(ctx, id)
}

func (r *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	email = normalizeEmail(email)
	return r.t.first(ctx, func(u models.User) bool { return u.Email == email })
}

func (r *Users) All(ctx context.Context) ([]models.User, error) { return r.t.filter(ctx, nil), nil }

func (r *Users) Update(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.t.replace(ctx, u, nil)
}

func (r *Users) Delete(ctx context.Context, id primitive.ObjectID) error { return r.t.delete(ctx, id) }

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

type Categories struct{ t *table[models.Category] }

func (r *Categories) Create(ctx context.Context, c *models.Category) error { return r.t.insert(ctx, c) }

func (r *Categories) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return r.t.get(ctx, id)
}

func (r *Categories) All(ctx context.Context) ([]models.Category, error) {
	return r.t.filter(ctx, nil), nil
}

func (r *Categories) Update(ctx context.Context, c *models.Category) error {
	return r.t.replace(ctx, c, nil)
}

func (r *Categories) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.t.delete(ctx, id)
}

type Products struct{ t *table[models.Product] }

func (r *Products) Create(ctx context.Context, p *models.Product) error { return r.t.insert(ctx, p) }

func (r *Products) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return r.t.get(ctx, id)
}

func (r *Products) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	return r.t.first(ctx, func(p models.Product) bool { return p.Slug == slug })
}

func (r *Products) All(ctx context.Context) ([]models.Product, error) {
	return r.t.filter(ctx, nil), nil
}

func (r *Products) Update(ctx context.Context, p *models.Product) error {
	return r.t.replace(ctx, p, nil)
}

func (r *Products) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.t.delete(ctx, id)
}

type Carts struct{ t *table[models.Cart] }

func (r *Carts) FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return r.t.first(ctx, func(c models.Cart) bool { return c.UserID == userID })
}

func (r *Carts) All(ctx context.Context) ([]models.Cart, error) { return r.t.filter(ctx, nil), nil }

func (r *Carts) Insert(ctx context.Context, c *models.Cart) error {
	c.Version = 1
	return r.t.insert(ctx, c)
}

func (r *Carts) Replace(ctx context.Context, c *models.Cart) error {
	expected := c.Version
	c.Version = expected + 1
	err := r.t.replace(ctx, c, func(stored models.Cart) error {
		if stored.Version != expected {
			return repositories.ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		c.Version = expected
	}
	return err
}

type Orders struct{ t *table[models.Order] }

func (r *Orders) Create(ctx context.Context, o *models.Order) error {
	o.Version = 1
	return r.t.insert(ctx, o)
}

func (r *Orders) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return r.t.get(ctx, id)
}

func (r *Orders) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.t.filter(ctx, func(o models.Order) bool { return o.UserID == userID }), nil
}

func (r *Orders) All(ctx context.Context) ([]models.Order, error) { return r.t.filter(ctx, nil), nil }

func (r *Orders) Update(ctx context.Context, o *models.Order) error {
	expected := o.Version
	o.Version = expected + 1
	err := r.t.replace(ctx, o, func(stored models.Order) error {
		if stored.Version != expected {
			return repositories.ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		o.Version = expected
	}
	return err
}

func (r *Orders) Delete(ctx context.Context, id primitive.ObjectID) error { return r.t.delete(ctx, id) }
