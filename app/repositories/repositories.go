// Package repositories is the persistence boundary. Services depend on the
// interfaces here; Mongo and in-memory implementations satisfy them.
package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
)

var (
	ErrNotFound        = errors.New("repositories: not found")
	ErrDuplicateKey    = errors.New("repositories: duplicate key")
	ErrVersionConflict = errors.New("repositories: version conflict")
)

// UserRepository persists User records. Email is unique.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	All(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CategoryRepository persists categories. Name and slug are unique.
type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	All(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductRepository persists products. Slug is unique.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindBySlug(ctx context.Context, slug string) (models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CartRepository persists carts, one per user.
//
// Replace is a compare-and-swap: it succeeds only while the stored version
// equals c.Version, and bumps c.Version on success. A stale version yields
// ErrVersionConflict.
type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	All(ctx context.Context) ([]models.Cart, error)
	Insert(ctx context.Context, c *models.Cart) error
	Replace(ctx context.Context, c *models.Cart) error
}

// OrderRepository persists orders.
//
// Create stores the order at version 1. Update is a compare-and-swap like
// CartRepository.Replace: a stale o.Version yields ErrVersionConflict.
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Store groups every repository the application needs.
type Store struct {
	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Carts      CartRepository
	Orders     OrderRepository
}
