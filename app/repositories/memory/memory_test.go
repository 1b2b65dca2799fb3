package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories/memory"
)

func TestUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	u := &models.User{Email: "Ada@Example.com", Roles: []string{models.RoleUser}}
	require.NoError(t, store.Users.Create(ctx, u))
	assert.False(t, u.ID.IsZero())

	err := store.Users.Create(ctx, &models.User{Email: "ada@example.com"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	found, err := store.Users.FindByEmail(ctx, " ADA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	all, _ := store.Users.All(ctx)
	assert.Len(t, all, 1)
}

func TestUsers_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	u := &models.User{Email: "a@b.co", Roles: []string{models.RoleUser}}
	require.NoError(t, store.Users.Create(ctx, u))

	u.Roles[0] = models.RoleAdmin
	got, err := store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleUser}, got.Roles)
}

func TestCategories_UniqueNameOnUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	a := &models.Category{Name: "Shirts", Slug: "shirts"}
	b := &models.Category{Name: "Pants", Slug: "pants"}
	require.NoError(t, store.Categories.Create(ctx, a))
	require.NoError(t, store.Categories.Create(ctx, b))

	b.Name, b.Slug = "Shirts", "shirts"
	assert.ErrorIs(t, store.Categories.Update(ctx, b), repositories.ErrDuplicateKey)

	a.Description = "cotton"
	assert.NoError(t, store.Categories.Update(ctx, a))
}

func TestDeleteMissing(t *testing.T) {
	store := memory.New()
	err := store.Products.Delete(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCarts_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := primitive.NewObjectID()

	c := &models.Cart{UserID: user}
	require.NoError(t, store.Carts.Insert(ctx, c))
	assert.EqualValues(t, 1, c.Version)
	assert.ErrorIs(t, store.Carts.Insert(ctx, &models.Cart{UserID: user}), repositories.ErrDuplicateKey)

	first, _ := store.Carts.FindByUser(ctx, user)
	second, _ := store.Carts.FindByUser(ctx, user)

	first.Items = append(first.Items, models.CartItem{ID: primitive.NewObjectID(), Quantity: 1, Size: models.SizeM})
	require.NoError(t, store.Carts.Replace(ctx, &first))
	assert.EqualValues(t, 2, first.Version)

	second.Items = append(second.Items, models.CartItem{ID: primitive.NewObjectID(), Quantity: 4, Size: models.SizeL})
	assert.ErrorIs(t, store.Carts.Replace(ctx, &second), repositories.ErrVersionConflict)
	assert.EqualValues(t, 1, second.Version)

	stored, _ := store.Carts.FindByUser(ctx, user)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, models.SizeM, stored.Items[0].Size)
}

func TestOrders_FindByUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	require.NoError(t, store.Orders.Create(ctx, &models.Order{UserID: alice}))
	require.NoError(t, store.Orders.Create(ctx, &models.Order{UserID: bob}))
	require.NoError(t, store.Orders.Create(ctx, &models.Order{UserID: alice}))

	mine, err := store.Orders.FindByUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
