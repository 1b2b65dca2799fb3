package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
)

func intp(v int) *int { return &v }
func strp(v string) *string { return &v }

func TestCart_AddMergesSameSlot(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := services.NewCartService(store.Carts, store.Products)
	p := newProduct(t, store, "tee", 10)
	user := primitive.NewObjectID()

	_, err := svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 2, Size: "M"})
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 3, Size: "M"})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart, err = svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 1, Size: "L"})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2, "a different size is a separate slot")
	assert.Equal(t, models.SizeL, cart.Items[1].Size)
}

func TestCart_AddUnknownProduct(t *testing.T) {
	store := newMemoryStore()
	svc := services.NewCartService(store.Carts, store.Products)

	_, err := svc.AddItem(context.Background(), primitive.NewObjectID(), services.AddCartItemInput{
		ProductID: primitive.NewObjectID().Hex(), Quantity: 1, Size: "M",
	})
	requireKind(t, err, apperr.NotFound)
}

func TestCart_UpdateItem(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := services.NewCartService(store.Carts, store.Products)
	p := newProduct(t, store, "hoodie", 40)
	user := primitive.NewObjectID()

	_, err := svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 2, Size: "M"})
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 1, Size: "L"})
	require.NoError(t, err)
	mID, lID := cart.Items[0].ID, cart.Items[1].ID

	res, err := svc.UpdateItem(ctx, user, mID, services.UpdateCartItemInput{Quantity: intp(7)})
	require.NoError(t, err)
	assert.Equal(t, "Cart updated successfully.", res.Message)
	assert.Equal(t, 7, res.Cart.Items[0].Quantity)

	// size change onto an existing slot merges
	res, err = svc.UpdateItem(ctx, user, lID, services.UpdateCartItemInput{Size: strp("M")})
	require.NoError(t, err)
	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, 8, res.Cart.Items[0].Quantity)

	res, err = svc.UpdateItem(ctx, user, mID, services.UpdateCartItemInput{Size: strp("XL")})
	require.NoError(t, err)
	assert.Equal(t, models.SizeXL, res.Cart.Items[0].Size)

	res, err = svc.UpdateItem(ctx, user, mID, services.UpdateCartItemInput{Quantity: intp(0), Size: strp("S")})
	require.NoError(t, err)
	assert.Empty(t, res.Cart.Items)

	_, err = svc.UpdateItem(ctx, user, mID, services.UpdateCartItemInput{Quantity: intp(1)})
	requireKind(t, err, apperr.NotFound)
	assert.Contains(t, err.Error(), "Product not found in cart.")
}

func TestCart_RemoveAndGet(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := services.NewCartService(store.Carts, store.Products)
	p := newProduct(t, store, "cap", 15)
	user := primitive.NewObjectID()

	empty, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	assert.True(t, empty.ID.IsZero())
	assert.Empty(t, empty.Items)

	_, err = svc.RemoveItem(ctx, user, primitive.NewObjectID())
	requireKind(t, err, apperr.NotFound)

	cart, err := svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 1, Size: "S"})
	require.NoError(t, err)

	res, err := svc.RemoveItem(ctx, user, cart.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Product removed from cart successfully.", res.Message)
	assert.Empty(t, res.Cart.Items)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Clear(ctx, primitive.NewObjectID()), "clearing a missing cart is a no-op")
}

func TestCart_ConcurrentAddsKeepEveryUnit(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := services.NewCartService(store.Carts, store.Products)
	p := newProduct(t, store, "sock", 3)
	user := primitive.NewObjectID()

	_, err := svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 1, Size: "M"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 1, Size: "M"})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			assert.True(t, apperr.Is(err, apperr.Conflict), err.Error())
		}()
	}
	wg.Wait()

	cart, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1+ok, cart.Items[0].Quantity, "no successful add may be lost")
}

// staleCarts loses every compare-and-swap.
type staleCarts struct{ repositories.CartRepository }

func (staleCarts) Replace(context.Context, *models.Cart) error { return repositories.ErrVersionConflict }

func TestCart_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	p := newProduct(t, store, "belt", 25)
	user := primitive.NewObjectID()

	_, err := services.NewCartService(store.Carts, store.Products).
		AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 1, Size: "M"})
	require.NoError(t, err)

	svc := services.NewCartService(staleCarts{store.Carts}, store.Products)
	_, err = svc.AddItem(ctx, user, services.AddCartItemInput{ProductID: p.ID.Hex(), Quantity: 1, Size: "M"})
	requireKind(t, err, apperr.Conflict)
}
