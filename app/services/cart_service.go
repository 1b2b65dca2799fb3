package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
)

// maxCartAttempts bounds the compare-and-swap retries of one cart write.
const maxCartAttempts = 3

const (
	msgCartNotFound     = "Cart not found."
	msgItemNotFound     = "Product not found in cart."
	msgCartUpdated      = "Cart updated successfully."
	msgCartItemRemoved  = "Product removed from cart successfully."
	msgCartConcurrently = "Cart was modified concurrently, please retry."
)

type AddCartItemInput struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Quantity  int    `json:"quantity"  validate:"required,gte=1"`
	Size      string `json:"size"      validate:"required,in=S,M,L,XL,XXL"`
}

// UpdateCartItemInput changes one slot. A quantity of zero or less removes
// the slot; a quantity takes precedence over a size.
type UpdateCartItemInput struct {
	Quantity *int    `json:"quantity"`
	Size     *string `json:"size" validate:"nullable,in=S,M,L,XL,XXL"`
}

// CartResult is a mutated cart plus the message shown to the caller.
type CartResult struct {
	Message string      `json:"message"`
	Cart    models.Cart `json:"cart"`
}

type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	clock    clock
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem merges quantity into the (productId, size) slot of the user's
// cart, creating the cart or the slot as needed.
func (s *CartService) AddItem(ctx context.Context, userID primitive.ObjectID, in AddCartItemInput) (models.Cart, error) {
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return models.Cart{}, apperr.NotFoundf("%s", idNotFound("Product", in.ProductID))
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return models.Cart{}, storeErr(err, idNotFound("Product", in.ProductID), "")
	}

	size := models.Size(in.Size)
	return s.mutate(ctx, "add", userID, true, func(c *models.Cart) error {
		if i := c.Slot(productID, size); i >= 0 {
			c.Items[i].Quantity += in.Quantity
			return nil
		}
		c.Items = append(c.Items, models.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: productID,
			Quantity:  in.Quantity,
			Size:      size,
		})
		return nil
	})
}

// UpdateItem rewrites the quantity or size of one slot. A size change that
// lands on an existing (productId, size) slot merges the two.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID primitive.ObjectID, in UpdateCartItemInput) (CartResult, error) {
	cart, err := s.mutate(ctx, "update", userID, false, func(c *models.Cart) error {
		i := c.Item(itemID)
		if i < 0 {
			return apperr.NotFoundf(msgItemNotFound)
		}

		switch {
		case in.Quantity != nil && *in.Quantity > 0:
			c.Items[i].Quantity = *in.Quantity
		case in.Quantity != nil:
			c.Remove(i)
		case in.Size != nil:
			size := models.Size(*in.Size)
			if j := c.Slot(c.Items[i].ProductID, size); j >= 0 && j != i {
				c.Items[j].Quantity += c.Items[i].Quantity
				c.Remove(i)
				return nil
			}
			c.Items[i].Size = size
		}
		return nil
	})
	if err != nil {
		return CartResult{}, err
	}
	return CartResult{Message: msgCartUpdated, Cart: cart}, nil
}

// RemoveItem deletes one slot.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (CartResult, error) {
	cart, err := s.mutate(ctx, "remove", userID, false, func(c *models.Cart) error {
		i := c.Item(itemID)
		if i < 0 {
			return apperr.NotFoundf(msgItemNotFound)
		}
		c.Remove(i)
		return nil
	})
	if err != nil {
		return CartResult{}, err
	}
	return CartResult{Message: msgCartItemRemoved, Cart: cart}, nil
}

// GetCart returns the user's cart. A user without one gets an empty cart
// that has no id.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// ListAll returns every cart.
func (s *CartService) ListAll(ctx context.Context) ([]models.Cart, error) {
	return s.carts.All(ctx)
}

// Clear empties the user's cart. A missing cart is already clear.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.mutate(ctx, "clear", userID, false, func(c *models.Cart) error {
		c.Items = []models.CartItem{}
		return nil
	})
	if apperr.Is(err, apperr.NotFound) {
		return nil
	}
	return err
}

// mutate runs a read-modify-write cycle on the user's cart, retrying when
// another writer got there first. create allows a missing cart to be made.
func (s *CartService) mutate(ctx context.Context, op string, userID primitive.ObjectID, create bool, fn func(*models.Cart) error) (models.Cart, error) {
	for attempt := 1; attempt <= maxCartAttempts; attempt++ {
		now := s.clock.now()
		cart, err := s.carts.FindByUser(ctx, userID)
		fresh := errors.Is(err, repositories.ErrNotFound)
		switch {
		case fresh && !create:
			return models.Cart{}, apperr.NotFoundf(msgCartNotFound)
		case fresh:
			cart = models.Cart{UserID: userID, Items: []models.CartItem{}, CreatedAt: now}
		case err != nil:
			return models.Cart{}, err
		}

		if err := fn(&cart); err != nil {
			metrics.CartOperations.WithLabelValues(op, "rejected").Inc()
			return models.Cart{}, err
		}
		cart.UpdatedAt = now

		if fresh {
			err = s.carts.Insert(ctx, &cart)
		} else {
			err = s.carts.Replace(ctx, &cart)
		}
		switch {
		case err == nil:
			metrics.CartOperations.WithLabelValues(op, "ok").Inc()
			return cart, nil
		case errors.Is(err, repositories.ErrVersionConflict), errors.Is(err, repositories.ErrDuplicateKey):
			metrics.CartOperations.WithLabelValues(op, "retry").Inc()
			logger.WithCtx(ctx).Debug("cart: write lost a race", "user_id", userID.Hex(), "op", op, "attempt", attempt)
		default:
			return models.Cart{}, err
		}
	}

	metrics.CartOperations.WithLabelValues(op, "conflict").Inc()
	return models.Cart{}, apperr.Conflictf(msgCartConcurrently)
}
