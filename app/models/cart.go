package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one (product, size) slot in a cart.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id"       json:"_id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity"  json:"quantity"`
	Size      Size               `bson:"size"      json:"size"`
}

// Cart is the single mutable cart of a user. Version increases on every
// write and guards concurrent read-modify-write cycles.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitzero"`
	UserID    primitive.ObjectID `bson:"userId"        json:"userId"`
	Items     []CartItem         `bson:"products"      json:"products"`
	Version   int64              `bson:"version"       json:"-"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// Slot returns the index of the item matching (productID, size), or -1.
func (c *Cart) Slot(productID primitive.ObjectID, size Size) int {
	for i, it := range c.Items {
		if it.ProductID == productID && it.Size == size {
			return i
		}
	}
	return -1
}

// Item returns the index of the item with id, or -1.
func (c *Cart) Item(id primitive.ObjectID) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Remove deletes the item at index i, keeping order.
func (c *Cart) Remove(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}
