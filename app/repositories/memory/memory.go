// Package memory implements the repositories on process memory. It backs
// STORE_DRIVER=memory and the service and HTTP tests.
package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
)

// New returns a Store whose repositories share nothing but live in memory.
func New() *repositories.Store {
	return &repositories.Store{
		Users:      &Users{t: newTable(userID, cloneUser, uniqueKey("email", func(u models.User) string { return u.Email }))},
		Categories: &Categories{t: newTable(categoryID, cloneCategory, uniqueKey("name", func(c models.Category) string { return c.Name }), uniqueKey("slug", func(c models.Category) string { return c.Slug }))},
		Products:   &Products{t: newTable(productID, cloneProduct, uniqueKey("slug", func(p models.Product) string { return p.Slug }))},
		Carts:      &Carts{t: newTable(cartID, cloneCart, uniqueKey("userId", func(c models.Cart) string { return c.UserID.Hex() }))},
		Orders:     &Orders{t: newTable(orderID, cloneOrder)},
	}
}

type unique[T any] struct {
	field string
	key   func(T) string
}

func uniqueKey[T any](field string, key func(T) string) unique[T] {
	return unique[T]{field: field, key: key}
}

// table is an insertion-ordered map of rows with unique-field checks.
type table[T any] struct {
	mu      sync.RWMutex
	rows    map[primitive.ObjectID]T
	order   []primitive.ObjectID
	id      func(*T) *primitive.ObjectID
	clone   func(T) T
	uniques []unique[T]
}

func newTable[T any](id func(*T) *primitive.ObjectID, clone func(T) T, uniques ...unique[T]) *table[T] {
	return &table[T]{
		rows:    make(map[primitive.ObjectID]T),
		id:      id,
		clone:   clone,
		uniques: uniques,
	}
}

// violates reports whether row collides with another row on a unique field.
// Callers hold the lock.
func (t *table[T]) violates(row T, self primitive.ObjectID) bool {
	for _, u := range t.uniques {
		k := u.key(row)
		if k == "" {
			continue
		}
		for id, other := range t.rows {
			if id != self && u.key(other) == k {
				return true
			}
		}
	}
	return false
}

func (t *table[T]) insert(_ context.Context, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.id(row)
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	if _, exists := t.rows[*id]; exists {
		return repositories.ErrDuplicateKey
	}
	if t.violates(*row, *id) {
		return repositories.ErrDuplicateKey
	}
	t.rows[*id] = t.clone(*row)
	t.order = append(t.order, *id)
	return nil
}

func (t *table[T]) get(_ context.Context, id primitive.ObjectID) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, repositories.ErrNotFound
	}
	return t.clone(row), nil
}

func (t *table[T]) first(_ context.Context, match func(T) bool) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		if row := t.rows[id]; match(row) {
			return t.clone(row), nil
		}
	}
	var zero T
	return zero, repositories.ErrNotFound
}

func (t *table[T]) filter(_ context.Context, match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	for _, id := range t.order {
		if row := t.rows[id]; match == nil || match(row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

// replace overwrites the row with row's id. check, when set, runs against
// the stored row under the lock and may veto the write.
func (t *table[T]) replace(_ context.Context, row *T, check func(stored T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := *t.id(row)
	stored, ok := t.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if check != nil {
		if err := check(stored); err != nil {
			return err
		}
	}
	if t.violates(*row, id) {
		return repositories.ErrDuplicateKey
	}
	t.rows[id] = t.clone(*row)
	return nil
}

func (t *table[T]) delete(_ context.Context, id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func userID(u *models.User) *primitive.ObjectID         { return &u.ID }
func categoryID(c *models.Category) *primitive.ObjectID { return &c.ID }
func productID(p *models.Product) *primitive.ObjectID   { return &p.ID }
func cartID(c *models.Cart) *primitive.ObjectID         { return &c.ID }
func orderID(o *models.Order) *primitive.ObjectID       { return &o.ID }

func cloneUser(u models.User) models.User {
	u.Roles = append([]string(nil), u.Roles...)
	return u
}

func cloneCategory(c models.Category) models.Category { return c }

func cloneProduct(p models.Product) models.Product {
	p.Sizes = append([]models.SizeStock(nil), p.Sizes...)
	return p
}

func cloneCart(c models.Cart) models.Cart {
	c.Items = append([]models.CartItem{}, c.Items...)
	return c
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	if o.ShippedAt != nil {
		t := *o.ShippedAt
		o.ShippedAt = &t
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		o.DeliveredAt = &t
	}
	return o
}
