// Package jobs holds the background jobs the shop dispatches to pkg/queue.
package jobs

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/queue"
)

const VerifyOrderProductsName = "orders.verify_products"

// VerifyOrderProducts checks that every product an order references still
// exists. Missing products are logged; the order is left as placed.
type VerifyOrderProducts struct {
	OrderID string `json:"orderId"`

	orders   repositories.OrderRepository
	products repositories.ProductRepository
	missing  []string
}

func (VerifyOrderProducts) Name() string { return VerifyOrderProductsName }

func (j *VerifyOrderProducts) Handle(ctx context.Context) error {
	id, err := primitive.ObjectIDFromHex(j.OrderID)
	if err != nil {
		logger.Warn("jobs: bad order id", "order_id", j.OrderID)
		return nil
	}
	order, err := j.orders.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		// removed before the job ran
		return nil
	}
	if err != nil {
		return fmt.Errorf("jobs: load order %s: %w", j.OrderID, err)
	}

	j.missing = j.missing[:0]
	for _, item := range order.Items {
		_, err := j.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			j.missing = append(j.missing, item.ProductID.Hex())
			continue
		}
		if err != nil {
			return fmt.Errorf("jobs: load product %s: %w", item.ProductID.Hex(), err)
		}
	}

	if len(j.missing) > 0 {
		logger.Warn("jobs: order references missing products",
			"order_id", j.OrderID, "user_id", order.UserID.Hex(), "products", j.missing)
	}
	return nil
}

// Missing lists the product ids the last run could not find.
func (j *VerifyOrderProducts) Missing() []string { return j.missing }

// NewVerifyOrderProducts builds a runnable job for orderID.
func NewVerifyOrderProducts(store *repositories.Store, orderID string) *VerifyOrderProducts {
	return &VerifyOrderProducts{OrderID: orderID, orders: store.Orders, products: store.Products}
}

// Register makes every job decodable by q.
func Register(q *queue.Manager, store *repositories.Store) {
	q.Register(VerifyOrderProductsName, func() queue.Job {
		return NewVerifyOrderProducts(store, "")
	})
}
