package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/jobs"
	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/event"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-shop/pkg/queue"
)

// Events fired by OrderService.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

const (
	msgOrderNotFound     = "Order not found."
	msgCancelNotPending  = "Cannot cancel an order that is not pending."
	msgOwnerCancelOnly   = "You can only cancel your own orders."
	msgEmptyCartCheckout = "cart is empty"
	msgOrderConcurrently = "Order was modified concurrently, please retry."
)

// maxOrderAttempts bounds the compare-and-swap retries of one order update.
const maxOrderAttempts = 3

type OrderItemInput struct {
	ProductID string  `json:"productId" validate:"required,objectid"`
	Quantity  int     `json:"quantity"  validate:"required,gte=1"`
	Size      string  `json:"size"      validate:"required,in=S,M,L,XL,XXL"`
	Price     float64 `json:"price"     validate:"gte=0"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput `json:"products"        validate:"required,min=1,dive"`
	Phone           string           `json:"phone"           validate:"required,max=30"`
	ShippingAddress string           `json:"shippingAddress" validate:"required,max=500"`
	Notes           string           `json:"notes"           validate:"nullable,max=1000"`
	TotalAmount     float64          `json:"totalAmount"     validate:"gte=0"`
	PaymentMethod   string           `json:"paymentMethod"   validate:"required,in=credit_card,paypal,cash_on_delivery"`
	ShippingCost    float64          `json:"shippingCost"    validate:"gte=0"`
}

// CheckoutInput carries the order fields a cart does not have.
type CheckoutInput struct {
	Phone           string  `json:"phone"           validate:"required,max=30"`
	ShippingAddress string  `json:"shippingAddress" validate:"required,max=500"`
	Notes           string  `json:"notes"           validate:"nullable,max=1000"`
	PaymentMethod   string  `json:"paymentMethod"   validate:"required,in=credit_card,paypal,cash_on_delivery"`
	ShippingCost    float64 `json:"shippingCost"    validate:"gte=0"`
}

type UpdateOrderInput struct {
	Status      *string    `json:"status"      validate:"nullable,in=pending,shipped,delivered,canceled"`
	ShippedAt   *time.Time `json:"shippedAt"`
	DeliveredAt *time.Time `json:"deliveredAt"`
}

// StatusChanged is the payload of EventOrderStatusChanged.
type StatusChanged struct {
	OrderID string             `json:"orderId"`
	UserID  string             `json:"userId"`
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
	At      time.Time          `json:"at"`
}

// Dispatcher queues background jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

type OrderService struct {
	store  *repositories.Store
	carts  *CartService
	jobs   Dispatcher
	bus    *event.Bus
	strict bool
	clock  clock
}

// NewOrderService wires the order engine. With strict set, every referenced
// product must exist before an order is stored; otherwise a queued job
// checks them afterwards.
func NewOrderService(store *repositories.Store, carts *CartService, jobs Dispatcher, bus *event.Bus, strict bool) *OrderService {
	return &OrderService{store: store, carts: carts, jobs: jobs, bus: bus, strict: strict}
}

// Create places an order for userID in status pending.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, in CreateOrderInput) (models.Order, error) {
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		pid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return models.Order{}, apperr.NotFoundf("%s", idNotFound("Product", it.ProductID))
		}
		if s.strict {
			if _, err := s.store.Products.FindByID(ctx, pid); err != nil {
				return models.Order{}, storeErr(err, idNotFound("Product", it.ProductID), "")
			}
		}
		items = append(items, models.OrderItem{
			ProductID: pid,
			Quantity:  it.Quantity,
			Size:      models.Size(it.Size),
			Price:     it.Price,
		})
	}

	o := models.Order{
		UserID:          userID,
		Items:           items,
		Phone:           in.Phone,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
		TotalAmount:     in.TotalAmount,
		PaymentMethod:   models.PaymentMethod(in.PaymentMethod),
		ShippingCost:    in.ShippingCost,
	}
	if err := s.place(ctx, &o); err != nil {
		return models.Order{}, err
	}

	if !s.strict && s.jobs != nil {
		if err := s.jobs.Dispatch(ctx, jobs.NewVerifyOrderProducts(s.store, o.ID.Hex())); err != nil {
			logger.WithCtx(ctx).Warn("orders: could not queue product check", "order_id", o.ID.Hex(), "error", err)
		}
	}
	return o, nil
}

// Checkout turns the user's cart into an order at current product prices,
// then empties the cart.
func (s *OrderService) Checkout(ctx context.Context, userID primitive.ObjectID, in CheckoutInput) (models.Order, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, apperr.Validation(map[string]string{"products": msgEmptyCartCheckout})
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		p, err := s.store.Products.FindByID(ctx, it.ProductID)
		if err != nil {
			return models.Order{}, storeErr(err, idNotFound("Product", it.ProductID.Hex()), "")
		}
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Price:     p.Price,
		})
	}

	o := models.Order{
		UserID:          userID,
		Items:           items,
		Phone:           in.Phone,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
		PaymentMethod:   models.PaymentMethod(in.PaymentMethod),
		ShippingCost:    in.ShippingCost,
	}
	if err := s.place(ctx, &o); err != nil {
		return models.Order{}, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		logger.WithCtx(ctx).Warn("orders: cart not cleared after checkout", "order_id", o.ID.Hex(), "error", err)
	}
	return o, nil
}

func (s *OrderService) place(ctx context.Context, o *models.Order) error {
	now := s.clock.now()
	o.Status = models.StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.TotalAmount == 0 {
		o.TotalAmount = orderTotal(o.Items, o.ShippingCost)
	}

	if err := s.store.Orders.Create(ctx, o); err != nil {
		return fmt.Errorf("orders: create: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues(string(o.PaymentMethod)).Inc()
	s.bus.Fire(ctx, EventOrderCreated, *o)
	logger.WithCtx(ctx).Info("orders: placed", "order_id", o.ID.Hex(), "user_id", o.UserID.Hex(), "total", o.TotalAmount)
	return nil
}

// orderTotal is Σ price×quantity + shipping, rounded to cents.
func orderTotal(items []models.OrderItem, shipping float64) float64 {
	total := decimal.NewFromFloat(shipping)
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Round(2).Float64()
	return f
}

// FindByID returns an order the actor may see.
func (s *OrderService) FindByID(ctx context.Context, actor auth.Principal, id primitive.ObjectID) (models.Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !ownsOrAdmin(actor, o) {
		return models.Order{}, apperr.Forbiddenf("Forbidden resource")
	}
	return o, nil
}

func (s *OrderService) find(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	o, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, storeErr(err, msgOrderNotFound, "")
	}
	return o, nil
}

func (s *OrderService) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.store.Orders.FindByUser(ctx, userID)
}

func (s *OrderService) All(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders.All(ctx)
}

// Update applies a status change and timestamp writes on behalf of actor.
// Non-admin owners may only cancel. A write that loses a race re-reads the
// order and checks the transition again.
func (s *OrderService) Update(ctx context.Context, actor auth.Principal, id primitive.ObjectID, in UpdateOrderInput) (models.Order, error) {
	for attempt := 1; attempt <= maxOrderAttempts; attempt++ {
		o, err := s.find(ctx, id)
		if err != nil {
			return models.Order{}, err
		}

		if !actor.HasRole(models.RoleAdmin) {
			if !ownsOrAdmin(actor, o) {
				return models.Order{}, apperr.Forbiddenf("Forbidden resource")
			}
			if in.Status == nil || models.OrderStatus(*in.Status) != models.StatusCanceled ||
				in.ShippedAt != nil || in.DeliveredAt != nil {
				return models.Order{}, apperr.Forbiddenf(msgOwnerCancelOnly)
			}
		}

		from := o.Status
		if in.Status != nil {
			if err := s.transition(&o, models.OrderStatus(*in.Status)); err != nil {
				return models.Order{}, err
			}
		}
		if in.ShippedAt != nil {
			t := in.ShippedAt.UTC()
			o.ShippedAt = &t
		}
		if in.DeliveredAt != nil {
			t := in.DeliveredAt.UTC()
			o.DeliveredAt = &t
		}

		err = s.save(ctx, &o)
		if errors.Is(err, repositories.ErrVersionConflict) {
			logger.WithCtx(ctx).Debug("orders: update lost a race", "order_id", id.Hex(), "attempt", attempt)
			continue
		}
		if err != nil {
			return models.Order{}, err
		}
		if o.Status != from {
			s.statusChanged(ctx, o, from)
		}
		return o, nil
	}
	return models.Order{}, apperr.Conflictf(msgOrderConcurrently)
}

// UpdateStatus moves an order along the transition table.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, to models.OrderStatus) (models.Order, error) {
	status := string(to)
	return s.Update(ctx, auth.Principal{Roles: []string{models.RoleAdmin}}, id, UpdateOrderInput{Status: &status})
}

// transition applies to, stamping shippedAt and deliveredAt when the order
// reaches those states without one. Re-applying the current status is a
// no-op, except for cancel.
func (s *OrderService) transition(o *models.Order, to models.OrderStatus) error {
	from := o.Status
	switch {
	case to == models.StatusCanceled && from != models.StatusPending:
		return apperr.InvalidTransitionf(msgCancelNotPending)
	case to == from:
		return nil
	case !models.CanTransition(from, to):
		return apperr.InvalidTransitionf("Cannot change order status from %s to %s.", from, to)
	}

	now := s.clock.now()
	o.Status = to
	switch to {
	case models.StatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case models.StatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
	return nil
}

// SetShippedAt overwrites the shipping timestamp.
func (s *OrderService) SetShippedAt(ctx context.Context, id primitive.ObjectID, at time.Time) (models.Order, error) {
	return s.Update(ctx, auth.Principal{Roles: []string{models.RoleAdmin}}, id, UpdateOrderInput{ShippedAt: &at})
}

// SetDeliveredAt overwrites the delivery timestamp.
func (s *OrderService) SetDeliveredAt(ctx context.Context, id primitive.ObjectID, at time.Time) (models.Order, error) {
	return s.Update(ctx, auth.Principal{Roles: []string{models.RoleAdmin}}, id, UpdateOrderInput{DeliveredAt: &at})
}

func (s *OrderService) Remove(ctx context.Context, id primitive.ObjectID) (Deleted, error) {
	if err := s.store.Orders.Delete(ctx, id); err != nil {
		return Deleted{}, storeErr(err, idNotFound("Order", id.Hex()), "")
	}
	return deleted("Order", id.Hex()), nil
}

func (s *OrderService) save(ctx context.Context, o *models.Order) error {
	o.UpdatedAt = s.clock.now()
	err := s.store.Orders.Update(ctx, o)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.Wrap(err, apperr.NotFound, msgOrderNotFound)
	}
	return err
}

func (s *OrderService) statusChanged(ctx context.Context, o models.Order, from models.OrderStatus) {
	metrics.OrderTransitions.WithLabelValues(string(from), string(o.Status)).Inc()
	logger.WithCtx(ctx).Info("orders: status changed",
		"order_id", o.ID.Hex(), "from", from, "to", o.Status)
	s.bus.Fire(ctx, EventOrderStatusChanged, StatusChanged{
		OrderID: o.ID.Hex(),
		UserID:  o.UserID.Hex(),
		From:    from,
		To:      o.Status,
		At:      o.UpdatedAt,
	})
}

func ownsOrAdmin(actor auth.Principal, o models.Order) bool {
	return actor.HasRole(models.RoleAdmin) || actor.UserID == o.UserID.Hex()
}
