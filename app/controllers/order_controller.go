package controllers

import (
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

func (h *OrderController) Store(c *ctx.Context) {
	userID, err := c.UserID()
	if err != nil {
		c.Fail(err)
		return
	}
	var in services.CreateOrderInput
	if !c.BindJSON(&in) {
		return
	}
	o, err := h.service.Create(c.Context(), userID, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(o)
}

func (h *OrderController) Checkout(c *ctx.Context) {
	userID, err := c.UserID()
	if err != nil {
		c.Fail(err)
		return
	}
	var in services.CheckoutInput
	if !c.BindJSON(&in) {
		return
	}
	o, err := h.service.Checkout(c.Context(), userID, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(o)
}

// Mine lists the caller's orders.
func (h *OrderController) Mine(c *ctx.Context) {
	userID, err := c.UserID()
	if err != nil {
		c.Fail(err)
		return
	}
	orders, err := h.service.FindByUser(c.Context(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

func (h *OrderController) All(c *ctx.Context) {
	orders, err := h.service.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

func (h *OrderController) Show(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	actor, _ := c.Principal()
	o, err := h.service.FindByID(c.Context(), actor, id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(o)
}

func (h *OrderController) Update(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	var in services.UpdateOrderInput
	if !c.BindJSON(&in) {
		return
	}
	actor, _ := c.Principal()
	o, err := h.service.Update(c.Context(), actor, id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(o)
}

func (h *OrderController) Destroy(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	res, err := h.service.Remove(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(res)
}
