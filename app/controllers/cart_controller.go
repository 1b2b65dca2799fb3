package controllers

import (
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

type CartController struct {
	service *services.CartService
}

func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

func (h *CartController) Add(c *ctx.Context) {
	userID, err := c.UserID()
	if err != nil {
		c.Fail(err)
		return
	}
	var in services.AddCartItemInput
	if !c.BindJSON(&in) {
		return
	}
	cart, err := h.service.AddItem(c.Context(), userID, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(cart)
}

func (h *CartController) Show(c *ctx.Context) {
	userID, err := c.UserID()
	if err != nil {
		c.Fail(err)
		return
	}
	cart, err := h.service.GetCart(c.Context(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cart)
}

func (h *CartController) All(c *ctx.Context) {
	carts, err := h.service.ListAll(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(carts)
}

func (h *CartController) UpdateItem(c *ctx.Context) {
	userID, err := c.UserID()
	if err != nil {
		c.Fail(err)
		return
	}
	itemID, err := c.ObjectID("itemId")
	if err != nil {
		c.NotFound("Product not found in cart.")
		return
	}
	var in services.UpdateCartItemInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.service.UpdateItem(c.Context(), userID, itemID, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message(res.Message, res.Cart)
}

func (h *CartController) RemoveItem(c *ctx.Context) {
	userID, err := c.UserID()
	if err != nil {
		c.Fail(err)
		return
	}
	itemID, err := c.ObjectID("itemId")
	if err != nil {
		c.NotFound("Product not found in cart.")
		return
	}
	res, err := h.service.RemoveItem(c.Context(), userID, itemID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message(res.Message, res.Cart)
}
