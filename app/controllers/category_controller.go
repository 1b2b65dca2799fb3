package controllers

import (
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

type CategoryController struct {
	service *services.CategoryService
}

func NewCategoryController(service *services.CategoryService) *CategoryController {
	return &CategoryController{service: service}
}

func (h *CategoryController) Index(c *ctx.Context) {
	list, err := h.service.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(list)
}

func (h *CategoryController) Show(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	cat, err := h.service.FindByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *CategoryController) Store(c *ctx.Context) {
	var in services.CreateCategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.service.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(cat)
}

func (h *CategoryController) Update(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	var in services.UpdateCategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.service.Update(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *CategoryController) Destroy(c *ctx.Context) {
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
