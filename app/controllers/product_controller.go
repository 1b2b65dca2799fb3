package controllers

import (
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

// productFileField is the multipart part carrying a product thumbnail.
const productFileField = "file"

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

func (h *ProductController) Index(c *ctx.Context) {
	list, err := h.service.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(list)
}

func (h *ProductController) Show(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	p, err := h.service.FindByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) ShowBySlug(c *ctx.Context) {
	p, err := h.service.FindBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

// Store accepts JSON, or multipart with the fields in a "data" part and an
// optional image under "file".
func (h *ProductController) Store(c *ctx.Context) {
	var in services.CreateProductInput
	file, ok := c.BindBody(&in, productFileField)
	if !ok {
		return
	}
	defer closeFile(file)

	p, err := h.service.Create(c.Context(), in, imageFrom(file))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(p)
}

func (h *ProductController) Update(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	var in services.UpdateProductInput
	file, ok := c.BindBody(&in, productFileField)
	if !ok {
		return
	}
	defer closeFile(file)

	p, err := h.service.Update(c.Context(), id, in, imageFrom(file))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) Destroy(c *ctx.Context) {
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
