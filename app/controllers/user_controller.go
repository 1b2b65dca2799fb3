package controllers

import (
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func (h *UserController) Create(c *ctx.Context) {
	var in services.CreateUserInput
	if !c.BindJSON(&in) {
		return
	}
	actor, _ := c.Principal()
	u, err := h.service.CreateAs(c.Context(), actor, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(u)
}

func (h *UserController) List(c *ctx.Context) {
	users, err := h.service.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(users)
}

func (h *UserController) Roles(c *ctx.Context) {
	c.Success(h.service.Roles())
}

func (h *UserController) Show(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	actor, _ := c.Principal()
	u, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(u)
}

func (h *UserController) Update(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	var in services.UpdateUserInput
	if !c.BindJSON(&in) {
		return
	}
	actor, _ := c.Principal()
	u, err := h.service.Update(c.Context(), actor, id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(u)
}

func (h *UserController) AssignRoles(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	var in services.AssignRolesInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := h.service.AssignRoles(c.Context(), id, in.Roles)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(u)
}

func (h *UserController) Delete(c *ctx.Context) {
	id, err := c.ObjectID("id")
	if err != nil {
		c.Fail(err)
		return
	}
	res, err := h.service.Delete(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(res)
}
