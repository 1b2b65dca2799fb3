package controllers

import (
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
	"github.com/shashiranjanraj/kashvi-shop/pkg/middleware"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// SignUp handles POST /auth/sign-up.
func (h *AuthController) SignUp(c *ctx.Context) {
	var in services.CreateUserInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := h.service.SignUp(c.Context(), in)
	if err != nil {
		c.FailWithError(err, "Failed to sign up. ")
		return
	}
	c.Created(u)
}

// SignIn handles POST /auth/sign-in.
func (h *AuthController) SignIn(c *ctx.Context) {
	var in services.SignInInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.service.SignIn(c.Context(), in)
	if err != nil {
		c.FailWithError(err, "Failed to sign in. ")
		return
	}
	c.Success(res)
}

// RefreshToken handles POST /auth/refresh-token. The refresh token travels
// as the bearer token.
func (h *AuthController) RefreshToken(c *ctx.Context) {
	res, err := h.service.Refresh(c.Context(), middleware.BearerToken(c.R))
	if err != nil {
		c.FailWithError(err, "Failed to refresh token. ")
		return
	}
	c.Success(res)
}
