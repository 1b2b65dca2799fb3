// Package routes binds controllers to URL paths together with the roles
// each route requires.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/app/controllers"
	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
	"github.com/shashiranjanraj/kashvi-shop/pkg/router"
)

// Handlers is everything RegisterAPI needs to mount the API.
type Handlers struct {
	Authn router.Middleware

	Auth       *controllers.AuthController
	Users      *controllers.UserController
	Categories *controllers.CategoryController
	Products   *controllers.ProductController
	Uploads    *controllers.UploadController
	Carts      *controllers.CartController
	Orders     *controllers.OrderController
	OrderFeed  *controllers.OrderFeedController

	// GraphQL is optional; nil leaves /graphql unmounted.
	GraphQL http.HandlerFunc
}

func RegisterAPI(r *router.Router, h Handlers) {
	const admin, user = models.RoleAdmin, models.RoleUser

	authGroup := r.Group("/auth")
	authGroup.Post("/sign-up", "auth.sign-up", ctx.Wrap(h.Auth.SignUp))
	authGroup.Post("/sign-in", "auth.sign-in", ctx.Wrap(h.Auth.SignIn))
	// The refresh token is checked by the handler, not by Authn.
	authGroup.Post("/refresh-token", "auth.refresh-token", ctx.Wrap(h.Auth.RefreshToken))

	users := r.Group("/users").Authenticated(h.Authn)
	users.Get("/roles", "users.roles", ctx.Wrap(h.Users.Roles))
	members := users.Require(admin, user)
	members.Post("", "users.create", ctx.Wrap(h.Users.Create))
	members.Get("/{id}", "users.show", ctx.Wrap(h.Users.Show))
	members.Patch("/{id}", "users.update", ctx.Wrap(h.Users.Update))
	admins := users.Require(admin)
	admins.Get("/list-user", "users.list", ctx.Wrap(h.Users.List))
	admins.Patch("/{id}/roles", "users.roles.assign", ctx.Wrap(h.Users.AssignRoles))
	admins.Delete("/{id}", "users.delete", ctx.Wrap(h.Users.Delete))

	categories := r.Group("/categories")
	categories.Get("", "categories.index", ctx.Wrap(h.Categories.Index))
	categories.Get("/{id}", "categories.show", ctx.Wrap(h.Categories.Show))
	categoryWrites := categories.Authenticated(h.Authn).Require(admin)
	categoryWrites.Post("", "categories.store", ctx.Wrap(h.Categories.Store))
	categoryWrites.Patch("/{id}", "categories.update", ctx.Wrap(h.Categories.Update))
	categoryWrites.Delete("/{id}", "categories.destroy", ctx.Wrap(h.Categories.Destroy))

	products := r.Group("/products")
	products.Get("", "products.index", ctx.Wrap(h.Products.Index))
	products.Get("/slug/{slug}", "products.slug", ctx.Wrap(h.Products.ShowBySlug))
	products.Get("/{id}", "products.show", ctx.Wrap(h.Products.Show))
	productWrites := products.Authenticated(h.Authn).Require(admin)
	productWrites.Post("", "products.store", ctx.Wrap(h.Products.Store))
	productWrites.Patch("/{id}", "products.update", ctx.Wrap(h.Products.Update))
	productWrites.Delete("/{id}", "products.destroy", ctx.Wrap(h.Products.Destroy))

	r.Group("/upload").Authenticated(h.Authn).Require(admin, user).
		Post("/image", "upload.image", ctx.Wrap(h.Uploads.Image))

	carts := r.Group("/carts").Authenticated(h.Authn)
	carts.Require(admin).Get("/all", "carts.all", ctx.Wrap(h.Carts.All))
	cartOwners := carts.Require(admin, user)
	cartOwners.Post("", "carts.add", ctx.Wrap(h.Carts.Add))
	cartOwners.Get("", "carts.show", ctx.Wrap(h.Carts.Show))
	cartOwners.Patch("/{itemId}", "carts.items.update", ctx.Wrap(h.Carts.UpdateItem))
	cartOwners.Delete("/{itemId}", "carts.items.remove", ctx.Wrap(h.Carts.RemoveItem))

	orders := r.Group("/orders").Authenticated(h.Authn)
	customers := orders.Require(admin, user)
	customers.Post("", "orders.store", ctx.Wrap(h.Orders.Store))
	customers.Post("/checkout", "orders.checkout", ctx.Wrap(h.Orders.Checkout))
	customers.Get("", "orders.mine", ctx.Wrap(h.Orders.Mine))
	customers.Get("/{id}", "orders.show", ctx.Wrap(h.Orders.Show))
	customers.Patch("/{id}", "orders.update", ctx.Wrap(h.Orders.Update))
	orderAdmins := orders.Require(admin)
	orderAdmins.Get("/all", "orders.all", ctx.Wrap(h.Orders.All))
	orderAdmins.Delete("/{id}", "orders.destroy", ctx.Wrap(h.Orders.Destroy))

	if h.OrderFeed != nil {
		r.Group("/ws").Authenticated(h.Authn).Get("/orders", "ws.orders", h.OrderFeed.Connect)
	}
	if h.GraphQL != nil {
		r.Post("/graphql", "graphql", h.GraphQL)
	}
}
