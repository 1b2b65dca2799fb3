package seeders

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

func init() {
	Register("admin", SeedAdmin)
	Register("categories", SeedCategories)
}

// StarterCategories are created by SeedCategories.
var StarterCategories = []string{"T-Shirts", "Shirts", "Jeans", "Jackets", "Shoes"}

// SeedAdmin creates the admin account named by ADMIN_EMAIL and
// ADMIN_PASSWORD unless it exists.
func SeedAdmin(ctx context.Context, store *repositories.Store) error {
	email := config.Get("ADMIN_EMAIL", "admin@kashvi-shop.local")
	if _, err := store.Users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	users := services.NewUserService(store.Users, config.Auth().BcryptCost)
	_, err := users.Create(ctx, services.CreateUserInput{
		Email:     email,
		Password:  config.Get("ADMIN_PASSWORD", "change-me-admin"),
		FirstName: "Shop",
		LastName:  "Admin",
		Roles:     []string{models.RoleAdmin, models.RoleUser},
	})
	if err != nil {
		return err
	}
	logger.Info("seeders: admin created", "email", email)
	return nil
}

// SeedCategories creates StarterCategories, skipping existing names.
func SeedCategories(ctx context.Context, store *repositories.Store) error {
	svc := services.NewCategoryService(store.Categories, cache.Nop())
	for _, name := range StarterCategories {
		_, err := svc.Create(ctx, services.CreateCategoryInput{Name: name})
		if err != nil && !apperr.Is(err, apperr.Conflict) {
			return err
		}
	}
	return nil
}
