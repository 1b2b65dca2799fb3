package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
)

const (
	categoriesCacheKey = "catalog:categories"
	catalogCacheTTL    = 5 * time.Minute
)

type CreateCategoryInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"nullable,max=1000"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"        validate:"nullable,min=2,max=100"`
	Description *string `json:"description" validate:"nullable,max=1000"`
}

type CategoryService struct {
	categories repositories.CategoryRepository
	cache      *cache.Cache
	clock      clock
}

func NewCategoryService(categories repositories.CategoryRepository, c *cache.Cache) *CategoryService {
	return &CategoryService{categories: categories, cache: c}
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (models.Category, error) {
	now := s.clock.now()
	name := strings.TrimSpace(in.Name)
	sl, err := nameSlug(name)
	if err != nil {
		return models.Category{}, err
	}
	c := models.Category{
		Name:        name,
		Description: in.Description,
		Slug:        sl,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, &c); err != nil {
		return models.Category{}, storeErr(err, "", "Category already exists")
	}
	s.cache.Forget(ctx, categoriesCacheKey)
	return c, nil
}

// All returns every category, served from the cache when warm.
func (s *CategoryService) All(ctx context.Context) ([]models.Category, error) {
	return cache.Remember(ctx, s.cache, categoriesCacheKey, catalogCacheTTL, func() ([]models.Category, error) {
		return s.categories.All(ctx)
	})
}

func (s *CategoryService) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return models.Category{}, storeErr(err, idNotFound("Category", id.Hex()), "")
	}
	return c, nil
}

// Update applies a partial update. The slug is rederived only when the
// patch carries a name.
func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, in UpdateCategoryInput) (models.Category, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
		if c.Slug, err = nameSlug(c.Name); err != nil {
			return models.Category{}, err
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	c.UpdatedAt = s.clock.now()

	if err := s.categories.Update(ctx, &c); err != nil {
		return models.Category{}, storeErr(err, idNotFound("Category", id.Hex()), "Category already exists")
	}
	s.cache.Forget(ctx, categoriesCacheKey)
	return c, nil
}

func (s *CategoryService) Remove(ctx context.Context, id primitive.ObjectID) (Deleted, error) {
	if err := s.categories.Delete(ctx, id); err != nil {
		return Deleted{}, storeErr(err, idNotFound("Category", id.Hex()), "")
	}
	s.cache.Forget(ctx, categoriesCacheKey)
	return deleted("Category", id.Hex()), nil
}
